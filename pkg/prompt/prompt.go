// Package prompt collects operator input from the terminal. Validation
// happens here; invalid entries are re-prompted and never reach the
// workflow.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Prompter is the contract the workflow consumes. Implementations block
// until the operator answers.
type Prompter interface {
	// Confirm asks a yes/no question with a default answer
	Confirm(message string, def bool) (bool, error)

	// Select picks exactly one choice; returns its index
	Select(message string, choices []string) (int, error)

	// MultiSelect picks a subset of choices; returns their indices
	MultiSelect(message string, choices []string) ([]int, error)

	// Input reads a line, substituting def when empty
	Input(message, def string) (string, error)

	// Float reads a decimal number
	Float(message string) (float64, error)

	// IntInRange reads an integer within [min, max]
	IntInRange(message string, min, max int) (int, error)

	// Date reads a YYYY-MM-DD date, re-prompting until it parses
	Date(message string) (time.Time, error)
}

// Terminal prompts on an io.Writer and reads answers from an io.Reader,
// typically stdout and stdin.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) Confirm(message string, def bool) (bool, error) {
	hint := "Y/n"
	if !def {
		hint = "y/N"
	}
	for {
		fmt.Fprintf(t.out, "%s [%s] ", message, hint)
		line, err := t.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(t.out, "Please answer y or n.")
	}
}

func (t *Terminal) Select(message string, choices []string) (int, error) {
	fmt.Fprintln(t.out, message)
	for i, choice := range choices {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, choice)
	}
	for {
		fmt.Fprintf(t.out, "Enter a number (1-%d): ", len(choices))
		line, err := t.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(choices) {
			return n - 1, nil
		}
		fmt.Fprintln(t.out, "Invalid selection.")
	}
}

func (t *Terminal) MultiSelect(message string, choices []string) ([]int, error) {
	fmt.Fprintln(t.out, message)
	for i, choice := range choices {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, choice)
	}
	for {
		fmt.Fprintf(t.out, "Enter numbers separated by commas (empty = none): ")
		line, err := t.readLine()
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, nil
		}
		indices, ok := parseSelection(line, len(choices))
		if ok {
			return indices, nil
		}
		fmt.Fprintln(t.out, "Invalid selection.")
	}
}

func parseSelection(line string, count int) ([]int, bool) {
	var indices []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > count {
			return nil, false
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		indices = append(indices, n-1)
	}
	return indices, true
}

func (t *Terminal) Input(message, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(t.out, "%s [%s] ", message, def)
	} else {
		fmt.Fprintf(t.out, "%s ", message)
	}
	line, err := t.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (t *Terminal) Float(message string) (float64, error) {
	for {
		fmt.Fprintf(t.out, "%s ", message)
		line, err := t.readLine()
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(line, 64)
		if err == nil {
			return f, nil
		}
		fmt.Fprintln(t.out, "Enter a number.")
	}
}

func (t *Terminal) IntInRange(message string, min, max int) (int, error) {
	for {
		fmt.Fprintf(t.out, "%s (%d-%d): ", message, min, max)
		line, err := t.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= min && n <= max {
			return n, nil
		}
		fmt.Fprintf(t.out, "Enter a whole number between %d and %d.\n", min, max)
	}
}

func (t *Terminal) Date(message string) (time.Time, error) {
	for {
		fmt.Fprintf(t.out, "%s (YYYY-MM-DD): ", message)
		line, err := t.readLine()
		if err != nil {
			return time.Time{}, err
		}
		d, err := time.Parse("2006-01-02", line)
		if err == nil {
			return d, nil
		}
		fmt.Fprintln(t.out, "Invalid date, use YYYY-MM-DD.")
	}
}

var _ Prompter = (*Terminal)(nil)
