package prompt

import (
	"bytes"
	"strings"
	"testing"
)

func terminal(input string) (*Terminal, *bytes.Buffer) {
	var out bytes.Buffer
	return NewTerminal(strings.NewReader(input), &out), &out
}

func TestConfirmDefaults(t *testing.T) {
	tests := []struct {
		input string
		def   bool
		want  bool
	}{
		{"\n", true, true},
		{"\n", false, false},
		{"y\n", false, true},
		{"yes\n", false, true},
		{"N\n", true, false},
		{"maybe\ny\n", false, true}, // re-prompted
	}
	for _, tt := range tests {
		term, _ := terminal(tt.input)
		got, err := term.Confirm("Proceed?", tt.def)
		if err != nil {
			t.Fatalf("Confirm(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q, def=%v) = %v, want %v", tt.input, tt.def, got, tt.want)
		}
	}
}

func TestSelectRepromptsOutOfRange(t *testing.T) {
	term, _ := terminal("0\n9\n2\n")
	idx, err := term.Select("Pick:", []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if idx != 1 {
		t.Errorf("idx = %d, want 1", idx)
	}
}

func TestMultiSelect(t *testing.T) {
	term, _ := terminal("1, 3\n")
	got, err := term.MultiSelect("Pick:", []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("got = %v, want [0 2]", got)
	}
}

func TestMultiSelectEmptyMeansNone(t *testing.T) {
	term, _ := terminal("\n")
	got, err := term.MultiSelect("Pick:", []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got = %v, want none", got)
	}
}

func TestMultiSelectIgnoresDuplicates(t *testing.T) {
	term, _ := terminal("2,2,1\n")
	got, err := term.MultiSelect("Pick:", []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 0 {
		t.Errorf("got = %v, want [1 0]", got)
	}
}

func TestInputDefault(t *testing.T) {
	term, _ := terminal("\n")
	got, err := term.Input("Description:", "fallback")
	if err != nil {
		t.Fatal(err)
	}
	if got != "fallback" {
		t.Errorf("got = %q, want fallback", got)
	}
}

func TestDateReprompts(t *testing.T) {
	term, out := terminal("08/20/2026\n2026-08-20\n")
	d, err := term.Date("Enter a date")
	if err != nil {
		t.Fatal(err)
	}
	if d.Format("2006-01-02") != "2026-08-20" {
		t.Errorf("date = %s", d.Format("2006-01-02"))
	}
	if !strings.Contains(out.String(), "Invalid date") {
		t.Error("expected a re-prompt notice")
	}
}

func TestIntInRangeBounds(t *testing.T) {
	term, _ := terminal("0\n32\n14\n")
	n, err := term.IntInRange("Due", 1, 31)
	if err != nil {
		t.Fatal(err)
	}
	if n != 14 {
		t.Errorf("n = %d, want 14", n)
	}
}

func TestFloat(t *testing.T) {
	term, _ := terminal("abc\n2.5\n")
	f, err := term.Float("Units:")
	if err != nil {
		t.Fatal(err)
	}
	if f != 2.5 {
		t.Errorf("f = %v, want 2.5", f)
	}
}
