package config

import (
	"regexp"
	"strings"
)

// MaxApplicationNameLength is the longest application name Fakturoid accepts.
const MaxApplicationNameLength = 40

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9]+(?:\.[A-Za-z0-9]+)*@[^@\s]+\.[^@\s]+$`)
	wordSplit    = regexp.MustCompile(`[^a-zA-Z0-9]+`)
)

// ValidEmail reports whether s looks like a deliverable email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPort reports whether p is a usable TCP port number.
func ValidPort(p int) bool {
	return p >= 1 && p <= 65535
}

// ToCamelCase collapses an arbitrary phrase into a CamelCase identifier,
// the form Fakturoid expects for application names.
func ToCamelCase(text string) string {
	parts := wordSplit.Split(strings.TrimSpace(text), -1)
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(strings.ToLower(part[1:]))
	}
	return b.String()
}
