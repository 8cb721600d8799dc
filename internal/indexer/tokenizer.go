package indexer

import (
	"strings"
	"unicode"
)

// nameDelimiters separate the parts of a vRA resource name such as
// "dev-web01.corp.local" or "Windows 2016 (Prod)".
const nameDelimiters = ".-_:/@#,()[]{}"

// Tokenize splits a resource name into lowercased search tokens.
//
// A part mixing letters and digits ("web01") is indexed whole and also as its
// letter and digit runs ("web", "01"), so a query for the role prefix finds
// every numbered machine. Single letters are dropped; numbers of any length
// are kept since machine sequence numbers are often one digit.
func Tokenize(s string) []string {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return strings.ContainsRune(nameDelimiters, r) || unicode.IsSpace(r)
	})

	seen := make(map[string]bool, len(parts))
	result := make([]string, 0, len(parts))
	add := func(t string) {
		if seen[t] || (len(t) < 2 && !isDigits(t)) {
			return
		}
		seen[t] = true
		result = append(result, t)
	}

	for _, p := range parts {
		add(p)
		if runs := alnumRuns(p); len(runs) > 1 {
			for _, run := range runs {
				add(run)
			}
		}
	}
	return result
}

// alnumRuns splits s where it switches between digits and non-digits.
func alnumRuns(s string) []string {
	var runs []string
	start, digit := 0, false
	for i, r := range s {
		d := unicode.IsDigit(r)
		if i > start && d != digit {
			runs = append(runs, s[start:i])
			start = i
		}
		digit = d
	}
	return append(runs, s[start:])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
