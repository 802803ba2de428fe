package analyzer

import "strings"

// CleanText collapses every run of whitespace to a single space and trims
// the ends. Idempotent: CleanText(CleanText(s)) == CleanText(s).
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
