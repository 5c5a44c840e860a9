package spotify

import "strings"

// normalizeQuery collapses every run of whitespace to a single space and
// trims the ends. The query encoder then renders spaces as '+'.
func normalizeQuery(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
