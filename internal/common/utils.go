package common

import "strings"

// Fold normalizes a lookup key: lower-cased, trimmed, inner whitespace collapsed to one space.
func Fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
