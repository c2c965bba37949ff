package model

import "strings"

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// SanitizeText strips angle brackets and surrounding whitespace.
func SanitizeText(s string) string {
	return strings.TrimSpace(angleBrackets.Replace(s))
}
