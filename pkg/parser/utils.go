package parser

import (
	"regexp"
	"strings"
)

var spacesRe = regexp.MustCompile(`\s+`)

// collapseSpaces turns every whitespace run into a single space and trims.
func collapseSpaces(s string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

// removeFirst deletes the first literal occurrence of sub from s.
func removeFirst(s, sub string) string {
	if sub == "" {
		return s
	}
	return strings.Replace(s, sub, "", 1)
}
