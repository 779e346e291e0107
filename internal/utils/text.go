package utils

import (
	"regexp"
	"strings"
)

var (
	fenceOpenPattern  = regexp.MustCompile("^```[a-zA-Z]*\\s*\n?")
	fenceClosePattern = regexp.MustCompile("\n?```$")
)

// StripCodeFences removes a wrapping markdown code block (```latex, ```json,
// or bare ```) from model output and trims surrounding whitespace.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = fenceOpenPattern.ReplaceAllString(text, "")
	text = fenceClosePattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
