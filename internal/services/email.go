package services

import "regexp"

// Email extraction is a deterministic pattern match; when a resume lists
// several addresses the first one in document order wins.
var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// ExtractEmail returns the first email-like substring of text, or "" when
// none is present.
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}
