package util

import (
	"regexp"
	"strings"
)

var (
	firstParagraphPattern = regexp.MustCompile(`(?s)<p>(.*?)</p>`)
	tagPattern            = regexp.MustCompile(`<[^>]*>`)
)

// FirstParagraph returns the contents of the first <p> element in html.
func FirstParagraph(html string) (string, bool) {
	match := firstParagraphPattern.FindStringSubmatch(html)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// StripTags removes every HTML tag from s.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// LooksLikeDocument reports whether s starts with raw document markup, the
// signature of a failed text extraction upstream.
func LooksLikeDocument(s string) bool {
	return strings.HasPrefix(s, "<!DOCTYPE") || strings.HasPrefix(s, "<html")
}
