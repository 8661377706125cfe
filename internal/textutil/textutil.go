// Package textutil holds the string normalization shared by matching,
// deduplication and sorting, so all three agree on what "equal" means.
package textutil

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Normalize collapses every run of whitespace to a single space, trims the
// ends and lower-cases the result.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// HTMLToText converts an HTML or HTML-encoded fragment to plain text with
// collapsed whitespace. Entities are unescaped first because some boards
// double-encode their markup.
func HTMLToText(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	unescaped := html.UnescapeString(content)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(unescaped))
	if err != nil {
		return strings.Join(strings.Fields(unescaped), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
