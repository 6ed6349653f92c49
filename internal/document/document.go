// Package document holds the glue around HTML content: validity heuristics
// for inline markup, file-path checks, and the test-page skeleton the
// browser backend navigates to.
package document

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// ErrInvalidHTML reports inline content that does not look like HTML.
var ErrInvalidHTML = errors.New("invalid HTML content")

var (
	reAnyTag    = regexp.MustCompile(`<[^>]+>`)
	reDoctype   = regexp.MustCompile(`(?i)<!DOCTYPE\s+html`)
	reHTMLTag   = regexp.MustCompile(`(?i)<html[\s>]`)
	reBodyTag   = regexp.MustCompile(`(?i)<body[\s>]`)
	reBasicTags = regexp.MustCompile(`(?i)<(?:div|p|h\d|section|article)[\s>]`)
	reOpenTag   = regexp.MustCompile(`<[^\s/]`)
	reCloseTag  = regexp.MustCompile(`</|/>`)
	reMalformed = regexp.MustCompile(`<\w+[^>]*<\w+`)
)

// IsValidFilePath reports whether path names an existing regular file.
func IsValidFilePath(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ReadFile loads a document from disk.
func ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading document %s: %w", path, err)
	}
	return string(raw), nil
}

// IsValidHTML reports whether content appears to be HTML. Well-formed markup
// is accepted by a strict parse; everything else falls through to pattern
// heuristics: the content must show some HTML structure (doctype, html/body
// tag, or common block tags), have balanced tag brackets, and contain no tag
// opened inside another tag.
func IsValidHTML(content string) bool {
	content = strings.TrimSpace(content)
	if content == "" {
		return false
	}
	if !reAnyTag.MatchString(content) {
		// Bare text without any tags.
		return false
	}

	if parsesAsStrictMarkup(content) {
		return true
	}

	if !reDoctype.MatchString(content) && !reHTMLTag.MatchString(content) &&
		!reBodyTag.MatchString(content) && !reBasicTags.MatchString(content) {
		return false
	}

	opens := len(reOpenTag.FindAllString(content, -1))
	closes := len(reCloseTag.FindAllString(content, -1))
	if opens != closes {
		return false
	}

	return !reMalformed.MatchString(content)
}

// parsesAsStrictMarkup is the strict first pass. x/net/html recovers from
// anything, so strictness comes from the XML decoder with HTML entities and
// void elements allowed.
func parsesAsStrictMarkup(content string) bool {
	dec := xml.NewDecoder(strings.NewReader(content))
	dec.Strict = true
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	for {
		if _, err := dec.Token(); err != nil {
			return errors.Is(err, io.EOF)
		}
	}
}

// WrapPage embeds an HTML fragment in the test-page skeleton handed to
// query backends.
func WrapPage(fragment string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
	<head>
		<meta charset="utf-8">
		<title>Test Page</title>
	</head>
	<body>
		%s
	</body>
</html>
`, strings.TrimSpace(fragment))
}
