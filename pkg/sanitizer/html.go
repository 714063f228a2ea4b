package sanitizer

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once

	// Block-level closers that read as a line break once tags are gone.
	blockBreak = regexp.MustCompile(`(?i)<\s*(br\s*/?|/p|/div|/li|/tr|/h[1-6])\s*>`)
	blankRun   = regexp.MustCompile(`[ \t]+`)
	lineRun    = regexp.MustCompile(`\n{3,}`)
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
}

// PlainText renders an HTML body as readable plain text.
// All markup, scripts and styles are removed, entities are decoded and
// whitespace is collapsed. Block-level breaks become newlines.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	initPolicies()

	s = blockBreak.ReplaceAllString(s, "\n")
	s = html.UnescapeString(strictPolicy.Sanitize(s))

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(blankRun.ReplaceAllString(l, " "))
	}
	s = strings.Join(lines, "\n")
	s = lineRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// SanitizeHTMLCustom applies a custom bluemonday policy.
// Returns input unchanged if policy is nil.
func SanitizeHTMLCustom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
