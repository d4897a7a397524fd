package yomi

import (
	"regexp"
	"strings"
)

var (
	// innerTemplateRe matches a {{...}} block with no nested braces. Repeated
	// application peels nested templates from the inside out; the negated class
	// also spans newlines, so multi-line templates are removed as well.
	innerTemplateRe = regexp.MustCompile(`\{\{[^{}]*\}\}`)

	// paramLineRe matches a template parameter line ("|key=value").
	paramLineRe = regexp.MustCompile(`(?m)^\|.*(?:\n|$)`)

	spaceRemover = strings.NewReplacer(" ", "", "　", "")
	parenWidener = strings.NewReplacer("(", "（", ")", "）")
)

// maxPeelPasses bounds template nesting depth handled by stripTemplates.
const maxPeelPasses = 8

// RemoveSpaces drops half-width and full-width spaces from s.
func RemoveSpaces(s string) string {
	return spaceRemover.Replace(s)
}

// ReduceBody prepares an article body for the parenthesis gloss strategy:
// spaces are removed, half-width parentheses become full-width, {{...}}
// templates are stripped and lines starting with "|" are dropped.
func ReduceBody(body string) string {
	body = RemoveSpaces(body)
	body = parenWidener.Replace(body)
	body = stripTemplates(body)
	return paramLineRe.ReplaceAllString(body, "")
}

func stripTemplates(s string) string {
	for range maxPeelPasses {
		next := innerTemplateRe.ReplaceAllString(s, "")
		if next == s {
			break
		}
		s = next
	}
	return s
}
