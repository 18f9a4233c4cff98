package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// lessonPolicy admits exactly the markup the block renderer produces: the
// structural containers, the media elements and the data attributes the
// interaction and visibility layers key off. Anything else submitted through
// the save endpoint is stripped.
var lessonPolicy = buildLessonPolicy()

func buildLessonPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements("div", "p", "h3", "h4", "h5", "span", "strong", "em", "i", "br")
	p.AllowElements("pre", "code", "button", "input", "img", "iframe", "audio", "source")

	p.AllowAttrs("class", "data-learning").Globally()
	// The visibility filter toggles display only; no other inline style survives.
	p.AllowAttrs("style").Matching(regexp.MustCompile(`^display:\s*none;?$`)).Globally()
	p.AllowAttrs("data-answer", "data-correct", "type", "placeholder").OnElements("input", "button")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("src", "title", "allowfullscreen").OnElements("iframe")
	p.AllowAttrs("controls").OnElements("audio")
	p.AllowAttrs("src", "type").OnElements("source")

	return p
}

// SanitizeLessonHTML cleans authored lesson markup before it is persisted.
// Escaped text content passes through unchanged; an input that sanitizes down
// to nothing is rejected.
func SanitizeLessonHTML(input string) (string, error) {
	sanitized := lessonPolicy.Sanitize(input)
	if strings.TrimSpace(sanitized) == "" {
		return "", fmt.Errorf("lesson content is empty or unsafe")
	}
	return sanitized, nil
}
