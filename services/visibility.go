package services

import (
	"regexp"
	"strings"

	"github.com/learnedge/learnedge/models"
)

var learningTagPattern = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9]*)((?:[^>"]|"[^"]*")*?\sdata-learning="([^"]*)"(?:[^>"]|"[^"]*")*)>`)

// ApplyLearningStyle hides every element whose learning filter excludes the
// given viewer style. Hiding is a pure display toggle: hidden elements stay in
// the markup, so the output parses to the same document with some elements
// carrying display:none. Filters containing 0 are visible to everyone.
func ApplyLearningStyle(html string, viewerStyle int) string {
	return learningTagPattern.ReplaceAllStringFunc(html, func(tag string) string {
		m := learningTagPattern.FindStringSubmatch(tag)
		if m == nil {
			return tag
		}
		filter := models.ParseLearningFilter(m[3])
		if filter.VisibleTo(viewerStyle) {
			return tag
		}
		return "<" + m[1] + m[2] + ` style="display:none">`
	})
}

// VisibleBlockCount reports how many learning-tagged elements in the markup a
// viewer with the given style would see. Used by the lesson page to decide
// whether a style-filtered lesson has anything left to show.
func VisibleBlockCount(html string, viewerStyle int) int {
	count := 0
	for _, m := range learningTagPattern.FindAllStringSubmatch(html, -1) {
		if models.ParseLearningFilter(m[3]).VisibleTo(viewerStyle) {
			count++
		}
	}
	return count
}

// StripDisplayToggles reverses ApplyLearningStyle, restoring every hidden
// element. Hiding must stay reversible without re-fetching the lesson.
func StripDisplayToggles(html string) string {
	return strings.ReplaceAll(html, ` style="display:none"`, "")
}
