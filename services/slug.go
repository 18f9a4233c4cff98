package services

import (
	"regexp"
	"strings"
)

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugDashRuns = regexp.MustCompile(`-{2,}`)
)

var slugFold = strings.NewReplacer(
	"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n",
	"ó", "o", "ś", "s", "ź", "z", "ż", "z",
)

// GenerateSlug turns a lesson or course title into a URL slug: diacritics are
// folded, anything outside [a-z0-9 -] dropped, whitespace becomes dashes and
// dash runs collapse.
func GenerateSlug(title string) string {
	s := slugFold.Replace(strings.ToLower(title))
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(strings.TrimSpace(s), "-")
	return slugDashRuns.ReplaceAllString(s, "-")
}
