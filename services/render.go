package services

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/learnedge/learnedge/models"
)

// PracticeMarker is the single fill-in-the-blank marker authors put in a
// practice block's code template.
const PracticeMarker = "[___]"

// RenderBlocks converts an ordered block sequence into one HTML fragment.
// The function is pure: the same sequence always yields byte-identical output,
// and each block maps to exactly one fragment tagged with its learning filter.
// All authored text is HTML-escaped before interpolation. A block kind without
// a template is an error, never a silent drop.
func RenderBlocks(blocks []models.Block) (string, error) {
	fragments := make([]string, 0, len(blocks))
	for _, b := range blocks {
		frag, err := RenderBlock(b)
		if err != nil {
			return "", err
		}
		fragments = append(fragments, frag)
	}
	return strings.Join(fragments, "\n"), nil
}

// RenderBlock renders a single block to its markup fragment.
func RenderBlock(b models.Block) (string, error) {
	attr := fmt.Sprintf(`data-learning="%s"`, esc(b.Meta().Learning.String()))

	switch v := b.(type) {
	case *models.HeaderBlock:
		return fmt.Sprintf(
			`<div %s><h3 class="course-section-title">%s</h3></div>`,
			attr, esc(v.Content)), nil

	case *models.TextBlock:
		return fmt.Sprintf(
			`<div class="course-text-content" %s><p>%s</p></div>`,
			attr, esc(v.Content)), nil

	case *models.ImageBlock:
		return fmt.Sprintf(
			`<div class="course-image-container" %s><img src="%s" alt="%s" class="course-image"/></div>`,
			attr, esc(v.Src), esc(v.Alt)), nil

	case *models.VideoBlock:
		return fmt.Sprintf(
			`<div class="course-video-container" %s><iframe src="%s" title="%s" allowfullscreen></iframe></div>`,
			attr, esc(v.Src), esc(v.Title)), nil

	case *models.CodeBlock:
		return fmt.Sprintf(
			`<div class="course-code-block" %s>`+
				`<div class="course-code-header"><span><i class="bi bi-code-slash"></i>%s</span>`+
				`<button class="course-copy-btn"><i class="bi bi-clipboard"></i> Copy</button></div>`+
				`<pre><code class="language-%s">%s</code></pre></div>`,
			attr, esc(v.Title), esc(v.Language), esc(v.Code)), nil

	case *models.QuizBlock:
		return fmt.Sprintf(
			`<div class="course-quiz-block" %s>`+
				`<h4 class="course-quiz-question"><i class="bi bi-pencil-square"></i>%s</h4>`+
				`<div class="course-quiz-input">`+
				`<input type="text" class="course-answer-input" placeholder="Type your answer..." data-answer="%s"/>`+
				`<button class="check-answer-btn">Check</button></div>`+
				`<div class="course-quiz-feedback"></div></div>`,
			attr, esc(v.Question), esc(v.Answer)), nil

	case *models.QuizChoiceBlock:
		var options strings.Builder
		for i, opt := range v.Options {
			fmt.Fprintf(&options,
				`<button class="course-quiz-option" data-correct="%t">%s</button>`,
				i == v.CorrectIndex, esc(opt))
		}
		return fmt.Sprintf(
			`<div class="course-quiz-block" %s>`+
				`<h4 class="course-quiz-question"><i class="bi bi-question-circle"></i>%s</h4>`+
				`<div class="course-quiz-options">%s</div>`+
				`<div class="course-quiz-feedback"></div></div>`,
			attr, esc(v.Question), options.String()), nil

	case *models.PracticeBlock:
		input := fmt.Sprintf(
			`<input type="text" class="practice-input" placeholder="..." data-answer="%s"/>`,
			esc(v.Answer))
		code := strings.Replace(esc(v.Code), PracticeMarker, input, 1)
		return fmt.Sprintf(
			`<div class="course-practice-block" %s>`+
				`<h4 class="course-section-title"><i class="bi bi-terminal"></i>%s</h4>`+
				`<pre><code class="language-%s">%s</code></pre>`+
				`<button class="check-practice-btn">Check</button>`+
				`<div class="course-quiz-feedback"></div></div>`,
			attr, esc(v.Title), esc(v.Language), code), nil

	case *models.CalloutBlock:
		tpl, ok := calloutTemplates[v.CalloutKind]
		if !ok {
			return "", fmt.Errorf("render: unknown callout kind %q", v.CalloutKind)
		}
		return fmt.Sprintf(
			`<div class="%s" %s><i class="bi %s"></i><strong>%s</strong> %s</div>`,
			tpl.class, attr, tpl.icon, tpl.label, esc(v.Content)), nil

	case *models.AudioBlock:
		return fmt.Sprintf(
			`<div class="course-audio-container" %s>`+
				`<audio controls><source src="%s" type="audio/mpeg"/>`+
				`Your browser does not support the audio element.</audio></div>`,
			attr, esc(v.Src)), nil

	default:
		return "", fmt.Errorf("render: no template for block kind %q", b.Kind())
	}
}

type calloutTemplate struct {
	class string
	icon  string
	label string
}

var calloutTemplates = map[models.BlockKind]calloutTemplate{
	models.KindNote:    {"course-note", "bi-journal-text", "Note:"},
	models.KindTip:     {"course-tip", "bi-lightbulb", "Tip:"},
	models.KindIdea:    {"course-idea", "bi-lightbulb", "Idea:"},
	models.KindWarning: {"course-warning", "bi-exclamation-triangle", "Warning:"},
	models.KindFact:    {"course-fact", "bi-info-circle", "Fun fact:"},
}

// esc escapes &, <, >, " and ' so authored content can never inject markup.
func esc(s string) string {
	return template.HTMLEscapeString(s)
}

// ResolveBlobReferences rewrites the rendered markup so it no longer points at
// temporary preview references: every image/audio block whose Src is still a
// preview reference has that reference replaced with the final unique name of
// its pending file. Persisted markup must never reference ephemeral previews.
func ResolveBlobReferences(html string, blocks []models.Block, images, audio []PendingFile) string {
	for _, b := range blocks {
		switch v := b.(type) {
		case *models.ImageBlock:
			if isPreviewRef(v.Src) && v.PendingIndex >= 0 && v.PendingIndex < len(images) {
				html = strings.ReplaceAll(html, esc(v.Src), esc(images[v.PendingIndex].Name))
			}
		case *models.AudioBlock:
			if isPreviewRef(v.Src) && v.PendingIndex >= 0 && v.PendingIndex < len(audio) {
				html = strings.ReplaceAll(html, esc(v.Src), esc(audio[v.PendingIndex].Name))
			}
		}
	}
	return html
}

func isPreviewRef(src string) bool {
	return strings.HasPrefix(src, "blob:")
}
