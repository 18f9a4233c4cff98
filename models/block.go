package models

// BlockKind tags one unit of lesson content. The set of kinds is closed: the
// renderer has exactly one template per kind and rejects anything else.
type BlockKind string

const (
	KindHeader     BlockKind = "header"
	KindText       BlockKind = "text"
	KindImage      BlockKind = "image"
	KindVideo      BlockKind = "video"
	KindCode       BlockKind = "code"
	KindQuiz       BlockKind = "quiz"
	KindQuizChoice BlockKind = "quiz-choice"
	KindPractice   BlockKind = "practice"
	KindNote       BlockKind = "note"
	KindTip        BlockKind = "tip"
	KindIdea       BlockKind = "idea"
	KindWarning    BlockKind = "warning"
	KindFact       BlockKind = "fact"
	KindAudio      BlockKind = "audio"
)

// Block is one unit of lesson content. Every block carries a unique ID and a
// learning-style filter controlling which viewer cohorts see it. Blocks are
// append-only: the authoring surface has no edit or delete operation.
type Block interface {
	Kind() BlockKind
	Meta() *BlockMeta
}

// BlockMeta holds the fields common to every block kind.
type BlockMeta struct {
	ID       string
	Learning LearningFilter
}

func (m *BlockMeta) Meta() *BlockMeta { return m }

// HeaderBlock is a section heading.
type HeaderBlock struct {
	BlockMeta
	Content string
}

func (*HeaderBlock) Kind() BlockKind { return KindHeader }

// TextBlock is a free-text paragraph.
type TextBlock struct {
	BlockMeta
	Content string
}

func (*TextBlock) Kind() BlockKind { return KindText }

// ImageBlock references an uploaded image. Until the lesson is saved, Src is a
// temporary preview reference and PendingIndex points into the authoring
// session's pending image list.
type ImageBlock struct {
	BlockMeta
	Src          string
	Alt          string
	PendingIndex int
}

func (*ImageBlock) Kind() BlockKind { return KindImage }

// VideoBlock embeds a shared video by its embeddable URL.
type VideoBlock struct {
	BlockMeta
	Src   string
	Title string
}

func (*VideoBlock) Kind() BlockKind { return KindVideo }

// CodeBlock is a read-only, language-tagged code sample.
type CodeBlock struct {
	BlockMeta
	Title    string
	Language string
	Code     string
}

func (*CodeBlock) Kind() BlockKind { return KindCode }

// QuizBlock is a free-text question checked by case-insensitive exact match.
type QuizBlock struct {
	BlockMeta
	Question string
	Answer   string
}

func (*QuizBlock) Kind() BlockKind { return KindQuiz }

// QuizChoiceBlock is a multiple-choice question. CorrectIndex is zero-based
// into Options.
type QuizChoiceBlock struct {
	BlockMeta
	Question     string
	Options      []string
	CorrectIndex int
}

func (*QuizChoiceBlock) Kind() BlockKind { return KindQuizChoice }

// PracticeBlock is a code template with a single fill-in-the-blank marker.
type PracticeBlock struct {
	BlockMeta
	Title    string
	Language string
	Code     string
	Answer   string
}

func (*PracticeBlock) Kind() BlockKind { return KindPractice }

// CalloutBlock covers the five short annotation kinds (note, tip, idea,
// warning, fact). Each keeps its own kind tag and its own render template.
type CalloutBlock struct {
	BlockMeta
	CalloutKind BlockKind
	Content     string
}

func (b *CalloutBlock) Kind() BlockKind { return b.CalloutKind }

// IsCalloutKind reports whether k is one of the callout kinds.
func IsCalloutKind(k BlockKind) bool {
	switch k {
	case KindNote, KindTip, KindIdea, KindWarning, KindFact:
		return true
	}
	return false
}

// AudioBlock references an uploaded MP3. Src and PendingIndex behave as for
// ImageBlock.
type AudioBlock struct {
	BlockMeta
	Src          string
	PendingIndex int
}

func (*AudioBlock) Kind() BlockKind { return KindAudio }
