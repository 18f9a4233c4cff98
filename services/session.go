package services

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/learnedge/learnedge/models"
)

// PendingFile is a binary attachment selected during authoring, held in memory
// until the lesson save uploads it. Name is already the globally unique name
// the file will be stored under.
type PendingFile struct {
	Name string
	Data []byte
}

var (
	imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	audioExtensions = map[string]bool{".mp3": true}
)

// AuthoringSession owns the ordered block sequence of one lesson being
// authored, plus the pending image and audio attachments. All mutation goes
// through the Add methods; a validation failure leaves the session untouched.
type AuthoringSession struct {
	blocks        []models.Block
	pendingImages []PendingFile
	pendingAudio  []PendingFile
}

func NewAuthoringSession() *AuthoringSession {
	return &AuthoringSession{}
}

// Blocks returns the block sequence in insertion order, which is the lesson's
// reading order.
func (s *AuthoringSession) Blocks() []models.Block { return s.blocks }

func (s *AuthoringSession) Len() int { return len(s.blocks) }

func (s *AuthoringSession) PendingImages() []PendingFile { return s.pendingImages }

func (s *AuthoringSession) PendingAudio() []PendingFile { return s.pendingAudio }

func newMeta(filter models.LearningFilter) models.BlockMeta {
	if len(filter) == 0 {
		filter = models.LearningFilter{models.StyleEveryone}
	}
	return models.BlockMeta{ID: uuid.NewString(), Learning: filter}
}

// AddHeader appends a section heading.
func (s *AuthoringSession) AddHeader(content string, filter models.LearningFilter) (models.Block, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("header text is required")
	}
	b := &models.HeaderBlock{BlockMeta: newMeta(filter), Content: content}
	s.blocks = append(s.blocks, b)
	return b, nil
}

// AddText appends a free-text paragraph.
func (s *AuthoringSession) AddText(content string, filter models.LearningFilter) (models.Block, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("lesson text is required")
	}
	b := &models.TextBlock{BlockMeta: newMeta(filter), Content: content}
	s.blocks = append(s.blocks, b)
	return b, nil
}

// AddCallout appends one of the note/tip/idea/warning/fact annotations.
func (s *AuthoringSession) AddCallout(kind models.BlockKind, content string, filter models.LearningFilter) (models.Block, error) {
	if !models.IsCalloutKind(kind) {
		return nil, fmt.Errorf("%q is not a callout kind", kind)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%s text is required", kind)
	}
	b := &models.CalloutBlock{BlockMeta: newMeta(filter), CalloutKind: kind, Content: content}
	s.blocks = append(s.blocks, b)
	return b, nil
}

// AddImage validates the selected file by extension, renames it to a globally
// unique name and appends an image block pointing at a temporary preview
// reference until the save resolves it.
func (s *AuthoringSession) AddImage(filename string, data []byte, filter models.LearningFilter) (models.Block, error) {
	if filename == "" || len(data) == 0 {
		return nil, fmt.Errorf("select a JPG or PNG file")
	}
	ext := strings.ToLower(path.Ext(filename))
	if !imageExtensions[ext] {
		return nil, fmt.Errorf("only JPG and PNG files are allowed")
	}

	uniqueName := uuid.NewString() + "-" + path.Base(filename)
	alt := strings.TrimSuffix(path.Base(filename), ext)

	b := &models.ImageBlock{
		BlockMeta:    newMeta(filter),
		Src:          "blob:" + uuid.NewString(),
		Alt:          alt,
		PendingIndex: len(s.pendingImages),
	}
	s.pendingImages = append(s.pendingImages, PendingFile{Name: uniqueName, Data: data})
	s.blocks = append(s.blocks, b)
	return b, nil
}

// AddAudio is the MP3 counterpart of AddImage.
func (s *AuthoringSession) AddAudio(filename string, data []byte, filter models.LearningFilter) (models.Block, error) {
	if filename == "" || len(data) == 0 {
		return nil, fmt.Errorf("select an MP3 file")
	}
	ext := strings.ToLower(path.Ext(filename))
	if !audioExtensions[ext] {
		return nil, fmt.Errorf("only MP3 files are allowed")
	}

	uniqueName := uuid.NewString() + "-" + path.Base(filename)

	b := &models.AudioBlock{
		BlockMeta:    newMeta(filter),
		Src:          "blob:" + uuid.NewString(),
		PendingIndex: len(s.pendingAudio),
	}
	s.pendingAudio = append(s.pendingAudio, PendingFile{Name: uniqueName, Data: data})
	s.blocks = append(s.blocks, b)
	return b, nil
}

// AddVideo appends an embedded video. The share link of the form
// ".../watch?v=ID" is converted to its embeddable counterpart.
func (s *AuthoringSession) AddVideo(link, title string, filter models.LearningFilter) (models.Block, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, fmt.Errorf("video link is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Sample video"
	}
	b := &models.VideoBlock{
		BlockMeta: newMeta(filter),
		Src:       strings.Replace(link, "watch?v=", "embed/", 1),
		Title:     title,
	}
	s.blocks = append(s.blocks, b)
	return b, nil
}

// AddCode appends a code sample.
func (s *AuthoringSession) AddCode(title, language, code string, filter models.LearningFilter) (models.Block, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("code is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Code example"
	}
	if language == "" {
		language = "text"
	}
	b := &models.CodeBlock{BlockMeta: newMeta(filter), Title: title, Language: language, Code: code}
	s.blocks = append(s.blocks, b)
	return b, nil
}

// AddQuiz appends a free-text question. The answer is compared
// case-insensitively at check time.
func (s *AuthoringSession) AddQuiz(question, answer string, filter models.LearningFilter) (models.Block, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return nil, fmt.Errorf("question and correct answer are required")
	}
	b := &models.QuizBlock{BlockMeta: newMeta(filter), Question: question, Answer: answer}
	s.blocks = append(s.blocks, b)
	return b, nil
}

// AddQuizChoice appends a multiple-choice question. Blank options are dropped
// before validation; at least two options must remain and correctIndex is
// zero-based into the remaining options.
func (s *AuthoringSession) AddQuizChoice(question string, options []string, correctIndex int, filter models.LearningFilter) (models.Block, error) {
	question = strings.TrimSpace(question)
	kept := make([]string, 0, len(options))
	for _, opt := range options {
		if opt = strings.TrimSpace(opt); opt != "" {
			kept = append(kept, opt)
		}
	}
	if question == "" || len(kept) < 2 {
		return nil, fmt.Errorf("a question and at least two answers are required")
	}
	if correctIndex < 0 || correctIndex >= len(kept) {
		return nil, fmt.Errorf("the correct answer number must be between 1 and %d", len(kept))
	}
	b := &models.QuizChoiceBlock{
		BlockMeta:    newMeta(filter),
		Question:     question,
		Options:      kept,
		CorrectIndex: correctIndex,
	}
	s.blocks = append(s.blocks, b)
	return b, nil
}

// AddPractice appends a fill-in-the-blank exercise.
func (s *AuthoringSession) AddPractice(title, language, code, answer string, filter models.LearningFilter) (models.Block, error) {
	code = strings.TrimSpace(code)
	answer = strings.TrimSpace(answer)
	if code == "" || answer == "" {
		return nil, fmt.Errorf("code with a %s marker and a correct answer are required", PracticeMarker)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Practice exercise"
	}
	if language == "" {
		language = "text"
	}
	b := &models.PracticeBlock{BlockMeta: newMeta(filter), Title: title, Language: language, Code: code, Answer: answer}
	s.blocks = append(s.blocks, b)
	return b, nil
}

// Render produces the preview markup for the current sequence.
func (s *AuthoringSession) Render() (string, error) {
	return RenderBlocks(s.blocks)
}

// FinalizeHTML renders the sequence and resolves all temporary preview
// references to the final unique file names, ready for persistence.
func (s *AuthoringSession) FinalizeHTML() (string, error) {
	html, err := RenderBlocks(s.blocks)
	if err != nil {
		return "", err
	}
	return ResolveBlobReferences(html, s.blocks, s.pendingImages, s.pendingAudio), nil
}
