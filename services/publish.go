package services

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/learnedge/learnedge/models"
	"github.com/learnedge/learnedge/storage"
)

// PublishResult is what the save endpoint reports back: where the authored
// lesson ended up and where the author should be redirected.
type PublishResult struct {
	Lesson   models.Lesson `json:"lesson"`
	Redirect string        `json:"redirect"`
}

// PersistLesson stores one authored lesson: it creates the lesson at the end
// of the course, writes the pending uploads under the lesson's upload
// directory, rewrites the markup's upload references to their public paths,
// strips any leftover preview references, sanitizes the result and saves it.
// The whole save is one unit; on failure the caller retries in full.
func PersistLesson(db *storage.DB, uploadsRoot string, courseID int64, title, contentHTML string, images, audio []PendingFile) (PublishResult, error) {
	if title == "" {
		return PublishResult{}, fmt.Errorf("lesson title is required")
	}

	course, err := db.GetCourse(courseID)
	if err != nil {
		return PublishResult{}, err
	}

	lesson, err := db.CreateLesson(course.ID, title, GenerateSlug(title))
	if err != nil {
		return PublishResult{}, err
	}

	lessonDir := filepath.Join(uploadsRoot, "courses", course.Slug, strconv.FormatInt(lesson.ID, 10))
	if err := SaveUploads(images, lessonDir); err != nil {
		return PublishResult{}, err
	}
	if err := SaveUploads(audio, lessonDir); err != nil {
		return PublishResult{}, err
	}

	basePath := "/uploads/courses/" + course.Slug + "/" + strconv.FormatInt(lesson.ID, 10) + "/"
	names := make([]string, 0, len(images)+len(audio))
	for _, f := range images {
		names = append(names, f.Name)
	}
	for _, f := range audio {
		names = append(names, f.Name)
	}
	// Rewrite before sanitizing: the sanitizer entity-escapes attribute
	// values, which would stop upload names containing & from matching.
	contentHTML = RewriteUploadPaths(contentHTML, basePath, names)
	contentHTML = StripBlobSources(contentHTML)
	contentHTML, err = SanitizeLessonHTML(contentHTML)
	if err != nil {
		return PublishResult{}, err
	}

	if err := db.UpdateLessonContent(lesson.ID, contentHTML); err != nil {
		return PublishResult{}, err
	}
	lesson.Content = contentHTML

	return PublishResult{Lesson: lesson, Redirect: "/course/" + course.Slug}, nil
}
