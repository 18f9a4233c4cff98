package handlers

import (
	"errors"
	"html/template"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/learnedge/learnedge/models"
	"github.com/learnedge/learnedge/services"
	"github.com/learnedge/learnedge/storage"
)

// CoursePage lists a course's lessons in reading order. The save flow
// redirects here after publishing a lesson.
func (a *App) CoursePage(w http.ResponseWriter, r *http.Request) {
	course, err := a.DB.GetCourseBySlug(r.PathValue("courseSlug"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Println("Course lookup failed:", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	lessons, err := a.DB.ListLessons(course.ID)
	if err != nil {
		log.Println("Lesson list failed:", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	tmpl, err := template.ParseFiles(filepath.Join(a.TemplateDir, "course.html"))
	if err != nil {
		log.Println("Template parse error:", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	tmpl.Execute(w, struct {
		Course  models.Course
		Lessons []models.Lesson
	}{
		Course:  course,
		Lessons: lessons,
	})
}

// LessonPage serves a lesson with the viewer's learning-style filter applied.
// Blocks outside the viewer's style stay in the markup, display-toggled off.
func (a *App) LessonPage(w http.ResponseWriter, r *http.Request) {
	style := viewerLearningStyle(r)
	if style == 0 {
		// A viewer without a determined learning style takes the survey first.
		http.Redirect(w, r, "/survey", http.StatusSeeOther)
		return
	}

	lesson, err := a.DB.GetLessonBySlug(r.PathValue("lessonSlug"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Println("Lesson lookup failed:", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	completed := false
	if userID, err := viewerUserID(r); err == nil {
		completed, _ = a.DB.IsLessonCompleted(lesson.ID, userID)
	}

	tmpl, err := template.ParseFiles(filepath.Join(a.TemplateDir, "lesson.html"))
	if err != nil {
		log.Println("Template parse error:", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	tmpl.Execute(w, struct {
		Title      string
		LessonID   int64
		Content    template.HTML
		Completed  bool
		HasVisible bool
	}{
		Title:      lesson.Title,
		LessonID:   lesson.ID,
		Content:    template.HTML(services.ApplyLearningStyle(lesson.Content, style)),
		Completed:  completed,
		HasVisible: services.VisibleBlockCount(lesson.Content, style) > 0,
	})
}

// CreatorPage serves the lesson authoring tool for one course.
func (a *App) CreatorPage(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.ParseInt(r.PathValue("courseID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid course id", http.StatusBadRequest)
		return
	}

	tmpl, err := template.ParseFiles(filepath.Join(a.TemplateDir, "create-lesson.html"))
	if err != nil {
		log.Println("Template parse error:", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	tmpl.Execute(w, struct {
		CourseID   int64
		CourseSlug string
	}{
		CourseID:   courseID,
		CourseSlug: r.PathValue("courseSlug"),
	})
}

// SaveLessonHandler persists an authored lesson submitted as one multipart
// request: courseId, title, contentHtml, plus repeated images/imageNames and
// audio/audioNames pairs. The save is all-or-nothing; a failed save is
// retried in full by the author.
func (a *App) SaveLessonHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Invalid multipart request", http.StatusBadRequest)
		return
	}

	courseID, err := strconv.ParseInt(r.FormValue("courseId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid course id", http.StatusBadRequest)
		return
	}
	title := r.FormValue("title")
	contentHTML := r.FormValue("contentHtml")

	images, err := collectUploads(r.MultipartForm.File["images"], r.MultipartForm.Value["imageNames"], services.ValidImageName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	audio, err := collectUploads(r.MultipartForm.File["audio"], r.MultipartForm.Value["audioNames"], services.ValidAudioName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := services.PersistLesson(a.DB, a.UploadsRoot, courseID, title, contentHTML, images, audio)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Course not found", http.StatusNotFound)
			return
		}
		log.Println("Lesson save failed:", err)
		http.Error(w, "Failed to save lesson", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// CompleteLessonHandler marks a lesson complete for the current user. Marking
// an already completed lesson succeeds without changing anything, so a
// retried request is harmless.
func (a *App) CompleteLessonHandler(w http.ResponseWriter, r *http.Request) {
	lessonID, err := strconv.ParseInt(r.PathValue("lessonID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid lesson id", http.StatusBadRequest)
		return
	}
	userID, err := viewerUserID(r)
	if err != nil {
		http.Error(w, "Not logged in", http.StatusUnauthorized)
		return
	}

	if err := a.DB.MarkLessonCompleted(lessonID, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Println("Completion failed:", err)
		http.Error(w, "Failed to record completion", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// collectUploads pairs multipart file parts with the unique names the
// authoring side assigned them. A file with an unaccepted extension rejects
// the whole request before anything is persisted.
func collectUploads(parts []*multipart.FileHeader, names []string, validName func(string) bool) ([]services.PendingFile, error) {
	var files []services.PendingFile
	for i, part := range parts {
		name := part.Filename
		if i < len(names) && names[i] != "" {
			name = filepath.Base(names[i])
		}
		if !validName(name) {
			return nil, errors.New("file type not allowed: " + name)
		}

		f, err := part.Open()
		if err != nil {
			return nil, errors.New("unreadable upload: " + name)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, errors.New("unreadable upload: " + name)
		}
		if name == part.Filename {
			// No author-assigned unique name; assign one here.
			name = uuid.NewString() + "-" + filepath.Base(name)
		}
		files = append(files, services.PendingFile{Name: name, Data: data})
	}
	return files, nil
}

func viewerLearningStyle(r *http.Request) int {
	c, err := r.Cookie("learning_style")
	if err != nil {
		return 0
	}
	style, err := strconv.Atoi(c.Value)
	if err != nil || style < 1 || style > 3 {
		return 0
	}
	return style
}

func viewerUserID(r *http.Request) (int64, error) {
	c, err := r.Cookie("user_id")
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(c.Value, 10, 64)
}
