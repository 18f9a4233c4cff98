package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnedge/learnedge/models"
	"github.com/learnedge/learnedge/services"
	"github.com/learnedge/learnedge/storage"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	app := NewApp(db, t.TempDir())
	app.TemplateDir = "../frontend/templates"
	return app
}

func lessonMux(app *App) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /course/{courseSlug}", app.CoursePage)
	mux.HandleFunc("GET /course/{courseSlug}/{lessonSlug}", app.LessonPage)
	mux.HandleFunc("PUT /api/lessons/{lessonID}/complete", app.CompleteLessonHandler)
	return mux
}

func seedLesson(t *testing.T, app *App, content string) models.Lesson {
	t.Helper()
	course, err := app.DB.CreateCourse("Go Basics", "go-basics")
	require.NoError(t, err)
	lesson, err := app.DB.CreateLesson(course.ID, "Intro", "intro")
	require.NoError(t, err)
	require.NoError(t, app.DB.UpdateLessonContent(lesson.ID, content))
	lesson.Content = content
	return lesson
}

func TestLessonPageAppliesViewerStyle(t *testing.T) {
	app := newTestApp(t)
	seedLesson(t, app,
		`<div class="course-text-content" data-learning="0"><p>for everyone</p></div>`+"\n"+
			`<div class="course-text-content" data-learning="1,3"><p>not for auditory</p></div>`)

	req := httptest.NewRequest(http.MethodGet, "/course/go-basics/intro", nil)
	req.AddCookie(&http.Cookie{Name: "learning_style", Value: "2"})
	rec := httptest.NewRecorder()
	lessonMux(app).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "for everyone")
	// The excluded block stays in the page, display-toggled off.
	assert.Contains(t, body, "not for auditory")
	assert.Contains(t, body, `style="display:none"`)
}

func TestLessonPageRedirectsUndeterminedStyleToSurvey(t *testing.T) {
	app := newTestApp(t)
	seedLesson(t, app, `<div data-learning="0"><p>x</p></div>`)

	for _, cookie := range []*http.Cookie{nil, {Name: "learning_style", Value: "9"}} {
		req := httptest.NewRequest(http.MethodGet, "/course/go-basics/intro", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		lessonMux(app).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/survey", rec.Header().Get("Location"))
	}
}

func TestLessonPageNoticeWhenNothingVisible(t *testing.T) {
	app := newTestApp(t)
	seedLesson(t, app, `<div class="course-text-content" data-learning="2"><p>auditory only</p></div>`)

	req := httptest.NewRequest(http.MethodGet, "/course/go-basics/intro", nil)
	req.AddCookie(&http.Cookie{Name: "learning_style", Value: "1"})
	rec := httptest.NewRecorder()
	lessonMux(app).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "no content for your learning style")
	// The blocks are still there, just toggled off.
	assert.Contains(t, body, "auditory only")
	assert.Contains(t, body, `style="display:none"`)

	req = httptest.NewRequest(http.MethodGet, "/course/go-basics/intro", nil)
	req.AddCookie(&http.Cookie{Name: "learning_style", Value: "2"})
	rec = httptest.NewRecorder()
	lessonMux(app).ServeHTTP(rec, req)
	assert.NotContains(t, rec.Body.String(), "no content for your learning style")
}

func TestCoursePageListsLessons(t *testing.T) {
	app := newTestApp(t)
	course, err := app.DB.CreateCourse("Go Basics", "go-basics")
	require.NoError(t, err)
	_, err = app.DB.CreateLesson(course.ID, "Intro", "intro")
	require.NoError(t, err)
	_, err = app.DB.CreateLesson(course.ID, "Loops", "loops")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	lessonMux(app).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/course/go-basics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Go Basics")
	assert.Contains(t, body, `href="/course/go-basics/intro"`)
	assert.Contains(t, body, `href="/course/go-basics/loops"`)
	assert.Less(t, strings.Index(body, "Intro"), strings.Index(body, "Loops"))

	rec = httptest.NewRecorder()
	lessonMux(app).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/course/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLessonPageUnknownSlug(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/course/go-basics/missing", nil)
	req.AddCookie(&http.Cookie{Name: "learning_style", Value: "1"})
	rec := httptest.NewRecorder()
	lessonMux(app).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func saveLessonRequest(t *testing.T, fields map[string]string, imageName string, imageData []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if imageName != "" {
		require.NoError(t, mw.WriteField("imageNames", imageName))
		fw, err := mw.CreateFormFile("images", "abc.png")
		require.NoError(t, err)
		_, err = fw.Write(imageData)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/lessons/save", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSaveLessonHandler(t *testing.T) {
	app := newTestApp(t)
	course, err := app.DB.CreateCourse("Go Basics", "go-basics")
	require.NoError(t, err)

	content := `<div class="course-text-content" data-learning="0"><p>Hello</p></div>` +
		`<div class="course-image-container" data-learning="1"><img src="u1-abc.png" alt="abc" class="course-image"/></div>` +
		`<div class="course-image-container" data-learning="0"><img src="blob:leftover" alt="x" class="course-image"/></div>`

	req := saveLessonRequest(t, map[string]string{
		"courseId":    strconv.FormatInt(course.ID, 10),
		"title":       "Pierwsza lekcja",
		"contentHtml": content,
	}, "u1-abc.png", []byte("imgdata"))
	rec := httptest.NewRecorder()
	app.SaveLessonHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result services.PublishResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))

	assert.Equal(t, "/course/go-basics", result.Redirect)
	assert.Equal(t, "pierwsza-lekcja", result.Lesson.Slug)
	assert.Equal(t, 1, result.Lesson.LessonOrder)

	lessonDir := strconv.FormatInt(result.Lesson.ID, 10)
	assert.Contains(t, result.Lesson.Content, "/uploads/courses/go-basics/"+lessonDir+"/u1-abc.png")
	assert.NotContains(t, result.Lesson.Content, "blob:")

	saved, err := os.ReadFile(filepath.Join(app.UploadsRoot, "courses", "go-basics", lessonDir, "u1-abc.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("imgdata"), saved)

	stored, err := app.DB.GetLesson(result.Lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Lesson.Content, stored.Content)

	// The redirect target is a served page linking the new lesson.
	redirect := httptest.NewRecorder()
	lessonMux(app).ServeHTTP(redirect, httptest.NewRequest(http.MethodGet, result.Redirect, nil))
	require.Equal(t, http.StatusOK, redirect.Code)
	assert.Contains(t, redirect.Body.String(), `href="/course/go-basics/pierwsza-lekcja"`)
}

func TestSaveLessonRewritesNamesNeedingEscaping(t *testing.T) {
	app := newTestApp(t)
	course, err := app.DB.CreateCourse("Go Basics", "go-basics")
	require.NoError(t, err)

	req := saveLessonRequest(t, map[string]string{
		"courseId":    strconv.FormatInt(course.ID, 10),
		"title":       "Media",
		"contentHtml": `<div class="course-image-container" data-learning="0"><img src="u1-a&b.png" alt="ab" class="course-image"/></div>`,
	}, "u1-a&b.png", []byte("imgdata"))
	rec := httptest.NewRecorder()
	app.SaveLessonHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result services.PublishResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))

	lessonDir := strconv.FormatInt(result.Lesson.ID, 10)
	assert.Contains(t, result.Lesson.Content,
		"/uploads/courses/go-basics/"+lessonDir+"/u1-a&amp;b.png")
	assert.NotContains(t, result.Lesson.Content, `src="u1-a&amp;b.png"`, "name must not survive unrewritten")

	_, err = os.Stat(filepath.Join(app.UploadsRoot, "courses", "go-basics", lessonDir, "u1-a&b.png"))
	require.NoError(t, err)
}

func TestSaveLessonRejectsBadUploadType(t *testing.T) {
	app := newTestApp(t)
	course, err := app.DB.CreateCourse("Go Basics", "go-basics")
	require.NoError(t, err)

	req := saveLessonRequest(t, map[string]string{
		"courseId":    strconv.FormatInt(course.ID, 10),
		"title":       "Lesson",
		"contentHtml": `<div data-learning="0"><p>x</p></div>`,
	}, "u1-payload.svg", []byte("<svg/>"))
	rec := httptest.NewRecorder()
	app.SaveLessonHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveLessonUnknownCourse(t *testing.T) {
	app := newTestApp(t)
	req := saveLessonRequest(t, map[string]string{
		"courseId":    "999",
		"title":       "Lesson",
		"contentHtml": `<div data-learning="0"><p>x</p></div>`,
	}, "", nil)
	rec := httptest.NewRecorder()
	app.SaveLessonHandler(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompleteLessonHandler(t *testing.T) {
	app := newTestApp(t)
	lesson := seedLesson(t, app, `<div data-learning="0"><p>x</p></div>`)
	mux := lessonMux(app)
	path := "/api/lessons/" + strconv.FormatInt(lesson.ID, 10) + "/complete"

	// Repeating the request succeeds without changing anything.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPut, path, nil)
		req.AddCookie(&http.Cookie{Name: "user_id", Value: "7"})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	done, err := app.DB.IsLessonCompleted(lesson.ID, 7)
	require.NoError(t, err)
	assert.True(t, done)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, path, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "no user cookie")

	req := httptest.NewRequest(http.MethodPut, "/api/lessons/999/complete", nil)
	req.AddCookie(&http.Cookie{Name: "user_id", Value: "7"})
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
