package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/learnedge/learnedge/models"
	"github.com/learnedge/learnedge/services"
	"github.com/learnedge/learnedge/storage"
	"github.com/learnedge/learnedge/utils"
)

const sessionCookieName = "authoring_session"

// SessionStore holds the in-memory authoring sessions, keyed by a session
// cookie. A session lives until its lesson is saved or the server restarts;
// abandoning the page simply abandons the session.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*services.AuthoringSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*services.AuthoringSession)}
}

// With runs fn against the request's authoring session, creating the session
// (and its cookie) on first use. Session mutations are serialized here, so
// the session itself needs no locking.
func (st *SessionStore) With(w http.ResponseWriter, r *http.Request, fn func(s *services.AuthoringSession)) {
	st.mu.Lock()
	defer st.mu.Unlock()

	id := ""
	if c, err := r.Cookie(sessionCookieName); err == nil {
		id = c.Value
	}
	if id == "" || st.sessions[id] == nil {
		id = uuid.NewString()
		st.sessions[id] = services.NewAuthoringSession()
		utils.SetCookie(w, r, sessionCookieName, id, time.Time{})
	}
	fn(st.sessions[id])
}

// Drop discards the request's authoring session.
func (st *SessionStore) Drop(w http.ResponseWriter, r *http.Request) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if c, err := r.Cookie(sessionCookieName); err == nil {
		delete(st.sessions, c.Value)
	}
	utils.ClearCookie(w, r, sessionCookieName)
}

// AddBlockHandler appends one block to the authoring session. The form names
// the kind plus its kind-specific fields and the checked learning styles; on
// success the re-rendered preview fragment comes back, on validation failure
// a 422 with the message to surface and no mutation.
func (a *App) AddBlockHandler(w http.ResponseWriter, r *http.Request) {
	// Image and audio kinds arrive as multipart; everything else is a plain form.
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, "Invalid multipart request", http.StatusBadRequest)
			return
		}
	} else if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	kind := models.BlockKind(r.FormValue("kind"))
	filter := learningFilterFromForm(r)

	a.Sessions.With(w, r, func(s *services.AuthoringSession) {
		var err error
		switch {
		case kind == models.KindHeader:
			_, err = s.AddHeader(r.FormValue("content"), filter)
		case kind == models.KindText:
			_, err = s.AddText(r.FormValue("content"), filter)
		case models.IsCalloutKind(kind):
			_, err = s.AddCallout(kind, r.FormValue("content"), filter)
		case kind == models.KindVideo:
			_, err = s.AddVideo(r.FormValue("link"), r.FormValue("title"), filter)
		case kind == models.KindCode:
			_, err = s.AddCode(r.FormValue("title"), r.FormValue("language"), r.FormValue("code"), filter)
		case kind == models.KindQuiz:
			_, err = s.AddQuiz(r.FormValue("question"), r.FormValue("answer"), filter)
		case kind == models.KindQuizChoice:
			err = addQuizChoice(s, r, filter)
		case kind == models.KindPractice:
			_, err = s.AddPractice(r.FormValue("title"), r.FormValue("language"), r.FormValue("code"), r.FormValue("answer"), filter)
		case kind == models.KindImage:
			err = addUploadBlock(s, r, filter, s.AddImage)
		case kind == models.KindAudio:
			err = addUploadBlock(s, r, filter, s.AddAudio)
		default:
			http.Error(w, "Unknown block kind", http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		a.writePreview(w, s)
	})
}

// PreviewHandler returns the current preview fragment.
func (a *App) PreviewHandler(w http.ResponseWriter, r *http.Request) {
	a.Sessions.With(w, r, func(s *services.AuthoringSession) {
		a.writePreview(w, s)
	})
}

// SaveSessionHandler persists the session's lesson and discards the session.
func (a *App) SaveSessionHandler(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.ParseInt(r.FormValue("courseId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid course id", http.StatusBadRequest)
		return
	}
	title := r.FormValue("title")

	var result services.PublishResult
	var saveErr error
	a.Sessions.With(w, r, func(s *services.AuthoringSession) {
		html, err := s.FinalizeHTML()
		if err != nil {
			saveErr = err
			return
		}
		result, saveErr = services.PersistLesson(a.DB, a.UploadsRoot, courseID, title, html, s.PendingImages(), s.PendingAudio())
	})
	if saveErr != nil {
		if errors.Is(saveErr, storage.ErrNotFound) {
			http.Error(w, "Course not found", http.StatusNotFound)
			return
		}
		log.Println("Session save failed:", saveErr)
		http.Error(w, "Failed to save lesson", http.StatusInternalServerError)
		return
	}

	a.Sessions.Drop(w, r)
	writeJSON(w, http.StatusOK, result)
}

// ResetSessionHandler discards the authoring session without saving.
func (a *App) ResetSessionHandler(w http.ResponseWriter, r *http.Request) {
	a.Sessions.Drop(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) writePreview(w http.ResponseWriter, s *services.AuthoringSession) {
	html, err := s.Render()
	if err != nil {
		log.Println("Preview render failed:", err)
		http.Error(w, "Failed to render preview", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, html)
}

func addQuizChoice(s *services.AuthoringSession, r *http.Request, filter models.LearningFilter) error {
	// The form's correct-answer number is 1-based.
	correct, err := strconv.Atoi(r.FormValue("correct"))
	if err != nil {
		return errors.New("the correct answer number is required")
	}
	_, err = s.AddQuizChoice(r.FormValue("question"), r.Form["options"], correct-1, filter)
	return err
}

func addUploadBlock(s *services.AuthoringSession, r *http.Request, filter models.LearningFilter,
	add func(string, []byte, models.LearningFilter) (models.Block, error)) error {

	file, header, err := r.FormFile("file")
	if err != nil {
		return errors.New("select a file first")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return errors.New("unreadable upload: " + header.Filename)
	}
	_, err = add(header.Filename, data, filter)
	return err
}

func learningFilterFromForm(r *http.Request) models.LearningFilter {
	var selected []int
	for _, v := range r.Form["learning"] {
		if n, err := strconv.Atoi(v); err == nil {
			selected = append(selected, n)
		}
	}
	return models.NewLearningFilter(selected)
}
