package handlers

import (
	"github.com/learnedge/learnedge/storage"
)

// App bundles the dependencies the lesson and authoring handlers need. The
// consent and interaction handlers are stateless free functions.
type App struct {
	DB          *storage.DB
	UploadsRoot string
	Sessions    *SessionStore
	TemplateDir string
}

func NewApp(db *storage.DB, uploadsRoot string) *App {
	return &App{
		DB:          db,
		UploadsRoot: uploadsRoot,
		Sessions:    NewSessionStore(),
		TemplateDir: "./frontend/templates",
	}
}
