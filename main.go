package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/learnedge/learnedge/config"
	"github.com/learnedge/learnedge/handlers"
	"github.com/learnedge/learnedge/storage"
	"github.com/learnedge/learnedge/utils"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found or error loading it:", err)
	}

	cfg, err := config.Load(utils.GetenvDefault("LEARNEDGE_CONFIG", "learnedge.yaml"))
	if err != nil {
		log.Fatal("Config error:", err)
	}

	db, err := storage.New(cfg.Database.Path)
	if err != nil {
		log.Fatal("Database error:", err)
	}
	defer db.Close()

	app := handlers.NewApp(db, cfg.Uploads.Dir)

	http.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("./frontend/static"))))
	http.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Uploads.Dir))))

	http.HandleFunc("GET /course/{courseSlug}", app.CoursePage)
	http.HandleFunc("GET /course/{courseSlug}/{lessonSlug}", app.LessonPage)
	http.HandleFunc("GET /creator/{courseID}/{courseSlug}", app.CreatorPage)
	http.HandleFunc("POST /api/lessons/save", app.SaveLessonHandler)
	http.HandleFunc("PUT /api/lessons/{lessonID}/complete", app.CompleteLessonHandler)

	http.HandleFunc("POST /api/creator/blocks", app.AddBlockHandler)
	http.HandleFunc("GET /api/creator/preview", app.PreviewHandler)
	http.HandleFunc("POST /api/creator/save", app.SaveSessionHandler)
	http.HandleFunc("POST /api/creator/reset", app.ResetSessionHandler)

	http.HandleFunc("POST /api/interaction/answer", handlers.CheckAnswerHandler)
	http.HandleFunc("POST /api/interaction/choice", handlers.CheckChoiceHandler)

	http.HandleFunc("/api/cookies/status", handlers.ConsentStatusHandler)
	http.HandleFunc("/api/cookies/consent", handlers.ConsentHandler)
	http.HandleFunc("/api/cookies/clear", handlers.ClearCookiesHandler)

	log.Println("Server listening on", cfg.Addr())
	err = http.ListenAndServe(cfg.Addr(), nil)
	if err != nil {
		log.Fatal("Server error:", err)
	}
}
