package models

// Course groups lessons under a slug used in public URLs.
type Course struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Lesson is a persisted, fully rendered lesson. Content is the HTML produced
// by the block renderer with all upload references resolved.
type Lesson struct {
	ID          int64  `json:"id"`
	CourseID    int64  `json:"courseId"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Content     string `json:"content"`
	LessonOrder int    `json:"lessonOrder"`
}

// LessonProgress records that a user finished a lesson. Completion is sticky:
// marking an already completed lesson is a no-op.
type LessonProgress struct {
	LessonID  int64 `json:"lessonId"`
	UserID    int64 `json:"userId"`
	Completed bool  `json:"completed"`
}

// ConsentStatus is the payload of the consent status endpoint.
type ConsentStatus struct {
	ShowBanner bool `json:"showBanner"`
	HasConsent bool `json:"hasConsent"`
}
