package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/learnedge/learnedge/models"
)

// ErrNotFound reports a missing course or lesson.
var ErrNotFound = errors.New("not found")

// CreateCourse inserts a course and returns it with its assigned ID.
func (db *DB) CreateCourse(title, slug string) (models.Course, error) {
	res, err := db.conn.Exec(`INSERT INTO courses (title, slug) VALUES (?, ?)`, title, slug)
	if err != nil {
		return models.Course{}, fmt.Errorf("insert course: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Course{}, fmt.Errorf("course id: %w", err)
	}
	return models.Course{ID: id, Title: title, Slug: slug}, nil
}

// GetCourse looks a course up by ID.
func (db *DB) GetCourse(id int64) (models.Course, error) {
	var c models.Course
	err := db.conn.QueryRow(`SELECT id, title, slug FROM courses WHERE id = ?`, id).
		Scan(&c.ID, &c.Title, &c.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Course{}, fmt.Errorf("course %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Course{}, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

// GetCourseBySlug looks a course up by its URL slug.
func (db *DB) GetCourseBySlug(slug string) (models.Course, error) {
	var c models.Course
	err := db.conn.QueryRow(`SELECT id, title, slug FROM courses WHERE slug = ?`, slug).
		Scan(&c.ID, &c.Title, &c.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Course{}, fmt.Errorf("course %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return models.Course{}, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

// CreateLesson inserts a lesson at the end of its course's reading order and
// returns it with its assigned ID.
func (db *DB) CreateLesson(courseID int64, title, slug string) (models.Lesson, error) {
	order, err := db.lastLessonOrder(courseID)
	if err != nil {
		return models.Lesson{}, err
	}

	l := models.Lesson{CourseID: courseID, Title: title, Slug: slug, LessonOrder: order + 1}
	res, err := db.conn.Exec(
		`INSERT INTO lessons (course_id, title, slug, content, lesson_order) VALUES (?, ?, ?, '', ?)`,
		l.CourseID, l.Title, l.Slug, l.LessonOrder)
	if err != nil {
		return models.Lesson{}, fmt.Errorf("insert lesson: %w", err)
	}
	l.ID, err = res.LastInsertId()
	if err != nil {
		return models.Lesson{}, fmt.Errorf("lesson id: %w", err)
	}
	return l, nil
}

// UpdateLessonContent stores the final rendered markup for a lesson.
func (db *DB) UpdateLessonContent(lessonID int64, content string) error {
	res, err := db.conn.Exec(`UPDATE lessons SET content = ? WHERE id = ?`, content, lessonID)
	if err != nil {
		return fmt.Errorf("update lesson content: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("lesson %d: %w", lessonID, ErrNotFound)
	}
	return nil
}

// GetLessonBySlug looks a lesson up by its URL slug.
func (db *DB) GetLessonBySlug(slug string) (models.Lesson, error) {
	var l models.Lesson
	err := db.conn.QueryRow(
		`SELECT id, course_id, title, slug, content, lesson_order FROM lessons WHERE slug = ?`, slug).
		Scan(&l.ID, &l.CourseID, &l.Title, &l.Slug, &l.Content, &l.LessonOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Lesson{}, fmt.Errorf("lesson %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return models.Lesson{}, fmt.Errorf("get lesson: %w", err)
	}
	return l, nil
}

// GetLesson looks a lesson up by ID.
func (db *DB) GetLesson(id int64) (models.Lesson, error) {
	var l models.Lesson
	err := db.conn.QueryRow(
		`SELECT id, course_id, title, slug, content, lesson_order FROM lessons WHERE id = ?`, id).
		Scan(&l.ID, &l.CourseID, &l.Title, &l.Slug, &l.Content, &l.LessonOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Lesson{}, fmt.Errorf("lesson %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Lesson{}, fmt.Errorf("get lesson: %w", err)
	}
	return l, nil
}

// ListLessons returns a course's lessons in reading order.
func (db *DB) ListLessons(courseID int64) ([]models.Lesson, error) {
	rows, err := db.conn.Query(
		`SELECT id, course_id, title, slug, content, lesson_order FROM lessons
		 WHERE course_id = ? ORDER BY lesson_order`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.Slug, &l.Content, &l.LessonOrder); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func (db *DB) lastLessonOrder(courseID int64) (int, error) {
	var order sql.NullInt64
	err := db.conn.QueryRow(
		`SELECT MAX(lesson_order) FROM lessons WHERE course_id = ?`, courseID).Scan(&order)
	if err != nil {
		return 0, fmt.Errorf("last lesson order: %w", err)
	}
	return int(order.Int64), nil
}
