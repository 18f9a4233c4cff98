package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// MarkLessonCompleted records that the user finished the lesson. Completion is
// sticky: marking an already completed lesson changes nothing.
func (db *DB) MarkLessonCompleted(lessonID, userID int64) error {
	if _, err := db.GetLesson(lessonID); err != nil {
		return err
	}
	_, err := db.conn.Exec(
		`INSERT INTO lesson_progress (lesson_id, user_id, completed, completed_at)
		 VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		 ON CONFLICT (lesson_id, user_id) DO NOTHING`,
		lessonID, userID)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

// IsLessonCompleted reports whether the user has finished the lesson.
func (db *DB) IsLessonCompleted(lessonID, userID int64) (bool, error) {
	var completed bool
	err := db.conn.QueryRow(
		`SELECT completed FROM lesson_progress WHERE lesson_id = ? AND user_id = ?`,
		lessonID, userID).Scan(&completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("progress lookup: %w", err)
	}
	return completed, nil
}
