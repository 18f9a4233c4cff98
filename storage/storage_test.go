package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCourseRoundTrip(t *testing.T) {
	db := openTestDB(t)

	created, err := db.CreateCourse("Go Basics", "go-basics")
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	byID, err := db.GetCourse(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	bySlug, err := db.GetCourseBySlug("go-basics")
	require.NoError(t, err)
	assert.Equal(t, created, bySlug)

	_, err = db.GetCourse(9999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = db.GetCourseBySlug("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLessonOrderIncrements(t *testing.T) {
	db := openTestDB(t)
	course, err := db.CreateCourse("Go Basics", "go-basics")
	require.NoError(t, err)

	first, err := db.CreateLesson(course.ID, "Intro", "intro")
	require.NoError(t, err)
	second, err := db.CreateLesson(course.ID, "Loops", "loops")
	require.NoError(t, err)

	assert.Equal(t, 1, first.LessonOrder)
	assert.Equal(t, 2, second.LessonOrder)

	other, err := db.CreateCourse("Other", "other")
	require.NoError(t, err)
	third, err := db.CreateLesson(other.ID, "Start", "start")
	require.NoError(t, err)
	assert.Equal(t, 1, third.LessonOrder, "order counts per course")

	lessons, err := db.ListLessons(course.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, "Intro", lessons[0].Title)
	assert.Equal(t, "Loops", lessons[1].Title)
}

func TestUpdateLessonContent(t *testing.T) {
	db := openTestDB(t)
	course, err := db.CreateCourse("Go Basics", "go-basics")
	require.NoError(t, err)
	lesson, err := db.CreateLesson(course.ID, "Intro", "intro")
	require.NoError(t, err)

	require.NoError(t, db.UpdateLessonContent(lesson.ID, `<div data-learning="0"><p>hi</p></div>`))

	got, err := db.GetLessonBySlug("intro")
	require.NoError(t, err)
	assert.Contains(t, got.Content, "<p>hi</p>")

	byID, err := db.GetLesson(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, got, byID)

	assert.ErrorIs(t, db.UpdateLessonContent(9999, "x"), ErrNotFound)
}

func TestLessonProgress(t *testing.T) {
	db := openTestDB(t)
	course, err := db.CreateCourse("Go Basics", "go-basics")
	require.NoError(t, err)
	lesson, err := db.CreateLesson(course.ID, "Intro", "intro")
	require.NoError(t, err)

	done, err := db.IsLessonCompleted(lesson.ID, 7)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, db.MarkLessonCompleted(lesson.ID, 7))
	done, err = db.IsLessonCompleted(lesson.ID, 7)
	require.NoError(t, err)
	assert.True(t, done)

	// Completion is sticky and idempotent.
	require.NoError(t, db.MarkLessonCompleted(lesson.ID, 7))
	done, err = db.IsLessonCompleted(lesson.ID, 7)
	require.NoError(t, err)
	assert.True(t, done)

	other, err := db.IsLessonCompleted(lesson.ID, 8)
	require.NoError(t, err)
	assert.False(t, other, "progress is per user")

	assert.ErrorIs(t, db.MarkLessonCompleted(9999, 7), ErrNotFound)
}
