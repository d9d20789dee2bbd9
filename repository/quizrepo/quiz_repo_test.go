package quizrepo

import (
	"fmt"
	"testing"
	"time"

	courseModels "lms/models/course"
	"lms/services/quizservice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&courseModels.Enrollment{},
		&courseModels.CourseProgress{},
		&courseModels.Quiz{},
		&courseModels.QuizQuestion{},
		&courseModels.QuizOption{},
		&courseModels.QuizAttempt{},
		&courseModels.QuizAnswer{},
	))

	return db
}

func TestEnrollmentRepoIsEnrolled(t *testing.T) {
	db := testDB(t)
	repo := NewEnrollmentRepo(db)

	require.NoError(t, db.Create(&courseModels.Enrollment{UserID: 1, CourseID: 2}).Error)
	require.NoError(t, db.Create(&courseModels.Enrollment{UserID: 1, CourseID: 3, IsDeleted: true}).Error)

	enrolled, err := repo.IsEnrolled(1, 2)
	require.NoError(t, err)
	assert.True(t, enrolled)

	enrolled, err = repo.IsEnrolled(1, 9)
	require.NoError(t, err)
	assert.False(t, enrolled)

	// Soft-deleted enrollment does not count
	enrolled, err = repo.IsEnrolled(1, 3)
	require.NoError(t, err)
	assert.False(t, enrolled)
}

func TestProgressRepoIsCourseCompleted(t *testing.T) {
	db := testDB(t)
	repo := NewProgressRepo(db)

	// No record at all: not completed, not an error
	completed, err := repo.IsCourseCompleted(1, 2)
	require.NoError(t, err)
	assert.False(t, completed)

	require.NoError(t, db.Create(&courseModels.CourseProgress{UserID: 1, CourseID: 2, Completed: false}).Error)
	completed, err = repo.IsCourseCompleted(1, 2)
	require.NoError(t, err)
	assert.False(t, completed)

	require.NoError(t, db.Create(&courseModels.CourseProgress{UserID: 1, CourseID: 3, Completed: true}).Error)
	completed, err = repo.IsCourseCompleted(1, 3)
	require.NoError(t, err)
	assert.True(t, completed)
}

func seedQuiz(t *testing.T, db *gorm.DB) *courseModels.Quiz {
	t.Helper()

	quiz := &courseModels.Quiz{
		CourseID:     5,
		Title:        "Final Quiz",
		PassingScore: 70,
		Questions: []courseModels.QuizQuestion{
			{
				QuestionText: "second",
				OrderIndex:   1,
				Options: []courseModels.QuizOption{
					{Text: "b1", OrderIndex: 1},
					{Text: "b0", IsCorrect: true, OrderIndex: 0},
				},
			},
			{
				QuestionText: "first",
				OrderIndex:   0,
				Options: []courseModels.QuizOption{
					{Text: "a0", OrderIndex: 0},
					{Text: "a1", IsCorrect: true, OrderIndex: 1},
				},
			},
		},
	}
	require.NoError(t, db.Create(quiz).Error)
	return quiz
}

func TestQuizRepoByCourse(t *testing.T) {
	db := testDB(t)
	repo := NewQuizRepo(db)
	seedQuiz(t, db)

	quiz, err := repo.ByCourse(5)
	require.NoError(t, err)

	// Questions and options come back in their declared order
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, "first", quiz.Questions[0].QuestionText)
	assert.Equal(t, "second", quiz.Questions[1].QuestionText)
	require.Len(t, quiz.Questions[0].Options, 2)
	assert.Equal(t, "a0", quiz.Questions[0].Options[0].Text)
	assert.Equal(t, "b0", quiz.Questions[1].Options[0].Text)

	_, err = repo.ByCourse(99)
	assert.ErrorIs(t, err, quizservice.ErrNoQuizForCourse)
}

func TestQuizRepoByID(t *testing.T) {
	db := testDB(t)
	repo := NewQuizRepo(db)
	quiz := seedQuiz(t, db)

	got, err := repo.ByID(quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.ID, got.ID)
	assert.Len(t, got.Questions, 2)

	_, err = repo.ByID(999)
	assert.ErrorIs(t, err, quizservice.ErrQuizNotFound)

	// Soft-deleted quizzes are invisible
	require.NoError(t, db.Model(quiz).Update("is_deleted", true).Error)
	_, err = repo.ByID(quiz.ID)
	assert.ErrorIs(t, err, quizservice.ErrQuizNotFound)
}

func TestAttemptRepoInsertAndFind(t *testing.T) {
	db := testDB(t)
	repo := NewAttemptRepo(db)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		attempt := &courseModels.QuizAttempt{
			PublicID:       fmt.Sprintf("attempt-%d", i),
			UserID:         1,
			CourseID:       5,
			QuizID:         9,
			Score:          float64(i * 10),
			CompletedAt:    base.Add(time.Duration(i) * time.Hour),
			TotalQuestions: 2,
			Answers: []courseModels.QuizAnswer{
				{QuestionID: 1, SelectedOptionIndices: courseModels.IntArray{0, 2}, IsCorrect: true},
				{QuestionID: 2, SelectedOptionIndices: courseModels.IntArray{}, IsCorrect: false},
			},
		}
		require.NoError(t, repo.Insert(attempt))
	}
	// Another user's attempt must not leak in
	require.NoError(t, repo.Insert(&courseModels.QuizAttempt{
		PublicID: "other", UserID: 2, QuizID: 9, CompletedAt: base.Add(48 * time.Hour),
	}))

	all, err := repo.Find(1, 9, 0)
	require.NoError(t, err)
	require.Len(t, all, 7)

	// Most recent first
	assert.Equal(t, 60.0, all[0].Score)
	assert.Equal(t, 0.0, all[6].Score)

	// Graded answers round-trip, including the selected index set
	require.Len(t, all[0].Answers, 2)
	assert.Equal(t, courseModels.IntArray{0, 2}, all[0].Answers[0].SelectedOptionIndices)
	assert.True(t, all[0].Answers[0].IsCorrect)

	limited, err := repo.Find(1, 9, 5)
	require.NoError(t, err)
	assert.Len(t, limited, 5)

	none, err := repo.Find(3, 9, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
