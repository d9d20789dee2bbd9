package quizrepo

import (
	"errors"
	courseModels "lms/models/course"
	"lms/services/quizservice"

	"gorm.io/gorm"
)

// EnrollmentRepo implements quizservice.EnrollmentStore
type EnrollmentRepo struct {
	db *gorm.DB
}

func NewEnrollmentRepo(db *gorm.DB) *EnrollmentRepo {
	return &EnrollmentRepo{db: db}
}

// IsEnrolled reports whether a live purchase record exists
func (r *EnrollmentRepo) IsEnrolled(userID, courseID uint) (bool, error) {
	var count int64
	err := r.db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ProgressRepo implements quizservice.ProgressStore
type ProgressRepo struct {
	db *gorm.DB
}

func NewProgressRepo(db *gorm.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

// IsCourseCompleted reads the completed flag; a missing progress record means
// the user has not started the course, not an error.
func (r *ProgressRepo) IsCourseCompleted(userID, courseID uint) (bool, error) {
	var progress courseModels.CourseProgress
	err := r.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return progress.Completed, nil
}

// QuizRepo implements quizservice.QuizStore
type QuizRepo struct {
	db *gorm.DB
}

func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

func (r *QuizRepo) preloaded() *gorm.DB {
	return r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.order_index asc, quiz_questions.id asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_options.order_index asc, quiz_options.id asc")
		})
}

// ByCourse returns the quiz for a course with questions and options in order
func (r *QuizRepo) ByCourse(courseID uint) (*courseModels.Quiz, error) {
	var quiz courseModels.Quiz
	err := r.preloaded().
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, quizservice.ErrNoQuizForCourse
		}
		return nil, err
	}
	return &quiz, nil
}

// ByID returns a quiz by primary key
func (r *QuizRepo) ByID(quizID uint) (*courseModels.Quiz, error) {
	var quiz courseModels.Quiz
	err := r.preloaded().
		Where("id = ? AND is_deleted = ?", quizID, false).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, quizservice.ErrQuizNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// AttemptRepo implements quizservice.AttemptStore
type AttemptRepo struct {
	db *gorm.DB
}

func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// Insert appends one attempt with its graded answers
func (r *AttemptRepo) Insert(attempt *courseModels.QuizAttempt) error {
	return r.db.Create(attempt).Error
}

// Find lists attempts for (user, quiz) most recent first; limit <= 0 means all
func (r *AttemptRepo) Find(userID, quizID uint, limit int) ([]courseModels.QuizAttempt, error) {
	attempts := []courseModels.QuizAttempt{}
	query := r.db.
		Preload("Answers").
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("completed_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}
