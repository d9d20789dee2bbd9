package quizservice

import "errors"

// Error kinds surfaced by the evaluator. Controllers map these onto HTTP
// statuses; anything not matching one of them is a storage failure and gets a
// generic 500.
var (
	ErrNotEnrolled       = errors.New("user has not purchased this course")
	ErrCourseIncomplete  = errors.New("course must be completed before taking the quiz")
	ErrNoQuizForCourse   = errors.New("no quiz available for this course")
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrInvalidSubmission = errors.New("invalid quiz submission")
)
