package quizservice

import (
	"fmt"
	courseModels "lms/models/course"
	"time"

	"github.com/google/uuid"
)

// recentAttemptLimit caps the attempt history attached to the candidate view
const recentAttemptLimit = 5

// EnrollmentStore answers whether a user has purchased a course
type EnrollmentStore interface {
	IsEnrolled(userID, courseID uint) (bool, error)
}

// ProgressStore answers whether a user has completed all course content
type ProgressStore interface {
	IsCourseCompleted(userID, courseID uint) (bool, error)
}

// QuizStore loads quiz definitions with questions and options preloaded in
// order. Lookups that find nothing return ErrNoQuizForCourse / ErrQuizNotFound.
type QuizStore interface {
	ByCourse(courseID uint) (*courseModels.Quiz, error)
	ByID(quizID uint) (*courseModels.Quiz, error)
}

// AttemptStore persists and lists attempts. Find returns attempts most recent
// first; limit <= 0 means no limit.
type AttemptStore interface {
	Insert(attempt *courseModels.QuizAttempt) error
	Find(userID, quizID uint, limit int) ([]courseModels.QuizAttempt, error)
}

// Evaluator gates quiz access and grades attempts. It owns no state beyond
// its collaborators and never mutates quizzes or existing attempts.
type Evaluator struct {
	enrollments EnrollmentStore
	progress    ProgressStore
	quizzes     QuizStore
	attempts    AttemptStore
}

func New(enrollments EnrollmentStore, progress ProgressStore, quizzes QuizStore, attempts AttemptStore) *Evaluator {
	return &Evaluator{
		enrollments: enrollments,
		progress:    progress,
		quizzes:     quizzes,
		attempts:    attempts,
	}
}

// AnswerSubmission is one submitted answer: which question, and which option
// indices the candidate selected.
type AnswerSubmission struct {
	QuestionID            uint  `json:"question_id"`
	SelectedOptionIndices []int `json:"selected_option_indices"`
}

// CandidateOption is an option with its correctness flag stripped
type CandidateOption struct {
	ID    uint   `json:"id"`
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// CandidateQuestion is a question as shown to a candidate before grading
type CandidateQuestion struct {
	ID           uint              `json:"id"`
	QuestionText string            `json:"question_text"`
	Explanation  string            `json:"explanation"`
	Options      []CandidateOption `json:"options"`
}

// CandidateQuiz is the redacted quiz view
type CandidateQuiz struct {
	ID           uint                `json:"id"`
	CourseID     uint                `json:"course_id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	PassingScore int                 `json:"passing_score"`
	CreatedAt    time.Time           `json:"created_at"`
	Questions    []CandidateQuestion `json:"questions"`
}

// CandidateView is what GetQuizForCandidate returns: the redacted quiz plus
// the candidate's recent attempt history.
type CandidateView struct {
	Quiz     CandidateQuiz              `json:"quiz"`
	Attempts []courseModels.QuizAttempt `json:"attempts"`
}

// SubmitResult summarizes a graded submission
type SubmitResult struct {
	Score          float64                   `json:"score"`
	Passed         bool                      `json:"passed"`
	CorrectCount   int                       `json:"correct_count"`
	TotalQuestions int                       `json:"total_questions"`
	PassingScore   int                       `json:"passing_score"`
	Attempt        *courseModels.QuizAttempt `json:"attempt"`
}

// checkEligibility enforces the purchase and completion preconditions, in
// that order.
func (e *Evaluator) checkEligibility(userID, courseID uint) error {
	enrolled, err := e.enrollments.IsEnrolled(userID, courseID)
	if err != nil {
		return fmt.Errorf("enrollment store: %w", err)
	}
	if !enrolled {
		return ErrNotEnrolled
	}

	completed, err := e.progress.IsCourseCompleted(userID, courseID)
	if err != nil {
		return fmt.Errorf("progress store: %w", err)
	}
	if !completed {
		return ErrCourseIncomplete
	}

	return nil
}

// GetQuizForCandidate returns the redacted quiz for a course together with
// the user's 5 most recent attempts. Read-only.
func (e *Evaluator) GetQuizForCandidate(userID, courseID uint) (*CandidateView, error) {
	if err := e.checkEligibility(userID, courseID); err != nil {
		return nil, err
	}

	quiz, err := e.quizzes.ByCourse(courseID)
	if err != nil {
		return nil, err
	}

	attempts, err := e.attempts.Find(userID, quiz.ID, recentAttemptLimit)
	if err != nil {
		return nil, fmt.Errorf("attempt store: %w", err)
	}

	return &CandidateView{
		Quiz:     redactQuiz(quiz),
		Attempts: attempts,
	}, nil
}

// SubmitAttempt re-validates eligibility against the quiz's course, grades
// the answers and appends an immutable attempt record.
func (e *Evaluator) SubmitAttempt(userID, quizID uint, answers []AnswerSubmission) (*SubmitResult, error) {
	if err := validateAnswers(answers); err != nil {
		return nil, err
	}

	quiz, err := e.quizzes.ByID(quizID)
	if err != nil {
		return nil, err
	}

	// Eligibility comes from the quiz's own course id so a direct submit call
	// cannot sidestep the gate.
	if err := e.checkEligibility(userID, quiz.CourseID); err != nil {
		return nil, err
	}

	gradedAnswers, correctCount := gradeAnswers(quiz, answers)

	totalQuestions := len(quiz.Questions)
	score := 0.0
	if totalQuestions > 0 {
		score = float64(correctCount) / float64(totalQuestions) * 100
	}
	passed := score >= float64(quiz.PassingScore)

	attempt := &courseModels.QuizAttempt{
		PublicID:       uuid.NewString(),
		UserID:         userID,
		CourseID:       quiz.CourseID,
		QuizID:         quiz.ID,
		Score:          score,
		Passed:         passed,
		PassingScore:   quiz.PassingScore, // snapshot: later quiz edits must not rewrite history
		CorrectCount:   correctCount,
		TotalQuestions: totalQuestions,
		CompletedAt:    time.Now(),
		Answers:        gradedAnswers,
	}

	if err := e.attempts.Insert(attempt); err != nil {
		return nil, fmt.Errorf("attempt store: %w", err)
	}

	return &SubmitResult{
		Score:          score,
		Passed:         passed,
		CorrectCount:   correctCount,
		TotalQuestions: totalQuestions,
		PassingScore:   quiz.PassingScore,
		Attempt:        attempt,
	}, nil
}

// ListAttempts returns every attempt for (user, quiz), most recent first.
// History stays readable regardless of current eligibility.
func (e *Evaluator) ListAttempts(userID, quizID uint) ([]courseModels.QuizAttempt, error) {
	attempts, err := e.attempts.Find(userID, quizID, 0)
	if err != nil {
		return nil, fmt.Errorf("attempt store: %w", err)
	}
	return attempts, nil
}

// validateAnswers rejects malformed payloads before anything is persisted
func validateAnswers(answers []AnswerSubmission) error {
	if answers == nil {
		return fmt.Errorf("%w: answers must be an array", ErrInvalidSubmission)
	}
	for _, a := range answers {
		for _, idx := range a.SelectedOptionIndices {
			if idx < 0 {
				return fmt.Errorf("%w: option index %d is negative", ErrInvalidSubmission, idx)
			}
		}
	}
	return nil
}

// gradeAnswers grades one submission against a quiz definition. An answer is
// correct only when its selected set exactly equals the set of correct option
// indices; the single rule covers single- and multi-answer questions alike.
// Questions with no submitted answer grade as incorrect with an empty
// selection, and submissions naming unknown question ids grade as incorrect
// without disturbing the rest.
func gradeAnswers(quiz *courseModels.Quiz, answers []AnswerSubmission) ([]courseModels.QuizAnswer, int) {
	submitted := make(map[uint][]int, len(answers))
	order := make([]uint, 0, len(answers))
	for _, a := range answers {
		if _, seen := submitted[a.QuestionID]; !seen {
			order = append(order, a.QuestionID)
		}
		submitted[a.QuestionID] = a.SelectedOptionIndices
	}

	graded := make([]courseModels.QuizAnswer, 0, len(quiz.Questions))
	correctCount := 0

	for _, q := range quiz.Questions {
		selected := submitted[q.ID]
		delete(submitted, q.ID)

		isCorrect := setEqual(selected, correctIndices(q))
		if isCorrect {
			correctCount++
		}

		if selected == nil {
			selected = []int{}
		}
		graded = append(graded, courseModels.QuizAnswer{
			QuestionID:            q.ID,
			SelectedOptionIndices: selected,
			IsCorrect:             isCorrect,
		})
	}

	// Stale or unknown question ids: recorded, never correct
	for _, qid := range order {
		selected, stale := submitted[qid]
		if !stale {
			continue
		}
		graded = append(graded, courseModels.QuizAnswer{
			QuestionID:            qid,
			SelectedOptionIndices: selected,
			IsCorrect:             false,
		})
	}

	return graded, correctCount
}

// correctIndices collects the option indices flagged correct for a question.
// Options carry an explicit OrderIndex; that index is the option's identity
// on the wire.
func correctIndices(q courseModels.QuizQuestion) []int {
	var correct []int
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct = append(correct, opt.OrderIndex)
		}
	}
	return correct
}

// setEqual compares two index slices as sets: duplicates collapse, order is
// irrelevant, and any surplus or missing member makes them unequal.
func setEqual(a, b []int) bool {
	as := make(map[int]struct{}, len(a))
	for _, v := range a {
		as[v] = struct{}{}
	}
	bs := make(map[int]struct{}, len(b))
	for _, v := range b {
		bs[v] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for v := range as {
		if _, ok := bs[v]; !ok {
			return false
		}
	}
	return true
}

// redactQuiz strips correctness flags from every option before the quiz is
// shown to a candidate.
func redactQuiz(quiz *courseModels.Quiz) CandidateQuiz {
	questions := make([]CandidateQuestion, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		options := make([]CandidateOption, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, CandidateOption{
				ID:    opt.ID,
				Index: opt.OrderIndex,
				Text:  opt.Text,
			})
		}
		questions = append(questions, CandidateQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Explanation:  q.Explanation,
			Options:      options,
		})
	}

	return CandidateQuiz{
		ID:           quiz.ID,
		CourseID:     quiz.CourseID,
		Title:        quiz.Title,
		Description:  quiz.Description,
		PassingScore: quiz.PassingScore,
		CreatedAt:    quiz.CreatedAt,
		Questions:    questions,
	}
}
