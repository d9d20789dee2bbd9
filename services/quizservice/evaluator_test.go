package quizservice

import (
	"errors"
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userCourse struct {
	userID   uint
	courseID uint
}

type fakeEnrollments struct {
	enrolled map[userCourse]bool
	err      error
}

func (f *fakeEnrollments) IsEnrolled(userID, courseID uint) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.enrolled[userCourse{userID, courseID}], nil
}

type fakeProgress struct {
	completed map[userCourse]bool
	err       error
}

func (f *fakeProgress) IsCourseCompleted(userID, courseID uint) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.completed[userCourse{userID, courseID}], nil
}

type fakeQuizzes struct {
	quizzes []*courseModels.Quiz
}

func (f *fakeQuizzes) ByCourse(courseID uint) (*courseModels.Quiz, error) {
	for _, q := range f.quizzes {
		if q.CourseID == courseID && !q.IsDeleted {
			return q, nil
		}
	}
	return nil, ErrNoQuizForCourse
}

func (f *fakeQuizzes) ByID(quizID uint) (*courseModels.Quiz, error) {
	for _, q := range f.quizzes {
		if q.ID == quizID && !q.IsDeleted {
			return q, nil
		}
	}
	return nil, ErrQuizNotFound
}

type fakeAttempts struct {
	inserted  []*courseModels.QuizAttempt
	insertErr error
}

func (f *fakeAttempts) Insert(attempt *courseModels.QuizAttempt) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, attempt)
	return nil
}

func (f *fakeAttempts) Find(userID, quizID uint, limit int) ([]courseModels.QuizAttempt, error) {
	var out []courseModels.QuizAttempt
	// Most recent first: walk the append log backwards
	for i := len(f.inserted) - 1; i >= 0; i-- {
		a := f.inserted[i]
		if a.UserID != userID || a.QuizID != quizID {
			continue
		}
		out = append(out, *a)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

const (
	testUser   = uint(7)
	testCourse = uint(3)
	testQuiz   = uint(11)
)

// singleAnswerQuiz builds a quiz with 4 questions, each with 4 options and
// exactly one correct option (index == question position).
func singleAnswerQuiz(passingScore int) *courseModels.Quiz {
	quiz := &courseModels.Quiz{
		CourseID:     testCourse,
		Title:        "Final Quiz",
		PassingScore: passingScore,
	}
	quiz.ID = testQuiz
	for qi := 0; qi < 4; qi++ {
		q := courseModels.QuizQuestion{
			QuestionText: "question",
			OrderIndex:   qi,
		}
		q.ID = uint(qi + 1)
		for oi := 0; oi < 4; oi++ {
			opt := courseModels.QuizOption{
				Text:       "option",
				IsCorrect:  oi == qi,
				OrderIndex: oi,
			}
			opt.ID = uint(qi*10 + oi + 1)
			q.Options = append(q.Options, opt)
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz
}

func eligibleEvaluator(quiz *courseModels.Quiz) (*Evaluator, *fakeAttempts) {
	attempts := &fakeAttempts{}
	ev := New(
		&fakeEnrollments{enrolled: map[userCourse]bool{{testUser, testCourse}: true}},
		&fakeProgress{completed: map[userCourse]bool{{testUser, testCourse}: true}},
		&fakeQuizzes{quizzes: []*courseModels.Quiz{quiz}},
		attempts,
	)
	return ev, attempts
}

func answer(qid uint, indices ...int) AnswerSubmission {
	if indices == nil {
		indices = []int{}
	}
	return AnswerSubmission{QuestionID: qid, SelectedOptionIndices: indices}
}

func TestSubmitAttemptPassing(t *testing.T) {
	ev, attempts := eligibleEvaluator(singleAnswerQuiz(70))

	// 3 of 4 correct
	result, err := ev.SubmitAttempt(testUser, testQuiz, []AnswerSubmission{
		answer(1, 0),
		answer(2, 1),
		answer(3, 2),
		answer(4, 0), // wrong, correct is 3
	})
	require.NoError(t, err)

	assert.Equal(t, 75.0, result.Score)
	assert.True(t, result.Passed)
	assert.Equal(t, 3, result.CorrectCount)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.Equal(t, 70, result.PassingScore)

	require.Len(t, attempts.inserted, 1)
	stored := attempts.inserted[0]
	assert.Equal(t, testUser, stored.UserID)
	assert.Equal(t, testCourse, stored.CourseID)
	assert.Equal(t, testQuiz, stored.QuizID)
	assert.Equal(t, 75.0, stored.Score)
	assert.True(t, stored.Passed)
	assert.NotEmpty(t, stored.PublicID)
	assert.False(t, stored.CompletedAt.IsZero())
}

func TestSubmitAttemptFailing(t *testing.T) {
	ev, _ := eligibleEvaluator(singleAnswerQuiz(70))

	result, err := ev.SubmitAttempt(testUser, testQuiz, []AnswerSubmission{
		answer(1, 0),
		answer(2, 1),
		answer(3, 0),
		answer(4, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, 50.0, result.Score)
	assert.False(t, result.Passed)
	assert.Equal(t, 2, result.CorrectCount)
}

func TestSubmitAttemptEmptyQuiz(t *testing.T) {
	quiz := &courseModels.Quiz{CourseID: testCourse, PassingScore: 70}
	quiz.ID = testQuiz
	ev, _ := eligibleEvaluator(quiz)

	result, err := ev.SubmitAttempt(testUser, testQuiz, []AnswerSubmission{})
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Score)
	assert.False(t, result.Passed)
	assert.Equal(t, 0, result.TotalQuestions)
}

func TestSubmitAttemptEmptyQuizZeroThreshold(t *testing.T) {
	quiz := &courseModels.Quiz{CourseID: testCourse, PassingScore: 0}
	quiz.ID = testQuiz
	ev, _ := eligibleEvaluator(quiz)

	result, err := ev.SubmitAttempt(testUser, testQuiz, []AnswerSubmission{})
	require.NoError(t, err)

	// 0 >= 0 passes
	assert.Equal(t, 0.0, result.Score)
	assert.True(t, result.Passed)
}

func TestMultiAnswerSetEquality(t *testing.T) {
	// One question whose correct set is {0, 2}
	quiz := &courseModels.Quiz{CourseID: testCourse, PassingScore: 100}
	quiz.ID = testQuiz
	q := courseModels.QuizQuestion{QuestionText: "pick two"}
	q.ID = 1
	for oi := 0; oi < 4; oi++ {
		opt := courseModels.QuizOption{
			IsCorrect:  oi == 0 || oi == 2,
			OrderIndex: oi,
		}
		q.Options = append(q.Options, opt)
	}
	quiz.Questions = []courseModels.QuizQuestion{q}

	cases := []struct {
		name     string
		selected []int
		correct  bool
	}{
		{"exact match", []int{0, 2}, true},
		{"order irrelevant", []int{2, 0}, true},
		{"proper subset", []int{0}, false},
		{"proper superset", []int{0, 1, 2}, false},
		{"disjoint", []int{1, 3}, false},
		{"empty selection", []int{}, false},
		{"duplicates collapse", []int{0, 0, 2}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, _ := eligibleEvaluator(quiz)
			result, err := ev.SubmitAttempt(testUser, testQuiz, []AnswerSubmission{
				answer(1, tc.selected...),
			})
			require.NoError(t, err)
			assert.Equal(t, tc.correct, result.Attempt.Answers[0].IsCorrect)
		})
	}
}

func TestUnknownQuestionIDGradesIncorrectOnly(t *testing.T) {
	ev, _ := eligibleEvaluator(singleAnswerQuiz(70))

	result, err := ev.SubmitAttempt(testUser, testQuiz, []AnswerSubmission{
		answer(1, 0),
		answer(2, 1),
		answer(3, 2),
		answer(4, 3),
		answer(99, 0), // stale id
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, 4, result.CorrectCount)
	assert.Equal(t, 4, result.TotalQuestions)

	// The stale answer is recorded, never correct
	require.Len(t, result.Attempt.Answers, 5)
	var stale *courseModels.QuizAnswer
	for i := range result.Attempt.Answers {
		if result.Attempt.Answers[i].QuestionID == 99 {
			stale = &result.Attempt.Answers[i]
		}
	}
	require.NotNil(t, stale)
	assert.False(t, stale.IsCorrect)
}

func TestUnansweredQuestionsCountIncorrect(t *testing.T) {
	ev, _ := eligibleEvaluator(singleAnswerQuiz(70))

	result, err := ev.SubmitAttempt(testUser, testQuiz, []AnswerSubmission{
		answer(1, 0),
		answer(2, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, 50.0, result.Score)
	assert.Equal(t, 2, result.CorrectCount)

	// Every quiz question materializes a graded row; unanswered ones carry an
	// empty selection
	require.Len(t, result.Attempt.Answers, 4)
	for _, a := range result.Attempt.Answers {
		if a.QuestionID == 3 || a.QuestionID == 4 {
			assert.False(t, a.IsCorrect)
			assert.Empty(t, a.SelectedOptionIndices)
		}
	}
}

func TestEligibilityGatingOnSubmit(t *testing.T) {
	quiz := singleAnswerQuiz(70)

	t.Run("not enrolled", func(t *testing.T) {
		attempts := &fakeAttempts{}
		ev := New(
			&fakeEnrollments{enrolled: map[userCourse]bool{}},
			&fakeProgress{completed: map[userCourse]bool{{testUser, testCourse}: true}},
			&fakeQuizzes{quizzes: []*courseModels.Quiz{quiz}},
			attempts,
		)

		_, err := ev.SubmitAttempt(testUser, testQuiz, []AnswerSubmission{answer(1, 0)})
		assert.ErrorIs(t, err, ErrNotEnrolled)
		assert.Empty(t, attempts.inserted)
	})

	t.Run("course incomplete", func(t *testing.T) {
		attempts := &fakeAttempts{}
		ev := New(
			&fakeEnrollments{enrolled: map[userCourse]bool{{testUser, testCourse}: true}},
			&fakeProgress{completed: map[userCourse]bool{}},
			&fakeQuizzes{quizzes: []*courseModels.Quiz{quiz}},
			attempts,
		)

		_, err := ev.SubmitAttempt(testUser, testQuiz, []AnswerSubmission{answer(1, 0)})
		assert.ErrorIs(t, err, ErrCourseIncomplete)
		assert.Empty(t, attempts.inserted)
	})
}

func TestSubmitQuizNotFound(t *testing.T) {
	ev, _ := eligibleEvaluator(singleAnswerQuiz(70))

	_, err := ev.SubmitAttempt(testUser, 999, []AnswerSubmission{answer(1, 0)})
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestSubmitValidation(t *testing.T) {
	ev, attempts := eligibleEvaluator(singleAnswerQuiz(70))

	_, err := ev.SubmitAttempt(testUser, testQuiz, nil)
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	_, err = ev.SubmitAttempt(testUser, testQuiz, []AnswerSubmission{answer(1, -1)})
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	// Nothing persisted on validation failure
	assert.Empty(t, attempts.inserted)
}

func TestGradingIsIdempotent(t *testing.T) {
	ev, attempts := eligibleEvaluator(singleAnswerQuiz(70))

	payload := []AnswerSubmission{
		answer(1, 0),
		answer(2, 1),
		answer(3, 2),
		answer(4, 0),
	}

	first, err := ev.SubmitAttempt(testUser, testQuiz, payload)
	require.NoError(t, err)
	second, err := ev.SubmitAttempt(testUser, testQuiz, payload)
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Passed, second.Passed)
	assert.Equal(t, first.CorrectCount, second.CorrectCount)

	// Two independent attempts, both kept
	assert.Len(t, attempts.inserted, 2)
	assert.NotEqual(t, attempts.inserted[0].PublicID, attempts.inserted[1].PublicID)
}

func TestPassingScoreSnapshot(t *testing.T) {
	quiz := singleAnswerQuiz(70)
	ev, attempts := eligibleEvaluator(quiz)

	result, err := ev.SubmitAttempt(testUser, testQuiz, []AnswerSubmission{
		answer(1, 0),
		answer(2, 1),
		answer(3, 2),
		answer(4, 0),
	})
	require.NoError(t, err)
	assert.True(t, result.Passed)

	// Instructor tightens the threshold afterwards; the stored attempt keeps
	// the score it was graded against
	quiz.PassingScore = 90
	assert.Equal(t, 70, attempts.inserted[0].PassingScore)
	assert.True(t, attempts.inserted[0].Passed)
}

func TestGetQuizForCandidate(t *testing.T) {
	ev, attempts := eligibleEvaluator(singleAnswerQuiz(70))

	// Seven prior attempts; only the 5 most recent come back
	for i := 0; i < 7; i++ {
		_, err := ev.SubmitAttempt(testUser, testQuiz, []AnswerSubmission{answer(1, 0)})
		require.NoError(t, err)
	}
	require.Len(t, attempts.inserted, 7)

	view, err := ev.GetQuizForCandidate(testUser, testCourse)
	require.NoError(t, err)

	assert.Equal(t, testQuiz, view.Quiz.ID)
	assert.Equal(t, 70, view.Quiz.PassingScore)
	assert.Len(t, view.Quiz.Questions, 4)
	assert.Len(t, view.Attempts, 5)

	// Options carry index and text only; the CandidateOption type has no
	// correctness field, so a correct grading key cannot leak
	for _, q := range view.Quiz.Questions {
		assert.Len(t, q.Options, 4)
		for _, opt := range q.Options {
			assert.NotEmpty(t, opt.Text)
		}
	}
}

func TestGetQuizForCandidateErrors(t *testing.T) {
	quiz := singleAnswerQuiz(70)

	t.Run("not enrolled", func(t *testing.T) {
		ev := New(
			&fakeEnrollments{enrolled: map[userCourse]bool{}},
			&fakeProgress{completed: map[userCourse]bool{{testUser, testCourse}: true}},
			&fakeQuizzes{quizzes: []*courseModels.Quiz{quiz}},
			&fakeAttempts{},
		)
		_, err := ev.GetQuizForCandidate(testUser, testCourse)
		assert.ErrorIs(t, err, ErrNotEnrolled)
	})

	t.Run("course incomplete", func(t *testing.T) {
		ev := New(
			&fakeEnrollments{enrolled: map[userCourse]bool{{testUser, testCourse}: true}},
			&fakeProgress{completed: map[userCourse]bool{}},
			&fakeQuizzes{quizzes: []*courseModels.Quiz{quiz}},
			&fakeAttempts{},
		)
		_, err := ev.GetQuizForCandidate(testUser, testCourse)
		assert.ErrorIs(t, err, ErrCourseIncomplete)
	})

	t.Run("no quiz for course", func(t *testing.T) {
		ev := New(
			&fakeEnrollments{enrolled: map[userCourse]bool{{testUser, testCourse}: true}},
			&fakeProgress{completed: map[userCourse]bool{{testUser, testCourse}: true}},
			&fakeQuizzes{},
			&fakeAttempts{},
		)
		_, err := ev.GetQuizForCandidate(testUser, testCourse)
		assert.ErrorIs(t, err, ErrNoQuizForCourse)
	})
}

func TestListAttemptsNoEligibilityCheck(t *testing.T) {
	quiz := singleAnswerQuiz(70)
	attempts := &fakeAttempts{}
	attempts.inserted = append(attempts.inserted, &courseModels.QuizAttempt{
		UserID: testUser, QuizID: testQuiz, Score: 75, Passed: true,
	})

	// No enrollment, no completion: history stays readable
	ev := New(
		&fakeEnrollments{enrolled: map[userCourse]bool{}},
		&fakeProgress{completed: map[userCourse]bool{}},
		&fakeQuizzes{quizzes: []*courseModels.Quiz{quiz}},
		attempts,
	)

	got, err := ev.ListAttempts(testUser, testQuiz)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStorageErrorsPropagate(t *testing.T) {
	quiz := singleAnswerQuiz(70)
	storeErr := errors.New("connection reset")

	ev := New(
		&fakeEnrollments{err: storeErr},
		&fakeProgress{},
		&fakeQuizzes{quizzes: []*courseModels.Quiz{quiz}},
		&fakeAttempts{},
	)

	_, err := ev.SubmitAttempt(testUser, testQuiz, []AnswerSubmission{answer(1, 0)})
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrNotEnrolled)
}
