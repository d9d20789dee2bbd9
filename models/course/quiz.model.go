package course

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// IntArray stores an int slice as a JSON text column so the selected option
// indices of an answer survive round-trips on both postgres and sqlite.
type IntArray []int

// Scan implements sql.Scanner for IntArray
func (a *IntArray) Scan(value interface{}) error {
	if value == nil {
		*a = IntArray{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return errors.New("failed to scan IntArray value")
}

// Value implements driver.Valuer for IntArray
func (a IntArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Quiz is the course-level quiz definition. Each course has at most one quiz;
// its CourseID never changes after creation.
type Quiz struct {
	gorm.Model
	CourseID     uint           `json:"course_id" gorm:"index;not null"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	PassingScore int            `json:"passing_score" gorm:"default:70"` // percentage 0-100
	Questions    []QuizQuestion `json:"questions" gorm:"foreignKey:QuizID"`
	IsDeleted    bool           `gorm:"default:false"`
}

// QuizQuestion is one question within a quiz, with its ordered options
type QuizQuestion struct {
	gorm.Model
	QuizID       uint         `json:"quiz_id" gorm:"index;not null"`
	QuestionText string       `json:"question_text" gorm:"type:text"`
	Explanation  string       `json:"explanation" gorm:"type:text"`
	OrderIndex   int          `json:"order_index" gorm:"default:0"`
	Options      []QuizOption `json:"options" gorm:"foreignKey:QuestionID"`
}

// QuizOption is one answer option. Grading identifies options by their
// OrderIndex within the question, not by row id, so the wire payload can use
// plain positional indices.
type QuizOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
}

// QuizAttempt is one graded submission. Attempts are append-only: nothing in
// the codebase updates or deletes them, and PassingScore is copied from the
// quiz at submission time so later quiz edits cannot change history.
type QuizAttempt struct {
	gorm.Model
	PublicID       string       `json:"public_id" gorm:"size:36;uniqueIndex"`
	UserID         uint         `json:"user_id" gorm:"index;not null"`
	CourseID       uint         `json:"course_id" gorm:"index;not null"`
	QuizID         uint         `json:"quiz_id" gorm:"index;not null"`
	Score          float64      `json:"score"`
	Passed         bool         `json:"passed"`
	PassingScore   int          `json:"passing_score"`
	CorrectCount   int          `json:"correct_count"`
	TotalQuestions int          `json:"total_questions"`
	CompletedAt    time.Time    `json:"completed_at" gorm:"index"`
	Answers        []QuizAnswer `json:"answers" gorm:"foreignKey:AttemptID"`
}

// QuizAnswer is the graded record of one answer within an attempt
type QuizAnswer struct {
	gorm.Model
	AttemptID             uint     `json:"attempt_id" gorm:"index;not null"`
	QuestionID            uint     `json:"question_id"`
	SelectedOptionIndices IntArray `json:"selected_option_indices" gorm:"type:text"`
	IsCorrect             bool     `json:"is_correct"`
}
