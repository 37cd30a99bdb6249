package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Answer records the selected option for one question of a test set.
// Selected is 0-based; legacy 1-based wire payloads are converted in dto
// before an Answer is built.
type Answer struct {
	QuestionIndex int `json:"question_index"`
	Selected      int `json:"selected"`
}

type AnswerList []Answer

func (l AnswerList) Value() (driver.Value, error) {
	if l == nil {
		l = AnswerList{}
	}
	return json.Marshal(l)
}

func (l *AnswerList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = AnswerList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into AnswerList", src)
	}
}

// TestSubmission is a student's one-shot answer sheet for a test set.
type TestSubmission struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TestSetID uuid.UUID `gorm:"not null;uniqueIndex:idx_test_submission_user_test" json:"test"`
	UserID    uuid.UUID `gorm:"not null;uniqueIndex:idx_test_submission_user_test" json:"user"`

	Answers      AnswerList `gorm:"type:jsonb" json:"answers"`
	CorrectCount int        `gorm:"default:0" json:"correct_count"`
	WrongCount   int        `gorm:"default:0" json:"wrong_count"`
	Score        float64    `gorm:"default:0" json:"score"`

	TimeSpentSeconds int       `gorm:"default:0" json:"time_spent"`
	SubmittedAt      time.Time `gorm:"not null" json:"submitted_at"`

	TestSet TestSet `gorm:"foreignkey:TestSetID" json:"-"`
	User    User    `gorm:"foreignkey:UserID" json:"-"`
}
