package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Question is the canonical in-memory representation of a multiple-choice
// question. CorrectIndex is always 0-based and must index into Options;
// wire-format variants (option ids, is_correct flags, 1-based answers) are
// reconciled in the dto package before a Question is ever constructed.
type Question struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct"`
}

func (q Question) Validate() error {
	if q.Text == "" {
		return errors.New("question text is required")
	}
	if len(q.Options) < 2 {
		return errors.New("question needs at least 2 options")
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("correct index %d out of range for %d options", q.CorrectIndex, len(q.Options))
	}
	return nil
}

type QuestionList []Question

func (l QuestionList) Value() (driver.Value, error) {
	if l == nil {
		l = QuestionList{}
	}
	return json.Marshal(l)
}

func (l *QuestionList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = QuestionList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into QuestionList", src)
	}
}

type TestSet struct {
	ID          uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Difficulty  string       `gorm:"size:10;not null;default:'medium'" json:"difficulty"`
	Questions   QuestionList `gorm:"type:jsonb" json:"questions"`

	IsPrivate bool       `gorm:"default:false" json:"is_private"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`

	AssignedUsers []*User  `gorm:"many2many:test_set_assignees;" json:"-"`
	AllowedGroups []*Group `gorm:"many2many:test_set_groups;" json:"-"`

	CreatedByID uuid.UUID `gorm:"not null" json:"created_by"`
	CreatedBy   User      `gorm:"foreignkey:CreatedByID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OpenAt reports whether the set's time window (if any) contains t.
func (s TestSet) OpenAt(t time.Time) bool {
	if s.StartTime != nil && t.Before(*s.StartTime) {
		return false
	}
	if s.EndTime != nil && t.After(*s.EndTime) {
		return false
	}
	return true
}
