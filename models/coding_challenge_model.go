package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TestCase pairs stdin with the output a correct program must print.
// An empty ExpectedOutput marks a free-form "run" case that is never graded.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

type TestCaseList []TestCase

func (l TestCaseList) Value() (driver.Value, error) {
	if l == nil {
		l = TestCaseList{}
	}
	return json.Marshal(l)
}

func (l *TestCaseList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = TestCaseList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into TestCaseList", src)
	}
}

type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

type CodingChallenge struct {
	ID          uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Difficulty  string       `gorm:"size:10;not null;default:'medium'" json:"difficulty"`
	Languages   StringList   `gorm:"type:jsonb" json:"languages"`
	TestCases   TestCaseList `gorm:"type:jsonb" json:"test_cases"`

	Autocheck     bool    `gorm:"default:true" json:"autocheck"`
	MaxScore      int     `gorm:"not null;default:100" json:"max_score"`
	TimeLimit     float64 `gorm:"not null;default:1.0" json:"time_limit"`
	MemoryLimitMB int     `gorm:"not null;default:256" json:"memory_limit"`

	IsPrivate     bool     `gorm:"default:false" json:"is_private"`
	AssignedUsers []*User  `gorm:"many2many:challenge_assignees;" json:"-"`
	AllowedGroups []*Group `gorm:"many2many:challenge_groups_allowed;" json:"-"`

	CreatedByID uuid.UUID `gorm:"not null" json:"created_by"`
	CreatedBy   User      `gorm:"foreignkey:CreatedByID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
