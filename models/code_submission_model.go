package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	SubmissionStatusChecking          = "checking"
	SubmissionStatusAccepted          = "accepted"
	SubmissionStatusPartiallyAccepted = "partially_accepted"
	SubmissionStatusRejected          = "rejected"
)

// StatusForScore derives the review status from a 0-100 score.
func StatusForScore(score float64) string {
	switch {
	case score >= 100:
		return SubmissionStatusAccepted
	case score > 0:
		return SubmissionStatusPartiallyAccepted
	default:
		return SubmissionStatusRejected
	}
}

// TestResult is one executed test case of a code submission.
type TestResult struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	ActualOutput   string `json:"actual_output"`
	Passed         bool   `json:"passed"`
	ExecutionMS    int64  `json:"execution_ms"`
	Error          string `json:"error,omitempty"`
}

type TestResultList []TestResult

func (l TestResultList) Value() (driver.Value, error) {
	if l == nil {
		l = TestResultList{}
	}
	return json.Marshal(l)
}

func (l *TestResultList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = TestResultList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into TestResultList", src)
	}
}

// CodeSubmission keeps one row per (user, challenge); re-submitting replaces
// the stored results.
type CodeSubmission struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ChallengeID uuid.UUID `gorm:"not null;uniqueIndex:idx_code_submission_user_challenge" json:"challenge"`
	UserID      uuid.UUID `gorm:"not null;uniqueIndex:idx_code_submission_user_challenge" json:"user"`

	Language    string         `gorm:"size:32;not null" json:"language"`
	Source      string         `gorm:"type:text;not null" json:"source"`
	TestResults TestResultList `gorm:"type:jsonb" json:"test_results"`

	Score       float64 `gorm:"default:0" json:"score"`
	PassedCount int     `gorm:"default:0" json:"passed_count"`
	TotalTests  int     `gorm:"default:0" json:"total_tests"`
	Status      string  `gorm:"size:20;not null;default:'checking'" json:"status"`
	Feedback    *string `gorm:"type:text" json:"feedback"`

	TimeSpentSeconds int       `gorm:"default:0" json:"time_spent"`
	SubmittedAt      time.Time `gorm:"not null" json:"submitted_at"`

	Challenge CodingChallenge `gorm:"foreignkey:ChallengeID" json:"-"`
	User      User            `gorm:"foreignkey:UserID" json:"-"`
}
