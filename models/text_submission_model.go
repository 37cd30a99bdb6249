package models

import (
	"time"

	"github.com/google/uuid"
)

// TextSubmission is a free-form written answer to one question of a test
// set. Unlike answer sheets, re-submitting replaces the stored text.
type TextSubmission struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TestSetID     uuid.UUID `gorm:"not null;uniqueIndex:idx_text_submission_user_question" json:"test"`
	QuestionIndex int       `gorm:"not null;uniqueIndex:idx_text_submission_user_question" json:"question_index"`
	UserID        uuid.UUID `gorm:"not null;uniqueIndex:idx_text_submission_user_question" json:"user"`

	Answer string `gorm:"type:text;not null" json:"answer"`

	TimeSpentSeconds int       `gorm:"default:0" json:"time_spent"`
	SubmittedAt      time.Time `gorm:"not null" json:"submitted_at"`

	TestSet TestSet `gorm:"foreignkey:TestSetID" json:"-"`
	User    User    `gorm:"foreignkey:UserID" json:"-"`
}
