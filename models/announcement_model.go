package models

import (
	"time"

	"github.com/google/uuid"
)

type Announcement struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title   string    `gorm:"size:255;not null" json:"title"`
	Content string    `gorm:"type:text;not null" json:"content"`

	CreatedByID uuid.UUID `gorm:"not null" json:"created_by"`
	CreatedBy   User      `gorm:"foreignkey:CreatedByID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
