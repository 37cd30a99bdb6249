package models

import "github.com/google/uuid"

// Group is a study group used to scope private tests and challenges.
type Group struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"size:100;not null;unique" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
}
