package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Username  string    `gorm:"size:150;not null;unique" json:"username"`
	Email     string    `gorm:"size:255;not null;unique" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	Role      string    `gorm:"size:20;not null;default:'student'" json:"role"`

	AvatarURL *string    `gorm:"size:255" json:"avatar,omitempty"`
	Bio       *string    `gorm:"type:text" json:"bio,omitempty"`
	Rank      int        `gorm:"not null;default:1" json:"rank"`
	GroupID   *uuid.UUID `json:"group_id"`
	Group     *Group     `gorm:"foreignkey:GroupID" json:"group,omitempty"`

	IsActive bool `gorm:"default:true" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
