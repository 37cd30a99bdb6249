package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChallengeGroup ("block") bundles coding challenges under a shared
// visibility and time window.
type ChallengeGroup struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`

	Challenges []*CodingChallenge `gorm:"many2many:challenge_group_items;" json:"challenges,omitempty"`

	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	IsPrivate bool       `gorm:"default:true" json:"is_private"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`

	AssignedUsers []*User  `gorm:"many2many:challenge_group_assignees;" json:"-"`
	AllowedGroups []*Group `gorm:"many2many:challenge_group_groups;" json:"-"`

	CreatedByID uuid.UUID `gorm:"not null" json:"created_by"`
	CreatedBy   User      `gorm:"foreignkey:CreatedByID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApplyGroupRules inherits privacy and audience from the block to the given
// challenges (all attached challenges when none are passed). Grouped
// challenges always become private; the block's audience is merged into each
// challenge's own.
func (g *ChallengeGroup) ApplyGroupRules(tx *gorm.DB, challenges ...*CodingChallenge) error {
	targets := challenges
	if len(targets) == 0 {
		if err := tx.Model(g).Association("Challenges").Find(&targets); err != nil {
			return err
		}
	}

	var users []*User
	if err := tx.Model(g).Association("AssignedUsers").Find(&users); err != nil {
		return err
	}
	var groups []*Group
	if err := tx.Model(g).Association("AllowedGroups").Find(&groups); err != nil {
		return err
	}

	for _, ch := range targets {
		if err := tx.Model(ch).Update("is_private", true).Error; err != nil {
			return err
		}
		if len(users) > 0 {
			if err := tx.Model(ch).Association("AssignedUsers").Append(users); err != nil {
				return err
			}
		}
		if len(groups) > 0 {
			if err := tx.Model(ch).Association("AllowedGroups").Append(groups); err != nil {
				return err
			}
		}
	}
	return nil
}
