package handlers

import (
	"time"

	"github.com/akramjonkamolov673/cyberarena/database"
	"github.com/akramjonkamolov673/cyberarena/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChallengeGroupRequest struct {
	Title         string     `json:"title" validate:"required"`
	Description   *string    `json:"description"`
	Challenges    []string   `json:"challenges"`
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	IsPrivate     *bool      `json:"is_private"`
	IsActive      *bool      `json:"is_active"`
	AssignedUsers []string   `json:"assigned_users"`
	AllowedGroups []string   `json:"allowed_groups"`
}

func visibleChallengeGroups(userID uuid.UUID) *gorm.DB {
	var user models.User
	database.DB.Select("group_id").First(&user, "id = ?", userID)

	clause := `is_active = true AND (
		is_private = false
		OR created_by_id = @uid
		OR id IN (SELECT challenge_group_id FROM challenge_group_assignees WHERE user_id = @uid)`
	params := map[string]interface{}{"uid": userID}
	if user.GroupID != nil {
		clause += `
		OR id IN (SELECT challenge_group_id FROM challenge_group_groups WHERE group_id = @gid)`
		params["gid"] = *user.GroupID
	}
	clause += `
	)`
	return database.DB.Model(&models.ChallengeGroup{}).Where(clause, params)
}

func blockResponse(block models.ChallengeGroup) fiber.Map {
	challengeIDs := make([]uuid.UUID, len(block.Challenges))
	for i, ch := range block.Challenges {
		challengeIDs[i] = ch.ID
	}
	return fiber.Map{
		"id":          block.ID,
		"title":       block.Title,
		"description": block.Description,
		"challenges":  challengeIDs,
		"start_time":  block.StartTime,
		"end_time":    block.EndTime,
		"is_private":  block.IsPrivate,
		"is_active":   block.IsActive,
		"created_by":  block.CreatedByID,
		"created_at":  block.CreatedAt,
	}
}

func applyBlockAudience(tx *gorm.DB, block *models.ChallengeGroup, req ChallengeGroupRequest) error {
	if req.AssignedUsers != nil {
		var users []*models.User
		if err := tx.Where("id IN ?", req.AssignedUsers).Find(&users).Error; err != nil {
			return err
		}
		if err := tx.Model(block).Association("AssignedUsers").Replace(users); err != nil {
			return err
		}
	}
	if req.AllowedGroups != nil {
		var groups []*models.Group
		if err := tx.Where("id IN ?", req.AllowedGroups).Find(&groups).Error; err != nil {
			return err
		}
		if err := tx.Model(block).Association("AllowedGroups").Replace(groups); err != nil {
			return err
		}
	}
	if req.Challenges != nil {
		var challenges []*models.CodingChallenge
		if err := tx.Where("id IN ?", req.Challenges).Find(&challenges).Error; err != nil {
			return err
		}
		if err := tx.Model(block).Association("Challenges").Replace(challenges); err != nil {
			return err
		}
	}
	return nil
}

func CreateChallengeGroup(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var req ChallengeGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	block := models.ChallengeGroup{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsPrivate:   true,
		IsActive:    true,
		CreatedByID: userID,
	}
	if req.IsPrivate != nil {
		block.IsPrivate = *req.IsPrivate
	}
	if req.IsActive != nil {
		block.IsActive = *req.IsActive
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&block).Error; err != nil {
			return err
		}
		if err := applyBlockAudience(tx, &block, req); err != nil {
			return err
		}
		return block.ApplyGroupRules(tx)
	})
	if txErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create block"})
	}

	database.DB.Preload("Challenges").First(&block, "id = ?", block.ID)
	return c.Status(fiber.StatusCreated).JSON(blockResponse(block))
}

func ListChallengeGroups(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var blocks []models.ChallengeGroup
	if err := visibleChallengeGroups(userID).Preload("Challenges").Order("created_at desc").Find(&blocks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch blocks"})
	}

	out := make([]fiber.Map, len(blocks))
	for i, block := range blocks {
		out[i] = blockResponse(block)
	}
	return c.JSON(out)
}

func GetChallengeGroup(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var block models.ChallengeGroup
	if err := visibleChallengeGroups(userID).Preload("Challenges").First(&block, "challenge_groups.id = ?", c.Params("blockId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Block not found"})
	}
	return c.JSON(blockResponse(block))
}

func requireOwnBlock(c *fiber.Ctx, id string) (*models.ChallengeGroup, error) {
	userID, _ := currentUser(c)
	var block models.ChallengeGroup
	if err := database.DB.First(&block, "id = ?", id).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Block not found"})
	}
	if block.CreatedByID != userID {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the creator can modify this block"})
	}
	return &block, nil
}

func UpdateChallengeGroup(c *fiber.Ctx) error {
	block, err := requireOwnBlock(c, c.Params("blockId"))
	if block == nil {
		return err
	}

	var req ChallengeGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.Title != "" {
		block.Title = req.Title
	}
	if req.Description != nil {
		block.Description = req.Description
	}
	if req.StartTime != nil {
		block.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		block.EndTime = req.EndTime
	}
	if req.IsPrivate != nil {
		block.IsPrivate = *req.IsPrivate
	}
	if req.IsActive != nil {
		block.IsActive = *req.IsActive
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(block).Error; err != nil {
			return err
		}
		if err := applyBlockAudience(tx, block, req); err != nil {
			return err
		}
		return block.ApplyGroupRules(tx)
	})
	if txErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update block"})
	}

	database.DB.Preload("Challenges").First(block, "id = ?", block.ID)
	return c.JSON(blockResponse(*block))
}

func DeleteChallengeGroup(c *fiber.Ctx) error {
	block, err := requireOwnBlock(c, c.Params("blockId"))
	if block == nil {
		return err
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(block).Association("Challenges").Clear(); err != nil {
			return err
		}
		if err := tx.Model(block).Association("AssignedUsers").Clear(); err != nil {
			return err
		}
		if err := tx.Model(block).Association("AllowedGroups").Clear(); err != nil {
			return err
		}
		return tx.Delete(block).Error
	})
	if txErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete block"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
