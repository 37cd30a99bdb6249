package handlers

import (
	"github.com/akramjonkamolov673/cyberarena/database"
	"github.com/akramjonkamolov673/cyberarena/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// profileResponse mirrors the profile shape clients rely on for role
// derivation: role always comes from the stored user, never from anything
// the client cached.
func profileResponse(user models.User) fiber.Map {
	var groupID *uuid.UUID
	if user.GroupID != nil {
		groupID = user.GroupID
	}
	return fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"profile": fiber.Map{
			"avatar":    user.AvatarURL,
			"group":     groupID,
			"rank":      user.Rank,
			"role":      user.Role,
			"bio":       user.Bio,
			"joined_at": user.CreatedAt,
		},
	}
}

func GetProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var user models.User
	if err := database.DB.Preload("Group").First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(profileResponse(user))
}

type UpdateProfileRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	GroupID   *string `json:"group_id,omitempty"`
}

// UpdateProfile mutates the caller's own account. Role is deliberately not
// accepted here; it can only change server-side.
func UpdateProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Avatar != nil {
		user.AvatarURL = req.Avatar
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.GroupID != nil {
		if *req.GroupID == "" {
			user.GroupID = nil
		} else {
			var group models.Group
			if err := database.DB.First(&group, "id = ?", *req.GroupID).Error; err == nil {
				user.GroupID = &group.ID
			}
		}
	}

	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}
	return c.JSON(profileResponse(user))
}

func ListGroups(c *fiber.Ctx) error {
	var groups []models.Group
	database.DB.Order("name asc").Find(&groups)
	return c.JSON(groups)
}
