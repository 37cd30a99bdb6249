package handlers

import (
	"encoding/json"

	"github.com/akramjonkamolov673/cyberarena/database"
	"github.com/akramjonkamolov673/cyberarena/models"
	"github.com/akramjonkamolov673/cyberarena/services"
	"github.com/akramjonkamolov673/cyberarena/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var codeRunner = services.NewRunner()

type ChallengeRequest struct {
	Title         string          `json:"title" validate:"required"`
	Description   string          `json:"description"`
	Difficulty    string          `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Languages     []string        `json:"languages"`
	TestCases     json.RawMessage `json:"test_cases"`
	Autocheck     *bool           `json:"autocheck"`
	MaxScore      int             `json:"max_score"`
	TimeLimit     float64         `json:"time_limit"`
	MemoryLimitMB int             `json:"memory_limit"`
	IsPrivate     bool            `json:"is_private"`
	AssignedUsers []string        `json:"assigned_users"`
	AllowedGroups []string        `json:"allowed_groups"`
	GroupID       *string         `json:"challenge_group_id"`
}

// visibleChallenges scopes a query to challenges the user may attempt: public
// ones, own ones, directly assigned, the user's class group, or membership in
// an active block the user can see.
func visibleChallenges(userID uuid.UUID) *gorm.DB {
	var user models.User
	database.DB.Select("group_id").First(&user, "id = ?", userID)

	clause := `is_private = false
		OR created_by_id = @uid
		OR id IN (SELECT coding_challenge_id FROM challenge_assignees WHERE user_id = @uid)
		OR id IN (
			SELECT cgi.coding_challenge_id FROM challenge_group_items cgi
			JOIN challenge_groups cg ON cg.id = cgi.challenge_group_id
			WHERE cg.is_active = true AND (
				cg.is_private = false
				OR cg.created_by_id = @uid
				OR cg.id IN (SELECT challenge_group_id FROM challenge_group_assignees WHERE user_id = @uid)`
	params := map[string]interface{}{"uid": userID}
	if user.GroupID != nil {
		clause += `
				OR cg.id IN (SELECT challenge_group_id FROM challenge_group_groups WHERE group_id = @gid)`
		params["gid"] = *user.GroupID
	}
	clause += `
			)
		)`
	if user.GroupID != nil {
		clause += `
		OR id IN (SELECT coding_challenge_id FROM challenge_groups_allowed WHERE group_id = @gid)`
	}
	return database.DB.Model(&models.CodingChallenge{}).Where(clause, params)
}

func applyChallengeAudience(tx *gorm.DB, ch *models.CodingChallenge, userIDs, groupIDs []string) error {
	if userIDs != nil {
		var users []*models.User
		if err := tx.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return err
		}
		if err := tx.Model(ch).Association("AssignedUsers").Replace(users); err != nil {
			return err
		}
	}
	if groupIDs != nil {
		var groups []*models.Group
		if err := tx.Where("id IN ?", groupIDs).Find(&groups).Error; err != nil {
			return err
		}
		if err := tx.Model(ch).Association("AllowedGroups").Replace(groups); err != nil {
			return err
		}
	}
	return nil
}

func challengeResponse(ch models.CodingChallenge, viewerID uuid.UUID, role string) fiber.Map {
	out := fiber.Map{
		"id":           ch.ID,
		"title":        ch.Title,
		"description":  ch.Description,
		"difficulty":   ch.Difficulty,
		"languages":    ch.Languages,
		"autocheck":    ch.Autocheck,
		"max_score":    ch.MaxScore,
		"time_limit":   ch.TimeLimit,
		"memory_limit": ch.MemoryLimitMB,
		"is_private":   ch.IsPrivate,
		"created_by":   ch.CreatedByID,
		"created_at":   ch.CreatedAt,
	}
	if role == models.RoleTeacher && ch.CreatedByID == viewerID {
		out["test_cases"] = ch.TestCases
	} else {
		// Students only see the sample case so they can try their program.
		sample := []models.TestCase{}
		if len(ch.TestCases) > 0 {
			sample = append(sample, ch.TestCases[0])
		}
		out["test_cases"] = sample
	}
	return out
}

func CreateChallenge(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var req ChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	cases, err := utils.ParseTestCases(string(req.TestCases))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ch := models.CodingChallenge{
		Title:       req.Title,
		Description: req.Description,
		Difficulty:  req.Difficulty,
		Languages:   req.Languages,
		TestCases:   cases,
		Autocheck:   true,
		MaxScore:    req.MaxScore,
		TimeLimit:   req.TimeLimit,
		IsPrivate:   req.IsPrivate,
		CreatedByID: userID,
	}
	if ch.Difficulty == "" {
		ch.Difficulty = models.DifficultyMedium
	}
	if req.Autocheck != nil {
		ch.Autocheck = *req.Autocheck
	}
	if ch.MaxScore == 0 {
		ch.MaxScore = 100
	}
	if ch.TimeLimit == 0 {
		ch.TimeLimit = 1.0
	}
	ch.MemoryLimitMB = req.MemoryLimitMB
	if ch.MemoryLimitMB == 0 {
		ch.MemoryLimitMB = 256
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ch).Error; err != nil {
			return err
		}
		if err := applyChallengeAudience(tx, &ch, req.AssignedUsers, req.AllowedGroups); err != nil {
			return err
		}
		if req.GroupID != nil && *req.GroupID != "" {
			var block models.ChallengeGroup
			if err := tx.First(&block, "id = ?", *req.GroupID).Error; err != nil {
				return err
			}
			if err := tx.Model(&block).Association("Challenges").Append(&ch); err != nil {
				return err
			}
			return block.ApplyGroupRules(tx, &ch)
		}
		return nil
	})
	if txErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create challenge"})
	}

	return c.Status(fiber.StatusCreated).JSON(challengeResponse(ch, userID, models.RoleTeacher))
}

func ListChallenges(c *fiber.Ctx) error {
	userID, role := currentUser(c)

	var challenges []models.CodingChallenge
	if err := visibleChallenges(userID).Order("created_at desc").Find(&challenges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch challenges"})
	}

	out := make([]fiber.Map, len(challenges))
	for i, ch := range challenges {
		out[i] = challengeResponse(ch, userID, role)
	}
	return c.JSON(out)
}

func GetChallenge(c *fiber.Ctx) error {
	userID, role := currentUser(c)

	var ch models.CodingChallenge
	if err := visibleChallenges(userID).First(&ch, "coding_challenges.id = ?", c.Params("challengeId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Challenge not found"})
	}
	return c.JSON(challengeResponse(ch, userID, role))
}

func requireOwnChallenge(c *fiber.Ctx, id string) (*models.CodingChallenge, error) {
	userID, _ := currentUser(c)
	var ch models.CodingChallenge
	if err := database.DB.First(&ch, "id = ?", id).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Challenge not found"})
	}
	if ch.CreatedByID != userID {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the creator can modify this challenge"})
	}
	return &ch, nil
}

func UpdateChallenge(c *fiber.Ctx) error {
	ch, err := requireOwnChallenge(c, c.Params("challengeId"))
	if ch == nil {
		return err
	}
	userID, _ := currentUser(c)

	var req ChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.Title != "" {
		ch.Title = req.Title
	}
	if req.Description != "" {
		ch.Description = req.Description
	}
	if req.Difficulty != "" {
		ch.Difficulty = req.Difficulty
	}
	if req.Languages != nil {
		ch.Languages = req.Languages
	}
	if len(req.TestCases) > 0 {
		cases, err := utils.ParseTestCases(string(req.TestCases))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		ch.TestCases = cases
	}
	if req.Autocheck != nil {
		ch.Autocheck = *req.Autocheck
	}
	if req.MaxScore > 0 {
		ch.MaxScore = req.MaxScore
	}
	if req.TimeLimit > 0 {
		ch.TimeLimit = req.TimeLimit
	}
	if req.MemoryLimitMB > 0 {
		ch.MemoryLimitMB = req.MemoryLimitMB
	}
	ch.IsPrivate = req.IsPrivate

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(ch).Error; err != nil {
			return err
		}
		return applyChallengeAudience(tx, ch, req.AssignedUsers, req.AllowedGroups)
	})
	if txErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update challenge"})
	}

	return c.JSON(challengeResponse(*ch, userID, models.RoleTeacher))
}

func DeleteChallenge(c *fiber.Ctx) error {
	ch, err := requireOwnChallenge(c, c.Params("challengeId"))
	if ch == nil {
		return err
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(ch).Association("AssignedUsers").Clear(); err != nil {
			return err
		}
		if err := tx.Model(ch).Association("AllowedGroups").Clear(); err != nil {
			return err
		}
		return tx.Delete(ch).Error
	})
	if txErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete challenge"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type RunCodeRequest struct {
	Language string `json:"language" validate:"required"`
	Source   string `json:"source" validate:"required"`
	Stdin    string `json:"stdin"`
}

// RunChallengeCode executes a single ungraded run against user-supplied stdin.
func RunChallengeCode(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var ch models.CodingChallenge
	if err := visibleChallenges(userID).First(&ch, "coding_challenges.id = ?", c.Params("challengeId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Challenge not found"})
	}

	var req RunCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result := codeRunner.Execute(c.Context(), req.Language, services.FileNameFor(req.Language), req.Source, req.Stdin)
	return c.JSON(fiber.Map{
		"stdout": result.Stdout,
		"stderr": result.Stderr,
	})
}
