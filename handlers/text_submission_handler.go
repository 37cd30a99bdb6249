package handlers

import (
	"time"

	"github.com/akramjonkamolov673/cyberarena/database"
	"github.com/akramjonkamolov673/cyberarena/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

type TextSubmissionRequest struct {
	TestSetID        string `json:"test" validate:"required"`
	QuestionIndex    *int   `json:"question_index" validate:"required,min=0"`
	Answer           string `json:"answer" validate:"required"`
	TimeSpentSeconds int    `json:"time_spent"`
}

func textSubmissionResponse(sub models.TextSubmission) fiber.Map {
	return fiber.Map{
		"id":             sub.ID,
		"test":           sub.TestSetID,
		"question_index": sub.QuestionIndex,
		"user":           sub.UserID,
		"answer":         sub.Answer,
		"time_spent":     sub.TimeSpentSeconds,
		"submitted_at":   sub.SubmittedAt,
	}
}

// CreateTextSubmission stores a written answer to one question of a test
// set. Written answers are graded by a teacher, so re-submitting before the
// set closes replaces the stored text instead of conflicting.
func CreateTextSubmission(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var req TextSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var set models.TestSet
	if err := visibleTestSets(userID).First(&set, "test_sets.id = ?", req.TestSetID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Test set not found"})
	}
	if !set.OpenAt(time.Now()) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Test is not open"})
	}
	if *req.QuestionIndex >= len(set.Questions) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Question index out of range"})
	}

	sub := models.TextSubmission{
		TestSetID:        set.ID,
		QuestionIndex:    *req.QuestionIndex,
		UserID:           userID,
		Answer:           req.Answer,
		TimeSpentSeconds: req.TimeSpentSeconds,
		SubmittedAt:      time.Now(),
	}

	err := database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "test_set_id"}, {Name: "question_index"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"answer", "time_spent_seconds", "submitted_at",
		}),
	}).Create(&sub).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save submission"})
	}

	database.DB.First(&sub, "test_set_id = ? AND question_index = ? AND user_id = ?", set.ID, sub.QuestionIndex, userID)
	return c.Status(fiber.StatusCreated).JSON(textSubmissionResponse(sub))
}

// ListTextSubmissions returns the caller's own written answers; teachers see
// answers for their own test sets, optionally filtered by set.
func ListTextSubmissions(c *fiber.Ctx) error {
	userID, role := currentUser(c)

	q := database.DB.Model(&models.TextSubmission{})
	if role == models.RoleTeacher {
		q = q.Where("test_set_id IN (SELECT id FROM test_sets WHERE created_by_id = ?)", userID)
		if setID := c.Query("test"); setID != "" {
			q = q.Where("test_set_id = ?", setID)
		}
	} else {
		q = q.Where("user_id = ?", userID)
	}

	var subs []models.TextSubmission
	if err := q.Order("submitted_at desc").Find(&subs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch submissions"})
	}

	out := make([]fiber.Map, len(subs))
	for i, sub := range subs {
		out[i] = textSubmissionResponse(sub)
	}
	return c.JSON(out)
}
