package handlers

import (
	"errors"
	"time"

	"github.com/akramjonkamolov673/cyberarena/database"
	"github.com/akramjonkamolov673/cyberarena/dto"
	"github.com/akramjonkamolov673/cyberarena/models"
	"github.com/akramjonkamolov673/cyberarena/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TestSubmissionRequest struct {
	TestSetID        string           `json:"test" validate:"required"`
	Answers          []dto.AnswerWire `json:"answers"`
	IndexBase        *int             `json:"index_base" validate:"omitempty,oneof=0 1"`
	TimeSpentSeconds int              `json:"time_spent"`
}

func testSubmissionResponse(sub models.TestSubmission) fiber.Map {
	return fiber.Map{
		"id":            sub.ID,
		"test":          sub.TestSetID,
		"user":          sub.UserID,
		"answers":       dto.AnswersToWire(sub.Answers, dto.ZeroBased),
		"correct_count": sub.CorrectCount,
		"wrong_count":   sub.WrongCount,
		"score":         sub.Score,
		"time_spent":    sub.TimeSpentSeconds,
		"submitted_at":  sub.SubmittedAt,
	}
}

// CreateTestSubmission grades and stores a student's answer sheet. A set can
// be submitted once; a second attempt is rejected, not replaced.
func CreateTestSubmission(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var req TestSubmissionRequest
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

	var existing models.TestSubmission
	err := database.DB.First(&existing, "test_set_id = ? AND user_id = ?", set.ID, userID).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Test already submitted"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check submission"})
	}

	base := dto.ZeroBased
	if req.IndexBase != nil && *req.IndexBase == 1 {
		base = dto.OneBased
	}
	answers, convErr := dto.AnswersFromWire(req.Answers, base, set.Questions)
	if convErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": convErr.Error()})
	}

	correct, wrong, score := services.EvaluateTestSubmission(set, answers)

	sub := models.TestSubmission{
		TestSetID:        set.ID,
		UserID:           userID,
		Answers:          answers,
		CorrectCount:     correct,
		WrongCount:       wrong,
		Score:            score,
		TimeSpentSeconds: req.TimeSpentSeconds,
		SubmittedAt:      time.Now(),
	}
	if err := database.DB.Create(&sub).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save submission"})
	}

	return c.Status(fiber.StatusCreated).JSON(testSubmissionResponse(sub))
}

// ListTestSubmissions returns the caller's own sheets; teachers see sheets
// for their own test sets, optionally filtered by set.
func ListTestSubmissions(c *fiber.Ctx) error {
	userID, role := currentUser(c)

	q := database.DB.Model(&models.TestSubmission{})
	if role == models.RoleTeacher {
		q = q.Where("test_set_id IN (SELECT id FROM test_sets WHERE created_by_id = ?)", userID)
		if setID := c.Query("test"); setID != "" {
			q = q.Where("test_set_id = ?", setID)
		}
	} else {
		q = q.Where("user_id = ?", userID)
	}

	var subs []models.TestSubmission
	if err := q.Order("submitted_at desc").Find(&subs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch submissions"})
	}

	out := make([]fiber.Map, len(subs))
	for i, sub := range subs {
		out[i] = testSubmissionResponse(sub)
	}
	return c.JSON(out)
}

func GetTestSubmission(c *fiber.Ctx) error {
	userID, role := currentUser(c)

	var sub models.TestSubmission
	if err := database.DB.Preload("TestSet").First(&sub, "id = ?", c.Params("submissionId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Submission not found"})
	}
	if sub.UserID != userID && !(role == models.RoleTeacher && sub.TestSet.CreatedByID == userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your submission"})
	}
	return c.JSON(testSubmissionResponse(sub))
}
