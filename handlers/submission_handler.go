package handlers

import (
	"time"

	"github.com/akramjonkamolov673/cyberarena/database"
	"github.com/akramjonkamolov673/cyberarena/models"
	"github.com/akramjonkamolov673/cyberarena/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

type CodeSubmissionRequest struct {
	ChallengeID      string `json:"challenge" validate:"required"`
	Language         string `json:"language" validate:"required"`
	Source           string `json:"source" validate:"required"`
	TimeSpentSeconds int    `json:"time_spent"`
}

func codeSubmissionResponse(sub models.CodeSubmission) fiber.Map {
	return fiber.Map{
		"id":           sub.ID,
		"challenge":    sub.ChallengeID,
		"user":         sub.UserID,
		"language":     sub.Language,
		"source":       sub.Source,
		"test_results": sub.TestResults,
		"score":        sub.Score,
		"passed_count": sub.PassedCount,
		"total_tests":  sub.TotalTests,
		"status":       sub.Status,
		"feedback":     sub.Feedback,
		"time_spent":   sub.TimeSpentSeconds,
		"submitted_at": sub.SubmittedAt,
	}
}

// CreateCodeSubmission stores one submission per (user, challenge),
// replacing any earlier one. When the challenge has autocheck enabled the
// code runs against every test case before the row is written.
func CreateCodeSubmission(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var req CodeSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var ch models.CodingChallenge
	if err := visibleChallenges(userID).First(&ch, "coding_challenges.id = ?", req.ChallengeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Challenge not found"})
	}

	sub := models.CodeSubmission{
		ChallengeID:      ch.ID,
		UserID:           userID,
		Language:         req.Language,
		Source:           req.Source,
		Status:           models.SubmissionStatusChecking,
		TimeSpentSeconds: req.TimeSpentSeconds,
		SubmittedAt:      time.Now(),
	}

	if ch.Autocheck && len(ch.TestCases) > 0 {
		results := codeRunner.RunAll(c.Context(), req.Language, req.Source, ch.TestCases)
		passed, score := services.ScoreCodeResults(results, ch.MaxScore)
		percent := float64(passed) / float64(len(results)) * 100

		sub.TestResults = results
		sub.PassedCount = passed
		sub.TotalTests = len(results)
		sub.Score = score
		sub.Status = models.StatusForScore(percent)
	}

	err := database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "challenge_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"language", "source", "test_results", "score", "passed_count",
			"total_tests", "status", "feedback", "time_spent_seconds", "submitted_at",
		}),
	}).Create(&sub).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save submission"})
	}

	database.DB.First(&sub, "challenge_id = ? AND user_id = ?", ch.ID, userID)
	return c.Status(fiber.StatusCreated).JSON(codeSubmissionResponse(sub))
}

// ListCodeSubmissions returns the caller's own submissions; teachers see
// submissions to their own challenges, optionally filtered by challenge.
func ListCodeSubmissions(c *fiber.Ctx) error {
	userID, role := currentUser(c)

	q := database.DB.Model(&models.CodeSubmission{})
	if role == models.RoleTeacher {
		q = q.Where("challenge_id IN (SELECT id FROM coding_challenges WHERE created_by_id = ?)", userID)
		if challengeID := c.Query("challenge"); challengeID != "" {
			q = q.Where("challenge_id = ?", challengeID)
		}
	} else {
		q = q.Where("user_id = ?", userID)
	}

	var subs []models.CodeSubmission
	if err := q.Order("submitted_at desc").Find(&subs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch submissions"})
	}

	out := make([]fiber.Map, len(subs))
	for i, sub := range subs {
		out[i] = codeSubmissionResponse(sub)
	}
	return c.JSON(out)
}

func GetCodeSubmission(c *fiber.Ctx) error {
	userID, role := currentUser(c)

	var sub models.CodeSubmission
	if err := database.DB.Preload("Challenge").First(&sub, "id = ?", c.Params("submissionId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Submission not found"})
	}
	if sub.UserID != userID && !(role == models.RoleTeacher && sub.Challenge.CreatedByID == userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your submission"})
	}
	return c.JSON(codeSubmissionResponse(sub))
}

type EvaluateRequest struct {
	Score    float64 `json:"score" validate:"gte=0,lte=100"`
	Feedback *string `json:"feedback"`
}

// EvaluateSubmission lets a teacher override a submission's score; the
// review status is re-derived from the new score.
func EvaluateSubmission(c *fiber.Ctx) error {
	var req EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID, _ := currentUser(c)
	var sub models.CodeSubmission
	if err := database.DB.Preload("Challenge").First(&sub, "id = ?", c.Params("submissionId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Submission not found"})
	}
	if sub.Challenge.CreatedByID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the challenge creator can evaluate"})
	}

	sub.Score = req.Score
	sub.Status = models.StatusForScore(req.Score)
	if req.Feedback != nil {
		sub.Feedback = req.Feedback
	}

	if err := database.DB.Model(&sub).Select("score", "status", "feedback").Updates(map[string]interface{}{
		"score":    sub.Score,
		"status":   sub.Status,
		"feedback": sub.Feedback,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to evaluate submission"})
	}
	return c.JSON(codeSubmissionResponse(sub))
}
