package handlers

import (
	"github.com/akramjonkamolov673/cyberarena/database"
	"github.com/akramjonkamolov673/cyberarena/models"
	"github.com/gofiber/fiber/v2"
)

// GetMyResults assembles the student's dashboard: every graded sheet and
// code submission with the titles they belong to.
func GetMyResults(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var testSubs []models.TestSubmission
	if err := database.DB.Preload("TestSet").Where("user_id = ?", userID).
		Order("submitted_at desc").Find(&testSubs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch results"})
	}

	var codeSubs []models.CodeSubmission
	if err := database.DB.Preload("Challenge").Where("user_id = ?", userID).
		Order("submitted_at desc").Find(&codeSubs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch results"})
	}

	tests := make([]fiber.Map, len(testSubs))
	for i, sub := range testSubs {
		tests[i] = fiber.Map{
			"test":          sub.TestSetID,
			"title":         sub.TestSet.Title,
			"correct_count": sub.CorrectCount,
			"wrong_count":   sub.WrongCount,
			"score":         sub.Score,
			"time_spent":    sub.TimeSpentSeconds,
			"submitted_at":  sub.SubmittedAt,
		}
	}

	challenges := make([]fiber.Map, len(codeSubs))
	for i, sub := range codeSubs {
		challenges[i] = fiber.Map{
			"challenge":    sub.ChallengeID,
			"title":        sub.Challenge.Title,
			"score":        sub.Score,
			"passed_count": sub.PassedCount,
			"total_tests":  sub.TotalTests,
			"status":       sub.Status,
			"feedback":     sub.Feedback,
			"submitted_at": sub.SubmittedAt,
		}
	}

	return c.JSON(fiber.Map{
		"tests":      tests,
		"challenges": challenges,
	})
}

// GetTeacherStatistics summarizes platform activity for the review screens.
func GetTeacherStatistics(c *fiber.Ctx) error {
	var totalStudents, totalTestSets, totalChallenges int64
	var totalTestSubs, totalCodeSubs, pendingReview int64

	database.DB.Model(&models.User{}).Where("role = ?", models.RoleStudent).Count(&totalStudents)
	database.DB.Model(&models.TestSet{}).Count(&totalTestSets)
	database.DB.Model(&models.CodingChallenge{}).Count(&totalChallenges)
	database.DB.Model(&models.TestSubmission{}).Count(&totalTestSubs)
	database.DB.Model(&models.CodeSubmission{}).Count(&totalCodeSubs)
	database.DB.Model(&models.CodeSubmission{}).
		Where("status = ?", models.SubmissionStatusChecking).Count(&pendingReview)

	var avgTestScore, avgCodeScore float64
	database.DB.Model(&models.TestSubmission{}).
		Select("COALESCE(AVG(score), 0)").Scan(&avgTestScore)
	database.DB.Model(&models.CodeSubmission{}).
		Select("COALESCE(AVG(score), 0)").Scan(&avgCodeScore)

	type perTestRow struct {
		TestSetID   string  `json:"test"`
		Title       string  `json:"title"`
		Submissions int64   `json:"submissions"`
		AvgScore    float64 `json:"avg_score"`
	}
	var perTest []perTestRow
	database.DB.Model(&models.TestSubmission{}).
		Select("test_submissions.test_set_id, test_sets.title, COUNT(*) as submissions, COALESCE(AVG(test_submissions.score), 0) as avg_score").
		Joins("JOIN test_sets ON test_sets.id = test_submissions.test_set_id").
		Group("test_submissions.test_set_id, test_sets.title").
		Scan(&perTest)

	type perChallengeRow struct {
		ChallengeID string  `json:"challenge"`
		Title       string  `json:"title"`
		Submissions int64   `json:"submissions"`
		AvgScore    float64 `json:"avg_score"`
	}
	var perChallenge []perChallengeRow
	database.DB.Model(&models.CodeSubmission{}).
		Select("code_submissions.challenge_id, coding_challenges.title, COUNT(*) as submissions, COALESCE(AVG(code_submissions.score), 0) as avg_score").
		Joins("JOIN coding_challenges ON coding_challenges.id = code_submissions.challenge_id").
		Group("code_submissions.challenge_id, coding_challenges.title").
		Scan(&perChallenge)

	return c.JSON(fiber.Map{
		"total_students":         totalStudents,
		"total_test_sets":        totalTestSets,
		"total_challenges":       totalChallenges,
		"total_test_submissions": totalTestSubs,
		"total_code_submissions": totalCodeSubs,
		"pending_review":         pendingReview,
		"avg_test_score":         avgTestScore,
		"avg_code_score":         avgCodeScore,
		"per_test":               perTest,
		"per_challenge":          perChallenge,
	})
}
