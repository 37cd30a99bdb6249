package routes

import (
	"github.com/akramjonkamolov673/cyberarena/handlers"
	"github.com/akramjonkamolov673/cyberarena/middleware"
	"github.com/gofiber/fiber/v2"
)

func ChallengeRoutes(app *fiber.App) {
	challenges := app.Group("/api/challenges", middleware.Protected())
	challenges.Get("", handlers.ListChallenges)
	challenges.Post("", middleware.TeacherRequired(), handlers.CreateChallenge)
	challenges.Get("/:challengeId", handlers.GetChallenge)
	challenges.Put("/:challengeId", middleware.TeacherRequired(), handlers.UpdateChallenge)
	challenges.Delete("/:challengeId", middleware.TeacherRequired(), handlers.DeleteChallenge)
	challenges.Post("/:challengeId/run", handlers.RunChallengeCode)

	// /api/blocks is kept as an alias for older clients.
	for _, prefix := range []string{"/api/challenge-groups", "/api/blocks"} {
		blocks := app.Group(prefix, middleware.Protected())
		blocks.Get("", handlers.ListChallengeGroups)
		blocks.Post("", middleware.TeacherRequired(), handlers.CreateChallengeGroup)
		blocks.Get("/:blockId", handlers.GetChallengeGroup)
		blocks.Put("/:blockId", middleware.TeacherRequired(), handlers.UpdateChallengeGroup)
		blocks.Delete("/:blockId", middleware.TeacherRequired(), handlers.DeleteChallengeGroup)
	}
}
