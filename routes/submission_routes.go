package routes

import (
	"github.com/akramjonkamolov673/cyberarena/handlers"
	"github.com/akramjonkamolov673/cyberarena/middleware"
	"github.com/gofiber/fiber/v2"
)

func SubmissionRoutes(app *fiber.App) {
	code := app.Group("/api/submissions", middleware.Protected())
	code.Get("", handlers.ListCodeSubmissions)
	code.Post("", handlers.CreateCodeSubmission)
	code.Get("/:submissionId", handlers.GetCodeSubmission)
	code.Post("/:submissionId/evaluate", middleware.TeacherRequired(), handlers.EvaluateSubmission)

	tests := app.Group("/api/test-submissions", middleware.Protected())
	tests.Get("", handlers.ListTestSubmissions)
	tests.Post("", handlers.CreateTestSubmission)
	tests.Get("/:submissionId", handlers.GetTestSubmission)

	texts := app.Group("/api/text-submissions", middleware.Protected())
	texts.Get("", handlers.ListTextSubmissions)
	texts.Post("", handlers.CreateTextSubmission)
}
