package routes

import (
	"github.com/akramjonkamolov673/cyberarena/handlers"
	"github.com/akramjonkamolov673/cyberarena/middleware"
	"github.com/gofiber/fiber/v2"
)

func TestRoutes(app *fiber.App) {
	tests := app.Group("/api/tests", middleware.Protected())
	tests.Get("", handlers.ListTestSets)
	tests.Post("", middleware.TeacherRequired(), handlers.CreateTestSet)
	tests.Get("/:testId", handlers.GetTestSet)
	tests.Put("/:testId", middleware.TeacherRequired(), handlers.UpdateTestSet)
	tests.Delete("/:testId", middleware.TeacherRequired(), handlers.DeleteTestSet)

	tests.Get("/:testId/questions", handlers.ListTestSetQuestions)
	tests.Post("/:testId/questions", middleware.TeacherRequired(), handlers.AddTestSetQuestion)
	tests.Put("/:testId/questions/:index", middleware.TeacherRequired(), handlers.UpdateTestSetQuestion)
	tests.Delete("/:testId/questions/:index", middleware.TeacherRequired(), handlers.DeleteTestSetQuestion)
}
