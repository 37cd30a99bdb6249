package routes

import (
	"github.com/akramjonkamolov673/cyberarena/handlers"
	"github.com/akramjonkamolov673/cyberarena/middleware"
	"github.com/gofiber/fiber/v2"
)

func ResultsRoutes(app *fiber.App) {
	results := app.Group("/api/results", middleware.Protected())
	results.Get("/me", handlers.GetMyResults)
	results.Get("/statistics", middleware.TeacherRequired(), handlers.GetTeacherStatistics)
}
