package routes

import (
	"github.com/akramjonkamolov673/cyberarena/handlers"
	"github.com/akramjonkamolov673/cyberarena/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App) {
	users := app.Group("/api/users", middleware.Protected())
	users.Get("/me", handlers.GetProfile)
	users.Put("/me", handlers.UpdateProfile)

	app.Get("/api/groups", middleware.Protected(), handlers.ListGroups)
}
