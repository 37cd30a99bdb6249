package routes

import (
	"github.com/akramjonkamolov673/cyberarena/handlers"
	"github.com/akramjonkamolov673/cyberarena/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	users := app.Group("/api/users")
	users.Post("/register", handlers.RegisterUser)
	users.Post("/login", handlers.LoginUser)
	users.Post("/refresh", handlers.RefreshToken)
	users.Post("/logout", middleware.Protected(), handlers.LogoutUser)
	users.Post("/google", handlers.GoogleAuth)
	users.Post("/github", handlers.GitHubAuth)
	users.Get("/csrf", handlers.GetCSRF)
}
