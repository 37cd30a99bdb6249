package routes

import (
	"github.com/akramjonkamolov673/cyberarena/handlers"
	"github.com/akramjonkamolov673/cyberarena/middleware"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(app *fiber.App) {
	upload := app.Group("/api/upload", middleware.Protected())
	upload.Get("/signature", handlers.GenerateUploadSignature)
}
