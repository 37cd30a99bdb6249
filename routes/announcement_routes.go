package routes

import (
	"github.com/akramjonkamolov673/cyberarena/handlers"
	"github.com/akramjonkamolov673/cyberarena/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func AnnouncementRoutes(app *fiber.App) {
	announcements := app.Group("/api/announcements", middleware.Protected())
	announcements.Get("", handlers.ListAnnouncements)
	announcements.Post("", middleware.TeacherRequired(), handlers.CreateAnnouncement)
	announcements.Get("/:announcementId", handlers.GetAnnouncement)
	announcements.Put("/:announcementId", middleware.TeacherRequired(), handlers.UpdateAnnouncement)
	announcements.Delete("/:announcementId", middleware.TeacherRequired(), handlers.DeleteAnnouncement)

	app.Use("/api/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	app.Get("/api/ws", websocket.New(handlers.ServeWs))
}
