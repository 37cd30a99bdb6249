package main

import (
	"log"
	"time"

	config "github.com/akramjonkamolov673/cyberarena/configs"
	"github.com/akramjonkamolov673/cyberarena/database"
	"github.com/akramjonkamolov673/cyberarena/jobs"
	"github.com/akramjonkamolov673/cyberarena/middleware"
	"github.com/akramjonkamolov673/cyberarena/notifications"
	"github.com/akramjonkamolov673/cyberarena/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedTeacher()
	notifications.InitEmailService()

	c := cron.New()
	c.AddFunc("*/5 * * * *", jobs.CloseExpiredChallengeGroups)
	c.AddFunc("0 3 * * *", jobs.PurgeOldAnnouncements)
	go c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Cyber Arena",
		CaseSensitive:     true,
		StrictRouting:     false,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  config.Config("CORS_ORIGINS"),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-CSRFToken, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(middleware.CSRF())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Cyber Arena API",
		})
	})

	routes.AuthRoutes(app)
	routes.ProfileRoutes(app)
	routes.TestRoutes(app)
	routes.ChallengeRoutes(app)
	routes.SubmissionRoutes(app)
	routes.AnnouncementRoutes(app)
	routes.ResultsRoutes(app)
	routes.UploadRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	port := config.Config("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
