package handlers

import (
	"github.com/akramjonkamolov673/cyberarena/database"
	"github.com/akramjonkamolov673/cyberarena/models"
	"github.com/akramjonkamolov673/cyberarena/websocket"
	"github.com/gofiber/fiber/v2"
)

type AnnouncementRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// CreateAnnouncement stores the announcement and pushes it to every
// connected websocket client.
func CreateAnnouncement(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var req AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	announcement := models.Announcement{
		Title:       req.Title,
		Content:     req.Content,
		CreatedByID: userID,
	}
	if err := database.DB.Create(&announcement).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create announcement"})
	}

	websocket.Broadcast <- &announcement

	return c.Status(fiber.StatusCreated).JSON(announcement)
}

func ListAnnouncements(c *fiber.Ctx) error {
	var announcements []models.Announcement
	if err := database.DB.Order("created_at desc").Find(&announcements).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch announcements"})
	}
	return c.JSON(announcements)
}

func GetAnnouncement(c *fiber.Ctx) error {
	var announcement models.Announcement
	if err := database.DB.First(&announcement, "id = ?", c.Params("announcementId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Announcement not found"})
	}
	return c.JSON(announcement)
}

func UpdateAnnouncement(c *fiber.Ctx) error {
	var announcement models.Announcement
	if err := database.DB.First(&announcement, "id = ?", c.Params("announcementId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Announcement not found"})
	}

	var req AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if req.Title != "" {
		announcement.Title = req.Title
	}
	if req.Content != "" {
		announcement.Content = req.Content
	}
	if err := database.DB.Save(&announcement).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update announcement"})
	}
	return c.JSON(announcement)
}

func DeleteAnnouncement(c *fiber.Ctx) error {
	if err := database.DB.Delete(&models.Announcement{}, "id = ?", c.Params("announcementId")).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete announcement"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
