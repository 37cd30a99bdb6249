package handlers

import (
	"net/url"
	"strconv"
	"time"

	config "github.com/akramjonkamolov673/cyberarena/configs"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

const avatarFolder = "cyber_arena_avatars"

// GenerateUploadSignature creates a secure signature so clients can upload
// avatars straight to Cloudinary.
func GenerateUploadSignature(c *fiber.Ctx) error {
	cloudinaryURL := config.Config("CLOUDINARY_URL")
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to initialize Cloudinary"})
	}

	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to parse Cloudinary URL"})
	}
	secret, _ := parsedURL.User.Password()

	paramsToSign, err := api.StructToParams(uploader.UploadParams{
		Folder: avatarFolder,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to prepare signature params"})
	}

	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign upload params"})
	}

	return c.JSON(fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"api_key":   cld.Config.Cloud.APIKey,
		"folder":    avatarFolder,
	})
}
