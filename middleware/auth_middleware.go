package middleware

import (
	config "github.com/akramjonkamolov673/cyberarena/configs"
	"github.com/akramjonkamolov673/cyberarena/models"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     []byte(config.Config("JWT_SECRET")),
		SuccessHandler: requireAccessToken,
		ErrorHandler:   jwtError,
	})
}

// requireAccessToken rejects refresh tokens on protected routes. Both token
// kinds are signed with the same secret, so the signature check alone would
// let a long-lived refresh token act as a bearer token.
func requireAccessToken(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] == "refresh" {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
	}
	return c.Next()
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

func TeacherRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Locals("user").(*jwt.Token)
		claims := token.Claims.(jwt.MapClaims)
		role, _ := claims["role"].(string)

		if role != models.RoleTeacher {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Teacher access required",
			})
		}
		return c.Next()
	}
}
