package handlers

import (
	"github.com/akramjonkamolov673/cyberarena/database"
	"github.com/akramjonkamolov673/cyberarena/models"
	"github.com/akramjonkamolov673/cyberarena/services"
	"github.com/akramjonkamolov673/cyberarena/utils"
	"github.com/gofiber/fiber/v2"
)

type oauthRequest struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

// GoogleAuth supports both the implicit flow (body carries the provider
// access token) and the authorization-code flow (body carries the code,
// exchanged server-side).
func GoogleAuth(c *fiber.Ctx) error {
	var req oauthRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	token := req.Token
	if token == "" && req.Code != "" {
		exchanged, err := services.ExchangeGoogleCode(c.Context(), req.Code)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		token = exchanged
	}
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token or code is required"})
	}

	profile, err := services.FetchGoogleProfile(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return loginOAuthUser(c, profile)
}

// GitHubAuth handles the authorization-code redirect flow.
func GitHubAuth(c *fiber.Ctx) error {
	var req oauthRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Code is required"})
	}

	token, err := services.ExchangeGitHubCode(c.Context(), req.Code)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	profile, err := services.FetchGitHubProfile(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return loginOAuthUser(c, profile)
}

// loginOAuthUser finds the account by email (case-insensitive) or provider
// username, creating a student account on first login.
func loginOAuthUser(c *fiber.Ctx, profile services.OAuthProfile) error {
	var user models.User
	err := database.DB.Where("lower(email) = lower(?)", profile.Email).First(&user).Error
	if err != nil {
		err = database.DB.Where("username = ?", profile.Username).First(&user).Error
	}

	if err != nil {
		username, genErr := utils.GenerateUniqueUsername(database.DB, profile.Username)
		if genErr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
		}
		user = models.User{
			Username:  username,
			Email:     profile.Email,
			Password:  "oauth",
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			Role:      models.RoleStudent,
		}
		if createErr := database.DB.Create(&user).Error; createErr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
		}
	} else if user.FirstName == "" && profile.FirstName != "" {
		user.FirstName = profile.FirstName
		user.LastName = profile.LastName
		database.DB.Save(&user)
	}

	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Account is disabled"})
	}

	pair, err := issueTokens(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}
	setAuthCookies(c, pair)

	return c.JSON(authResponse(user, pair))
}
