package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	config "github.com/akramjonkamolov673/cyberarena/configs"
	"github.com/akramjonkamolov673/cyberarena/database"
	"github.com/akramjonkamolov673/cyberarena/models"
	"github.com/akramjonkamolov673/cyberarena/notifications"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

type RegisterRequest struct {
	Username  string  `json:"username" validate:"required,min=3"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6"`
	Password2 string  `json:"password2" validate:"required,eqfield=Password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	GroupID   *string `json:"group_id,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenPair struct {
	Access  string
	Refresh string
}

func issueTokens(user models.User) (tokenPair, error) {
	secret := []byte(config.Config("JWT_SECRET"))

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(accessTokenTTL).Unix(),
	})
	accessStr, err := access.SignedString(secret)
	if err != nil {
		return tokenPair{}, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"typ":     "refresh",
		"exp":     time.Now().Add(refreshTokenTTL).Unix(),
	})
	refreshStr, err := refresh.SignedString(secret)
	if err != nil {
		return tokenPair{}, err
	}

	return tokenPair{Access: accessStr, Refresh: refreshStr}, nil
}

func setAuthCookies(c *fiber.Ctx, pair tokenPair) {
	c.Cookie(&fiber.Cookie{
		Name:     "refresh",
		Value:    pair.Refresh,
		Path:     "/api/users/refresh",
		MaxAge:   int(refreshTokenTTL.Seconds()),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func clearAuthCookies(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{Name: "refresh", Value: "", Path: "/api/users/refresh", MaxAge: -1, HTTPOnly: true})
}

func authResponse(user models.User, pair tokenPair) fiber.Map {
	return fiber.Map{
		"token":         pair.Access,
		"refresh_token": pair.Refresh,
		"user": fiber.Map{
			"username":   user.Username,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"role":       user.Role,
		},
	}
}

func RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	newUser := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleStudent,
	}

	if req.GroupID != nil && *req.GroupID != "" {
		var group models.Group
		if err := database.DB.First(&group, "id = ?", *req.GroupID).Error; err == nil {
			newUser.GroupID = &group.ID
		}
	}

	if err := database.DB.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username or email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	go notifications.SendWelcomeEmail(newUser.Username, newUser.Email)

	pair, err := issueTokens(newUser)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}
	setAuthCookies(c, pair)

	return c.Status(fiber.StatusCreated).JSON(authResponse(newUser, pair))
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	result := database.DB.Where("username = ? OR email = ?", req.Username, req.Username).First(&user)
	if result.Error != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}
	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Account is disabled"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}

	pair, err := issueTokens(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}
	setAuthCookies(c, pair)

	return c.JSON(authResponse(user, pair))
}

// RefreshToken accepts the refresh JWT from the cookie or the request body
// and issues a fresh pair.
func RefreshToken(c *fiber.Ctx) error {
	raw := c.Cookies("refresh")
	if raw == "" {
		var body struct {
			Refresh string `json:"refresh"`
		}
		if err := c.BodyParser(&body); err == nil {
			raw = body.Refresh
		}
	}
	if raw == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "No refresh"})
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Invalid refresh"})
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != "refresh" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Invalid refresh"})
	}

	userID, _ := claims["user_id"].(string)
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Invalid refresh"})
	}
	if !user.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Account is disabled"})
	}

	pair, err := issueTokens(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}
	setAuthCookies(c, pair)

	return c.JSON(fiber.Map{"detail": "refreshed", "token": pair.Access, "refresh_token": pair.Refresh})
}

func LogoutUser(c *fiber.Ctx) error {
	clearAuthCookies(c)
	return c.JSON(fiber.Map{"detail": "logged out"})
}

// GetCSRF issues the double-submit cookie consumed by the CSRF middleware.
func GetCSRF(c *fiber.Ctx) error {
	tokenBytes := make([]byte, 16)
	if _, err := rand.Read(tokenBytes); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate CSRF token"})
	}
	token := hex.EncodeToString(tokenBytes)

	c.Cookie(&fiber.Cookie{
		Name:     "csrftoken",
		Value:    token,
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{"detail": "ok"})
}
