package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestProtectedRejectsRefreshTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	app := fiber.New()
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/api/tests", Protected(), ok)
	app.Get("/api/results/statistics", Protected(), TeacherRequired(), ok)

	exp := time.Now().Add(time.Hour).Unix()
	access := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "8f9f2b7e-0000-0000-0000-000000000001", "role": "teacher", "exp": exp,
	})
	refresh := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "8f9f2b7e-0000-0000-0000-000000000001", "role": "teacher", "typ": "refresh", "exp": exp,
	})

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"access token passes", "/api/tests", access, fiber.StatusOK},
		{"refresh token rejected", "/api/tests", refresh, fiber.StatusUnauthorized},
		{"refresh token rejected before role check", "/api/results/statistics", refresh, fiber.StatusUnauthorized},
		{"missing token rejected", "/api/tests", "", fiber.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Fatalf("got status %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}
