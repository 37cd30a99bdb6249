package routes

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// Unauthenticated requests hit the JWT guard, so a registered route answers
// 400 while a missing one answers 404.
func TestChallengeGroupRoutesRegistered(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	app := fiber.New()
	ChallengeRoutes(app)

	paths := []string{"/api/challenge-groups", "/api/blocks", "/api/challenges"}
	for _, path := range paths {
		req := httptest.NewRequest(fiber.MethodGet, path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test(%s): %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("GET %s = %d, want %d", path, resp.StatusCode, fiber.StatusBadRequest)
		}
	}
}
