package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func csrfApp() *fiber.App {
	app := fiber.New()
	app.Use(CSRF())
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/api/tests", ok)
	app.Post("/api/tests", ok)
	app.Post("/api/users/login", ok)
	app.Post("/api/users/refresh", ok)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, cookie, header string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "csrftoken", Value: cookie})
	}
	if header != "" {
		req.Header.Set("X-CSRFToken", header)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestCSRFMiddleware(t *testing.T) {
	app := csrfApp()

	tests := []struct {
		name   string
		method string
		path   string
		cookie string
		header string
		want   int
	}{
		{"GET passes without token", fiber.MethodGet, "/api/tests", "", "", fiber.StatusOK},
		{"POST with matching pair passes", fiber.MethodPost, "/api/tests", "tok", "tok", fiber.StatusOK},
		{"POST without header rejected", fiber.MethodPost, "/api/tests", "tok", "", fiber.StatusForbidden},
		{"POST without cookie rejected", fiber.MethodPost, "/api/tests", "", "tok", fiber.StatusForbidden},
		{"POST with mismatch rejected", fiber.MethodPost, "/api/tests", "tok", "other", fiber.StatusForbidden},
		{"login is exempt", fiber.MethodPost, "/api/users/login", "", "", fiber.StatusOK},
		{"refresh is exempt", fiber.MethodPost, "/api/users/refresh", "", "", fiber.StatusOK},
		{"refresh with trailing slash is exempt", fiber.MethodPost, "/api/users/refresh/", "", "", fiber.StatusOK},
		{"trailing slash on guarded path still checked", fiber.MethodPost, "/api/tests/", "", "", fiber.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := doRequest(t, app, tc.method, tc.path, tc.cookie, tc.header); got != tc.want {
				t.Fatalf("got status %d, want %d", got, tc.want)
			}
		})
	}
}
