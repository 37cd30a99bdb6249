package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestRefreshesOnceOn401(t *testing.T) {
	var dataCalls, refreshCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/api/data", func(w http.ResponseWriter, r *http.Request) {
		dataCalls++
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	})
	mux.HandleFunc("/api/users/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		json.NewEncoder(w).Encode(map[string]string{"token": "fresh", "refresh_token": "fresh-r"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL)
	c.SetTokens("stale", "stale-r")

	var result map[string]string
	if err := c.Get("/api/data", &result); err != nil {
		t.Fatalf("request after refresh should succeed: %v", err)
	}
	if result["ok"] != "yes" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if dataCalls != 2 || refreshCalls != 1 {
		t.Fatalf("got %d data calls and %d refresh calls, want 2 and 1", dataCalls, refreshCalls)
	}
	if access, refresh := c.tokens(); access != "fresh" || refresh != "fresh-r" {
		t.Fatalf("tokens not rotated: %q %q", access, refresh)
	}
}

func TestRequestGivesUpAfterSecond401(t *testing.T) {
	var refreshCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/api/data", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/users/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		json.NewEncoder(w).Encode(map[string]string{"token": "fresh", "refresh_token": "fresh-r"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL)
	c.SetTokens("stale", "stale-r")

	if err := c.Get("/api/data", nil); err != ErrSessionExpired {
		t.Fatalf("got %v, want ErrSessionExpired", err)
	}
	if refreshCalls != 1 {
		t.Fatalf("refresh attempted %d times, want exactly 1", refreshCalls)
	}
	if access, _ := c.tokens(); access != "" {
		t.Fatalf("tokens should be cleared, got %q", access)
	}
}

func TestRequestFailedRefreshExpiresSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/data", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/users/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid refresh"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL)
	c.SetTokens("stale", "stale-r")

	if err := c.Get("/api/data", nil); err != ErrSessionExpired {
		t.Fatalf("got %v, want ErrSessionExpired", err)
	}
}

func TestExtractErrorPrecedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail wins", `{"detail": "d", "error": "e", "message": "m"}`, "d"},
		{"error next", `{"error": "e", "message": "m"}`, "e"},
		{"message next", `{"message": "m"}`, "m"},
		{"raw body", `something broke`, "something broke"},
		{"empty body", ``, "HTTP 500"},
		{"html body", `<html>oops</html>`, "HTTP 500"},
		{"json without known keys", `{"status": "bad"}`, `{"status": "bad"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := extractError(500, []byte(tc.body))
			if got.Message != tc.want {
				t.Fatalf("got %q, want %q", got.Message, tc.want)
			}
			if got.StatusCode != 500 {
				t.Fatalf("status code not carried: %d", got.StatusCode)
			}
		})
	}
}

func TestCSRFHeaderOnMutatingRequestsOnly(t *testing.T) {
	var getHeader, postHeader string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/csrf", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok123", Path: "/"})
	})
	mux.HandleFunc("/api/things", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			getHeader = r.Header.Get("X-CSRFToken")
		case http.MethodPost:
			postHeader = r.Header.Get("X-CSRFToken")
		}
		w.Write([]byte(`{}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL)
	if err := c.Get("/api/users/csrf", nil); err != nil {
		t.Fatalf("csrf bootstrap: %v", err)
	}
	if err := c.Get("/api/things", nil); err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := c.Post("/api/things", map[string]string{}, nil); err != nil {
		t.Fatalf("post: %v", err)
	}

	if getHeader != "" {
		t.Fatalf("GET must not carry the CSRF header, got %q", getHeader)
	}
	if postHeader != "tok123" {
		t.Fatalf("POST must echo the csrftoken cookie, got %q", postHeader)
	}
}
