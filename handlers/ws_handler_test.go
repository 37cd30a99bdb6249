package handlers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	exp := time.Now().Add(time.Hour).Unix()
	userID := uuid.New().String()

	access := signedToken(t, "test-secret", jwt.MapClaims{"user_id": userID, "role": "student", "exp": exp})
	claims, err := parseToken(access)
	if err != nil {
		t.Fatalf("parseToken(access): %v", err)
	}
	if got, _ := claims["user_id"].(string); got != userID {
		t.Fatalf("user_id = %q, want %q", got, userID)
	}

	refresh := signedToken(t, "test-secret", jwt.MapClaims{"user_id": userID, "typ": "refresh", "exp": exp})
	if _, err := parseToken(refresh); err == nil {
		t.Fatal("parseToken accepted a refresh token")
	}

	forged := signedToken(t, "wrong-secret", jwt.MapClaims{"user_id": userID, "exp": exp})
	if _, err := parseToken(forged); err == nil {
		t.Fatal("parseToken accepted a token signed with the wrong secret")
	}
}

func TestUserIDFromClaims(t *testing.T) {
	want := uuid.New()

	got, err := userIDFromClaims(jwt.MapClaims{"user_id": want.String()})
	if err != nil {
		t.Fatalf("valid claim: %v", err)
	}
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}

	if _, err := userIDFromClaims(jwt.MapClaims{}); err == nil {
		t.Fatal("missing user_id claim accepted")
	}
	if _, err := userIDFromClaims(jwt.MapClaims{"user_id": 42}); err == nil {
		t.Fatal("non-string user_id claim accepted")
	}
	if _, err := userIDFromClaims(jwt.MapClaims{"user_id": "not-a-uuid"}); err == nil {
		t.Fatal("malformed user_id claim accepted")
	}
}
