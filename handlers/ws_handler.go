package handlers

import (
	"errors"
	"fmt"
	"log"

	configs "github.com/akramjonkamolov673/cyberarena/configs"
	"github.com/akramjonkamolov673/cyberarena/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ServeWs keeps an announcement feed open. The first frame must be an auth
// message carrying a valid access token; after that the connection only
// receives broadcasts.
func ServeWs(c *websocketcontrib.Conn) {
	type AuthMessage struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	var authMsg AuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := parseToken(authMsg.Token)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}
	userID, err := userIDFromClaims(claims)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid user ID"})
		c.Close()
		return
	}

	client := &websocket.Client{UserID: userID, Conn: c}
	websocket.Register <- client
	defer func() {
		websocket.Unregister <- client
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if !websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				log.Printf("WebSocket read error for client %s: %v", userID, err)
			}
			break
		}
	}
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(configs.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims["typ"] == "refresh" {
		return nil, errors.New("refresh token is not an access token")
	}
	return claims, nil
}

func userIDFromClaims(claims jwt.MapClaims) (uuid.UUID, error) {
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing user_id claim")
	}
	return uuid.Parse(raw)
}
