package websocket

import (
	"log"
	"sync"

	"github.com/akramjonkamolov673/cyberarena/models"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *models.Announcement)

func init() {
	go RunHub()
}

// RunHub fans announcements out to every connected user.
func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case announcement := <-Broadcast:
			var stale []uuid.UUID
			clientsMu.RLock()
			for userID, conn := range clients {
				if err := conn.WriteJSON(announcement); err != nil {
					log.Printf("Error sending announcement to client %s: %v", userID, err)
					conn.Close()
					stale = append(stale, userID)
				}
			}
			clientsMu.RUnlock()
			if len(stale) > 0 {
				clientsMu.Lock()
				for _, userID := range stale {
					delete(clients, userID)
				}
				clientsMu.Unlock()
			}
		}
	}
}
