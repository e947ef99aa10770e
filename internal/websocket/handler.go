package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs handles websocket requests from the peer. Blocks until the
// connection drops.
func ServeWs(hub *Hub, c *websocket.Conn, workspaceID string) {
	client := &Client{Hub: hub, Conn: c, WorkspaceID: workspaceID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
