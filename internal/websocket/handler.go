package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches an upgraded connection to the hub.
func ServeWs(hub *Hub, c *websocket.Conn) {
	client := &Client{Hub: hub, Conn: c, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	// writePump runs on its own goroutine; readPump keeps this handler
	// alive for the lifetime of the connection.
	go client.writePump()
	client.readPump()
}
