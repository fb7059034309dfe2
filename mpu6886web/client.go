package mpu6886web

import (
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// client represents a single browser connected to a Room.
type client struct {
	socket *websocket.Conn
	send   chan []byte
	room   *Room
}

// read drains the socket until the peer goes away, then leaves the room;
// clients only listen.
func (c *client) read() {
	defer c.room.part(c)
	defer c.socket.Close()
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) write() {
	defer c.socket.Close()
	for msg := range c.send {
		c.socket.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.socket.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
