/*
Client-Server package adapted from Mat Ryer's Go Blueprints examples
see https://github.com/matryer/goblueprints
*/

package mpu6886web

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const Port = 8000

type Room struct {
	// forward is a channel that holds incoming messages
	// that should be forwarded to the other clients.
	forward chan []byte
	// join is a channel for clients wishing to join the room.
	join chan *client
	// leave is a channel for clients wishing to leave the room.
	leave chan *client
	// clients holds all current clients in this room.
	clients map[*client]bool
	// done is closed when Run returns.
	done chan struct{}
}

// NewRoom makes a new room that is ready to go.
func NewRoom() *Room {
	return &Room{
		forward: make(chan []byte),
		join:    make(chan *client),
		leave:   make(chan *client),
		clients: make(map[*client]bool),
		done:    make(chan struct{}),
	}
}

// Run dispatches joins, leaves and messages until ctx is done, then closes every client.
func (r *Room) Run(ctx context.Context) {
	defer func() {
		for client := range r.clients {
			delete(r.clients, client)
			close(client.send)
		}
		close(r.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-r.join:
			r.clients[client] = true
			log.Debugln("MPU6886Web: new client joined")
		case client := <-r.leave:
			if r.clients[client] {
				delete(r.clients, client)
				close(client.send)
			}
			log.Debugln("MPU6886Web: client left")
		case msg := <-r.forward:
			for client := range r.clients {
				select {
				case client.send <- msg:
				default:
					log.Warnln("MPU6886Web: client too slow, dropping sample")
				}
			}
		}
	}
}

// Forward queues msg for every connected client. It blocks until Run takes it
// and returns false if ctx ends or the room stops first.
func (r *Room) Forward(ctx context.Context, msg []byte) bool {
	select {
	case r.forward <- msg:
		return true
	case <-ctx.Done():
		return false
	case <-r.done:
		return false
	}
}

// part removes c from the room, unless the room has already stopped.
func (r *Room) part(c *client) {
	select {
	case r.leave <- c:
	case <-r.done:
	}
}

const (
	socketBufferSize  = 1024
	messageBufferSize = 10
)

var upgrader = &websocket.Upgrader{ReadBufferSize: socketBufferSize, WriteBufferSize: socketBufferSize}

func (r *Room) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	socket, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Errorln("MPU6886Web: ServeHTTP:", err)
		return
	}
	client := &client{
		socket: socket,
		send:   make(chan []byte, messageBufferSize),
		room:   r,
	}
	select {
	case r.join <- client:
	case <-r.done:
		socket.Close()
		return
	}
	go client.write()
	client.read()
}
