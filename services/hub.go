package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub tracks websocket clients playing rounds. Each client is bound to one
// round; guesses arrive as messages and every reply is the full round view.
type Hub struct {
	clients     map[*Client]bool
	register    chan *Client
	unregister  chan *Client
	mutex       sync.RWMutex
	gameService *GameService
}

type Client struct {
	hub     *Hub
	id      string
	socket  *websocket.Conn
	send    chan []byte
	roundID string
}

type Message struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func NewHub(gameService *GameService) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		gameService: gameService,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %s connected for round %s - Total clients: %d", client.id, client.roundID, len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Client %s disconnected from round %s - Total clients: %d", client.id, client.roundID, len(h.clients))
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) RegisterClient(conn *websocket.Conn, roundID string) *Client {
	client := &Client{
		hub:     h,
		id:      uuid.NewString(),
		socket:  conn,
		send:    make(chan []byte, 16),
		roundID: roundID,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	// Sync the current round state on connect
	if view, err := h.gameService.GetRound(context.Background(), roundID); err == nil {
		client.sendEvent(Event{Type: "round_state", Payload: view})
	} else {
		client.sendEvent(Event{Type: "error", Error: err.Error()})
	}

	return client
}

func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling event for client %s: %v", c.id, err)
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("Client %s send buffer full, dropping event", c.id)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.socket.Close()
	}()

	for {
		_, message, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message from client %s: %v", c.id, err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	defer func() {
		c.socket.Close()
	}()

	for message := range c.send {
		w, err := c.socket.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}

		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}

	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case "ping":
		c.sendEvent(Event{Type: "pong"})

	case "guess":
		view, err := c.hub.gameService.SubmitGuess(context.Background(), c.roundID, msg.Text)
		if err != nil {
			c.sendEvent(Event{Type: "error", Error: err.Error()})
			return
		}
		c.sendEvent(Event{Type: "round_state", Payload: view})

	case "request_round_state":
		view, err := c.hub.gameService.GetRound(context.Background(), c.roundID)
		if err != nil {
			c.sendEvent(Event{Type: "error", Error: err.Error()})
			return
		}
		c.sendEvent(Event{Type: "round_state", Payload: view})

	default:
		log.Printf("Unknown message type %q from client %s in round %s", msg.Type, c.id, c.roundID)
	}
}
