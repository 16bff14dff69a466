package websocket

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Hub struct {
	clients    map[int64]map[*Client]bool
	mu         sync.RWMutex
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.UserID]; !ok {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true
	log.Printf("Client for user %d registered", client.UserID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if userClients, ok := h.clients[client.UserID]; ok {
		if _, ok := userClients[client]; ok {
			delete(userClients, client)
			close(client.send)
			if len(userClients) == 0 {
				delete(h.clients, client.UserID)
			}
			log.Printf("Client for user %d unregistered", client.UserID)
		}
	}
}

// PublishEvent dostarcza zdarzenie tylko do klientów danego użytkownika.
func (h *Hub) PublishEvent(userID int64, eventData []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if userClients, ok := h.clients[userID]; ok {
		for client := range userClients {
			select {
			case client.send <- eventData:
			default:
				log.Printf("WARN: Client for user %d send buffer is full. Dropping message.", userID)
			}
		}
	}
}

// BroadcastAll dostarcza zdarzenie do wszystkich podłączonych klientów.
// Lista zwojów jest publiczna, więc jej zmiany widzą wszyscy.
func (h *Hub) BroadcastAll(eventData []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for userID, userClients := range h.clients {
		for client := range userClients {
			select {
			case client.send <- eventData:
			default:
				log.Printf("WARN: Client for user %d send buffer is full. Dropping message.", userID)
			}
		}
	}
}
