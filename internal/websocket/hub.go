package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"fileport/internal/models"

	"github.com/gorilla/websocket"
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	EventFileUploaded = "file_uploaded"
	EventFileDeleted  = "file_deleted"
	EventQuotaChanged = "quota_changed"
)

// Event is the JSON frame pushed to every open connection of a user.
type Event struct {
	Type      string    `json:"type"`
	Path      string    `json:"path,omitempty"`
	Size      int64     `json:"size,omitempty"`
	Used      int64     `json:"used"`
	Limit     int64     `json:"limit"`
	Timestamp time.Time `json:"timestamp"`
}

type Hub struct {
	clients    map[string]map[*Client]bool
	mu         sync.RWMutex
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Attach registers client unless the hub has been stopped.
func (h *Hub) Attach(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Stop makes Run close every connection and return.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.UserID]; !ok {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true
	log.Printf("Client for user %s registered", client.UserID)
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
			log.Printf("Client for user %s unregistered", client.UserID)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, userClients := range h.clients {
		for client := range userClients {
			close(client.send)
		}
		delete(h.clients, userID)
	}
}

// Connected reports how many connections userID currently holds.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// QuotaChanged pushes the user's new recorded usage to their connections.
func (h *Hub) QuotaChanged(user *models.User) {
	h.PublishEvent(user.UserID, Event{
		Type:  EventQuotaChanged,
		Used:  user.UsedStorage,
		Limit: user.StorageLimit,
	})
}

func (h *Hub) PublishEvent(userID string, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	eventData, err := json.Marshal(event)
	if err != nil {
		log.Printf("ERROR: Failed to marshal %s event for user %s: %v", event.Type, userID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if userClients, ok := h.clients[userID]; ok {
		for client := range userClients {
			select {
			case client.send <- eventData:
			default:
				log.Printf("WARN: Client for user %s send buffer is full. Dropping message.", userID)
			}
		}
	}
}
