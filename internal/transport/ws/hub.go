package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgResponseCompleted MessageType = "response_completed"
	MsgError             MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans submission events out to dashboards watching a questionnaire
type Hub struct {
	// Questionnaire -> watching connections
	watchers map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one watching WebSocket connection
type Connection struct {
	QuestionnaireID string
	Send            chan []byte
	Hub             *Hub
}

// BroadcastMessage is a message to fan out to all watchers
type BroadcastMessage struct {
	QuestionnaireID string
	Message         *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		watchers:   make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.watchers[conn.QuestionnaireID] == nil {
				h.watchers[conn.QuestionnaireID] = make(map[*Connection]bool)
			}
			h.watchers[conn.QuestionnaireID][conn] = true
			h.mu.Unlock()
			log.Printf("Watcher connected to questionnaire %s", conn.QuestionnaireID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.watchers[conn.QuestionnaireID]; ok {
				if conns[conn] {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.watchers, conn.QuestionnaireID)
					}
					log.Printf("Watcher disconnected from questionnaire %s", conn.QuestionnaireID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.watchers[msg.QuestionnaireID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToQuestionnaire sends a message to every watcher of a
// questionnaire (implements service.Broadcaster)
func (h *Hub) BroadcastToQuestionnaire(questionnaireID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		QuestionnaireID: questionnaireID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
