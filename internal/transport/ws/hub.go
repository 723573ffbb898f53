package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"screenbot/internal/model"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Server -> client message types
const (
	MsgMessage MessageType = "message"
	MsgEdit    MessageType = "edit"
	MsgDelete  MessageType = "delete"
	MsgAck     MessageType = "ack"
	MsgError   MessageType = "error"
)

// ErrChatUnavailable means no client is connected to the chat
var ErrChatUnavailable = errors.New("chat has no connected client")

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ChatMessage is the payload of message, edit and delete events
type ChatMessage struct {
	ChatID    int64            `json:"chatId"`
	MessageID string           `json:"messageId"`
	Text      string           `json:"text,omitempty"`
	Buttons   [][]model.Button `json:"buttons,omitempty"`
}

// Hub manages WebSocket connections per chat
type Hub struct {
	conns map[int64]map[*Connection]struct{}
	mu    sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage

	logger *slog.Logger
}

// Connection represents one WebSocket client attached to a chat
type Connection struct {
	ChatID    int64
	ChatType  string
	Candidate model.Candidate
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message for every client of a chat
type BroadcastMessage struct {
	ChatID  int64
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	h := &Hub{
		conns:      make(map[int64]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		logger:     logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.ChatID] == nil {
				h.conns[conn.ChatID] = make(map[*Connection]struct{})
			}
			h.conns[conn.ChatID][conn] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("chat client connected", "chat_id", conn.ChatID, "user_id", conn.Candidate.UserID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.conns[conn.ChatID]; ok {
				if _, ok := clients[conn]; ok {
					delete(clients, conn)
					close(conn.Send)
					if len(clients) == 0 {
						delete(h.conns, conn.ChatID)
					}
					h.logger.Info("chat client disconnected", "chat_id", conn.ChatID, "user_id", conn.Candidate.UserID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.conns[msg.ChatID] {
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

// Connected reports whether any client is attached to chatID
func (h *Hub) Connected(chatID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[chatID]) > 0
}

func (h *Hub) publish(ctx context.Context, chatID int64, msgType MessageType, payload interface{}) error {
	if !h.Connected(chatID) {
		return ErrChatUnavailable
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := &BroadcastMessage{
		ChatID:  chatID,
		Message: &Message{Type: msgType, Payload: data},
	}
	select {
	case h.broadcast <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Send shows a new message in the chat (implements service.Messenger)
func (h *Hub) Send(ctx context.Context, chatID int64, msg model.OutgoingMessage) (*model.MessageRef, error) {
	ref := &model.MessageRef{ChatID: chatID, MessageID: uuid.NewString()}
	err := h.publish(ctx, chatID, MsgMessage, ChatMessage{
		ChatID:    chatID,
		MessageID: ref.MessageID,
		Text:      msg.Text,
		Buttons:   msg.Buttons,
	})
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// Edit replaces the text and buttons of a shown message (implements service.Messenger)
func (h *Hub) Edit(ctx context.Context, ref model.MessageRef, msg model.OutgoingMessage) error {
	return h.publish(ctx, ref.ChatID, MsgEdit, ChatMessage{
		ChatID:    ref.ChatID,
		MessageID: ref.MessageID,
		Text:      msg.Text,
		Buttons:   msg.Buttons,
	})
}

// Delete removes a shown message (implements service.Messenger)
func (h *Hub) Delete(ctx context.Context, ref model.MessageRef) error {
	return h.publish(ctx, ref.ChatID, MsgDelete, ChatMessage{
		ChatID:    ref.ChatID,
		MessageID: ref.MessageID,
	})
}

// Notify sends a plain-text message (implements service.Notifier)
func (h *Hub) Notify(ctx context.Context, chatID int64, text string) error {
	_, err := h.Send(ctx, chatID, model.OutgoingMessage{Text: text})
	return err
}

// Ack answers a button press with a short transient text
func (h *Hub) Ack(ctx context.Context, chatID int64, text string) error {
	return h.publish(ctx, chatID, MsgAck, map[string]string{"text": text})
}
