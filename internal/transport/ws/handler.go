package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"screenbot/internal/model"
	"screenbot/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	inboxSize      = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Dispatcher handles one incoming chat update
type Dispatcher interface {
	Dispatch(ctx context.Context, update model.Update) error
}

// Handler handles WebSocket connections
type Handler struct {
	hub         *Hub
	authSvc     *service.AuthService
	dispatcher  Dispatcher
	adminUserID int64
	logger      *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc *service.AuthService, dispatcher Dispatcher, adminUserID int64, logger *slog.Logger) *Handler {
	return &Handler{
		hub:         hub,
		authSvc:     authSvc,
		dispatcher:  dispatcher,
		adminUserID: adminUserID,
		logger:      logger,
	}
}

// ChatWS handles GET /v1/ws/chat?token=...[&chat=...]
// The token user talks in their private chat. The admin may instead attach to
// another chat id (the alert chat) with the chat parameter.
func (h *Handler) ChatWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateChatToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	chatID, chatType := claims.UserID, "private"
	if raw := r.URL.Query().Get("chat"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid chat", http.StatusBadRequest)
			return
		}
		if id != claims.UserID {
			if claims.UserID != h.adminUserID {
				http.Error(w, "chat not allowed for this token", http.StatusForbidden)
				return
			}
			chatID, chatType = id, "group"
		}
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	conn := &Connection{
		ChatID:    chatID,
		ChatType:  chatType,
		Candidate: claims.Candidate(),
		Send:      make(chan []byte, 256),
		Hub:       h.hub,
	}

	h.hub.Register(conn)

	inbox := make(chan model.Update, inboxSize)
	go h.dispatchLoop(inbox)
	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn, inbox)
}

// dispatchLoop handles one connection's updates strictly in arrival order
func (h *Handler) dispatchLoop(inbox <-chan model.Update) {
	for update := range inbox {
		if err := h.dispatcher.Dispatch(context.Background(), update); err != nil {
			h.logger.Error("dispatch update failed",
				"user_id", update.From.UserID,
				"chat_id", update.ChatID,
				"error", err)
		}
	}
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection, inbox chan<- model.Update) {
	defer func() {
		close(inbox)
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read failed", "chat_id", conn.ChatID, "error", err)
			}
			break
		}
		wsConn.SetReadDeadline(time.Now().Add(pongWait))

		update, err := DecodeUpdate(data, conn)
		if err != nil {
			h.sendError(conn, err.Error())
			continue
		}

		select {
		case inbox <- update:
		default:
			h.sendError(conn, "too many pending updates")
		}
	}
}

// DecodeUpdate parses a client frame and stamps it with the connection's identity
func DecodeUpdate(data []byte, conn *Connection) (model.Update, error) {
	var update model.Update
	if err := json.Unmarshal(data, &update); err != nil {
		return model.Update{}, errInvalidFrame
	}
	switch update.Kind {
	case model.UpdateText:
	case model.UpdateAction:
		if update.Action == "" {
			return model.Update{}, errMissingAction
		}
		if update.Message != nil {
			update.Message.ChatID = conn.ChatID
		}
	default:
		return model.Update{}, errUnknownType
	}
	update.From = conn.Candidate
	update.ChatID = conn.ChatID
	update.ChatType = conn.ChatType
	return update, nil
}

func (h *Handler) sendError(conn *Connection, message string) {
	payload, _ := json.Marshal(map[string]string{"error": message})
	data, _ := json.Marshal(&Message{Type: MsgError, Payload: payload})
	select {
	case conn.Send <- data:
	default:
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
