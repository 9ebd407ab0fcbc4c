package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	// Browsers connect from the partner portal origin; the JWT in the query
	// string is what authorizes the socket.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type delivery struct {
	userID  int
	payload any
}

// Hub fans notifications out to every open socket of the target user.
type Hub struct {
	mu        sync.Mutex
	clients   map[int]map[*websocket.Conn]bool
	broadcast chan delivery
	logger    *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:   make(map[int]map[*websocket.Conn]bool),
		broadcast: make(chan delivery, 256),
		logger:    logger,
	}
}

// Run delivers queued messages until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case d := <-h.broadcast:
			h.deliver(d)
		}
	}
}

// Push queues payload for userID. A full queue drops the message; the
// notification is already stored and shows up on the next list call.
func (h *Hub) Push(userID int, payload any) {
	select {
	case h.broadcast <- delivery{userID: userID, payload: payload}:
	default:
		h.logger.Warn("notification push queue full, dropping", zap.Int("user_id", userID))
	}
}

// Serve upgrades the request and keeps the socket registered until the
// client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.register(userID, conn)
	defer h.unregister(userID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Connected reports how many sockets a user has open.
func (h *Hub) Connected(userID int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

func (h *Hub) register(userID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]bool)
	}
	h.clients[userID][conn] = true
}

func (h *Hub) unregister(userID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[userID], conn)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

func (h *Hub) deliver(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients[d.userID] {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(d.payload); err != nil {
			conn.Close()
			delete(h.clients[d.userID], conn)
		}
	}
	record("push", nil)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, conns := range h.clients {
		for conn := range conns {
			conn.Close()
		}
		delete(h.clients, userID)
	}
}
