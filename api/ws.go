package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tradelingo/sim"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// streamHub fans session status snapshots out to websocket subscribers.
// Broadcasts never block: a subscriber that cannot keep up is dropped.
type streamHub struct {
	log *zap.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]chan sim.Status
	closed  bool
}

func newStreamHub(log *zap.Logger) *streamHub {
	return &streamHub{
		log:     log,
		clients: make(map[*websocket.Conn]chan sim.Status),
	}
}

// BroadcastStatus queues a snapshot for every subscriber. Safe to call from
// inside the session lock because the per-client writer goroutine does the
// actual network I/O.
func (h *streamHub) BroadcastStatus(st sim.Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for conn, ch := range h.clients {
		select {
		case ch <- st:
		default:
			h.log.Warn("stream subscriber too slow, dropping",
				zap.String("remote", conn.RemoteAddr().String()))
			delete(h.clients, conn)
			close(ch)
		}
	}
}

func (h *streamHub) add(conn *websocket.Conn) (chan sim.Status, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	ch := make(chan sim.Status, 16)
	h.clients[conn] = ch
	return ch, true
}

func (h *streamHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
	}
}

// Close drops every subscriber. Used when the session is deleted.
func (h *streamHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for conn, ch := range h.clients {
		close(ch)
		delete(h.clients, conn)
	}
}

// Stream upgrades to a websocket and pushes a status snapshot on every
// auto-play tick. The first frame is the current status so late subscribers
// start in sync.
func (s *Server) Stream(c *gin.Context) {
	id := c.Param("id")
	sess, ok := s.session(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	s.mu.Lock()
	hub := s.streams[id]
	s.mu.Unlock()
	if hub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	ch, ok := hub.add(conn)
	if !ok {
		conn.Close()
		return
	}

	go func() {
		defer conn.Close()
		defer hub.remove(conn)
		if err := conn.WriteJSON(sess.Status()); err != nil {
			return
		}
		for st := range ch {
			if err := conn.WriteJSON(st); err != nil {
				return
			}
		}
	}()

	// Reader loop only services control frames and detects disconnects.
	go func() {
		defer hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
