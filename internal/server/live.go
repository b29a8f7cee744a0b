package server

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/accesskit/accesskit/internal/widget"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// liveEvent is one state change on the site's live channel. The
// dashboard preview subscribes here to mirror visitor state without
// polling.
type liveEvent struct {
	Type      string        `json:"type"` // "feature", "surface", "consent", "key", "reset"
	VisitorID string        `json:"visitor_id"`
	Feature   string        `json:"feature,omitempty"`
	Surface   string        `json:"surface,omitempty"`
	Frame     *widget.Frame `json:"frame,omitempty"`
}

// liveHub fans liveEvents out to websocket subscribers per site.
type liveHub struct {
	mu   sync.Mutex
	subs map[string]map[*websocket.Conn]bool
}

func newLiveHub() *liveHub {
	return &liveHub{subs: make(map[string]map[*websocket.Conn]bool)}
}

func (h *liveHub) add(siteID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[siteID] == nil {
		h.subs[siteID] = make(map[*websocket.Conn]bool)
	}
	h.subs[siteID][conn] = true
}

func (h *liveHub) remove(siteID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[siteID], conn)
}

// broadcast sends ev to every subscriber of the site. Write failures
// drop the subscriber; the live channel is best-effort.
func (h *liveHub) broadcast(siteID string, ev liveEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.subs[siteID] {
		if err := conn.WriteJSON(ev); err != nil {
			conn.Close()
			delete(h.subs[siteID], conn)
		}
	}
}

// publish pushes a state change onto the site's live channel.
func (s *Server) publish(siteID string, ev liveEvent) {
	s.hub.broadcast(siteID, ev)
}

// handleLive upgrades the connection and streams state changes for a
// site until the subscriber goes away.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "siteID")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("live channel upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s.hub.add(siteID, conn)
	defer s.hub.remove(siteID, conn)

	// Reads are only consumed to detect the close handshake.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("live channel read", zap.Error(err))
			}
			return
		}
	}
}
