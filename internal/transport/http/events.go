package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	searchdomain "github.com/reshetovitsme/channel-scout/internal/modules/search/domain"
)

const (
	eventBuffer  = 256
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// handleEvents streams session events over a WebSocket. The first message is a
// "snapshot" frame with the current state; every following message is an Event.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "session_id", sess.ID, "error", err)
		return
	}
	defer conn.Close()

	events, cancel := sess.Subscribe(eventBuffer)
	defer cancel()

	// The reader only handles control frames and notices the client going away.
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeFrame(conn, snapshotFrame{Kind: "snapshot", Snapshot: sess.Snapshot()}); err != nil {
		return
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-s.runCtx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeTimeout))
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := writeFrame(conn, e); err != nil {
				s.logger.Debug("websocket write failed", "session_id", sess.ID, "error", err)
				return
			}
		}
	}
}

type snapshotFrame struct {
	Kind     string                `json:"kind"`
	Snapshot searchdomain.Snapshot `json:"snapshot"`
}

func writeFrame(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(v)
}
