package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/kubedeck/kubedeck/internal/logging"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
	// wsBuffer bounds how far a slow UI may lag before it starts missing
	// events and has to re-list.
	wsBuffer = 256
)

// upgrader accepts any origin: the server binds loopback and serves a local
// desktop UI, not the open web.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// handleEventsFeed streams bus events (watch notifications, terminal output)
// to the UI over a WebSocket.
func (s *Server) handleEventsFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.sc.Logger().Warn("websocket upgrade failed", logging.Err(err))
		return
	}

	ch, unsubscribe := s.sc.Bus().Subscribe(wsBuffer)
	defer unsubscribe()
	defer conn.Close()

	// Reader goroutine: the UI never sends data, but reading is required to
	// notice closes and answer pings.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-s.sc.Context().Done():
			return
		}
	}
}
