package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"fxtracker/internal/stream"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The tracker runs on a trusted network; cross-origin browsers are
	// allowed to subscribe.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades the connection and forwards every hub event
// to the client as JSON until either side disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sub := s.hub.Subscribe(uuid.NewString())
	s.log.Debug().Str("subscriber", sub.ID).Msg("websocket client connected")

	go s.writePump(conn, sub)
	go s.readPump(conn, sub)
}

// writePump pushes hub events and periodic pings to the client.
func (s *Server) writePump(conn *websocket.Conn, sub *stream.Subscriber) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.Channel:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				s.log.Debug().Err(err).Str("subscriber", sub.ID).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so pongs and close messages are
// processed, unsubscribing when the connection drops.
func (s *Server) readPump(conn *websocket.Conn, sub *stream.Subscriber) {
	defer func() {
		s.hub.Unsubscribe(sub)
		conn.Close()
		s.log.Debug().Str("subscriber", sub.ID).Msg("websocket client disconnected")
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
