package ipc

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/peagarden/peaengine/internal/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Stream handles GET /api/v1/pea/stream. It pushes the newest snapshot as
// JSON after every state change until the peer leaves or the engine closes.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("pea: upgrade stream: %v", err)
		return
	}

	snaps, cancel := h.Engine.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go readPump(conn, done)
	writePump(conn, snaps, done)
}

// readPump discards client messages; it exists to process control frames and
// notice when the peer goes away.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("pea: stream read: %v", err)
			}
			return
		}
	}
}

func writePump(conn *websocket.Conn, snaps <-chan domain.Snapshot, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case snap, ok := <-snaps:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The engine closed.
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
