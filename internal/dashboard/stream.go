package dashboard

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/stockseo/internal/generator"
	"github.com/ziadkadry99/stockseo/internal/i18n"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// stateMessage is the outgoing WebSocket message format.
type stateMessage struct {
	Type    string          `json:"type"` // "state"
	State   generator.State `json:"state"`
	Message string          `json:"message,omitempty"`
}

// handleStateStream pushes the current generator state, then every change,
// until the client goes away.
func (d *Dashboard) handleStateStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	states, unsubscribe := d.orch.Subscribe()
	defer unsubscribe()

	// The reader only handles control frames; it ends the loop when the
	// client disconnects.
	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					d.log.Debug("websocket read", zap.Error(err))
				}
				return
			}
		}
	}()

	ctx := r.Context()
	catalog := d.pref.Catalog(ctx)
	if !d.send(conn, d.orch.State(), catalog) {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case s, ok := <-states:
			if !ok || !d.send(conn, s, catalog) {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dashboard) send(conn *websocket.Conn, s generator.State, catalog *i18n.Catalog) bool {
	msg := stateMessage{Type: "state", State: s, Message: generator.KindMessage(s.Failure, catalog)}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		d.log.Debug("websocket write", zap.Error(err))
		return false
	}
	return true
}
