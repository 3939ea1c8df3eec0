package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// Client is one websocket subscriber of a room's change feed.
type Client struct {
	roomID string
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	log    *zap.SugaredLogger
}

// ServeClient streams the events of roomID to conn until the peer goes away.
// It subscribes before calling snapshot, so events published while the
// snapshot is built are buffered and follow it; none are lost in between.
// It blocks until the connection is closed.
func ServeClient(hub *Hub, conn *websocket.Conn, roomID string, snapshot func() ([]byte, error), log *zap.SugaredLogger) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := &Client{
		roomID: roomID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		log:    log.With("roomId", roomID, "remote", conn.RemoteAddr().String()),
	}

	unsubscribe := hub.Subscribe(roomID, c.enqueue)
	defer unsubscribe()

	first, err := snapshot()
	if err != nil {
		c.log.Errorw("room snapshot", "error", err)
		c.closeWith(websocket.CloseInternalServerErr, "snapshot unavailable")
		return
	}

	c.log.Infow("websocket subscriber connected")
	go c.writePump(first)
	c.readPump()
	c.log.Infow("websocket subscriber disconnected")
}

// enqueue never blocks the publisher. A subscriber that cannot keep up is
// disconnected; it reconnects and gets a fresh snapshot.
func (c *Client) enqueue(ev RoomEvent) {
	msg, err := json.Marshal(ev)
	if err != nil {
		c.log.Errorw("marshal room event", "type", ev.Type, "error", err)
		return
	}
	select {
	case <-c.done:
	case c.send <- msg:
	default:
		c.log.Warnw("slow websocket subscriber dropped", "type", ev.Type)
		c.closeWith(websocket.ClosePolicyViolation, "subscriber too slow")
	}
}

// Close says goodbye to the peer and drops the connection.
func (c *Client) Close() {
	c.closeWith(websocket.CloseNormalClosure, "")
}

func (c *Client) closeWith(code int, text string) {
	c.once.Do(func() {
		close(c.done)
		// WriteControl may run concurrently with the write pump
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, text), time.Now().Add(writeWait))
		c.conn.Close()
	})
}

// readPump only keeps the read deadline alive; the feed is one-way.
func (c *Client) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Warnw("websocket read error", "error", err)
			}
			return
		}
	}
}

// writePump writes first, then queued events, until the client closes.
func (c *Client) writePump(first []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	if !c.write(websocket.TextMessage, first) {
		return
	}
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if !c.write(websocket.TextMessage, msg) {
				return
			}
		case <-ticker.C:
			if !c.write(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (c *Client) write(kind int, msg []byte) bool {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(kind, msg); err != nil {
		select {
		case <-c.done:
		default:
			c.log.Warnw("websocket write error", "error", err)
		}
		return false
	}
	return true
}
