package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 16
)

// Client is one websocket connection subscribed to a room.
type Client struct {
	id       string
	roomID   int64
	userID   int64
	username string
	conn     *websocket.Conn
	send     chan []byte
	once     sync.Once
}

func newClient(conn *websocket.Conn, roomID, userID int64, username string) *Client {
	return &Client{
		id:       uuid.NewString(),
		roomID:   roomID,
		userID:   userID,
		username: username,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
	}
}

func (c *Client) closeSend() {
	c.once.Do(func() { close(c.send) })
}

// readPump drains incoming frames so control messages are processed, and
// returns when the peer goes away.
func (c *Client) readPump(log logrus.FieldLogger) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).WithField("client", c.id).Debug("ws read ended")
			}
			return
		}
	}
}

// writePump forwards queued messages and keeps the connection alive with
// pings.  It exits when send is closed or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
