package scoreclient

import (
	"context"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/iliyamo/golf-scorecard/internal/realtime"
)

// SocketURL turns the server base URL (http, https, ws or wss) into the
// websocket endpoint of roomName.
func SocketURL(base, roomName string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path += "/ws/rooms/" + url.PathEscape(roomName)
	return u.String(), nil
}

// Listen joins the room's realtime channel at wsURL and invalidates the whole
// cache on every update-state hint, then calls onHint if set.  It returns when
// ctx ends, the connection drops or the server refuses the join.
func (s *Session) Listen(ctx context.Context, wsURL string, onHint func(realtime.Message)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	if err := conn.WriteJSON(realtime.Message{Type: realtime.TypeJoinRoom, Username: s.username}); err != nil {
		return err
	}
	s.log.Debug("listening for room updates")

	for {
		var msg realtime.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		switch msg.Type {
		case realtime.TypeUpdateState:
			s.cache.Invalidate()
			if onHint != nil {
				onHint(msg)
			}
		case realtime.TypeError:
			return &APIError{Status: 403, Message: msg.Error}
		}
	}
}
