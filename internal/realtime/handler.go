package realtime

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/golf-scorecard/internal/model"
)

const joinWait = 10 * time.Second

// MemberResolver confirms that username belongs to the named room.
type MemberResolver interface {
	RequireMemberByName(ctx context.Context, username, roomName string) (*model.User, *model.Room, error)
}

// Handler upgrades GET /ws/rooms/:roomName.  The first frame must be a
// join-room message naming a member of the room; anything else closes the
// connection.
type Handler struct {
	hub      *Hub
	members  MemberResolver
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

// NewHandler builds the websocket endpoint.  allowedOrigin is compared to the
// Origin header; empty allows any origin.
func NewHandler(hub *Hub, members MemberResolver, allowedOrigin string, log logrus.FieldLogger) *Handler {
	if hub == nil || members == nil {
		panic("nil dependency passed to realtime.NewHandler")
	}
	return &Handler{
		hub:     hub,
		members: members,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

func (h *Handler) Serve(c echo.Context) error {
	roomName := c.Param("roomName")
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.log.WithError(err).Debug("ws upgrade failed")
		return nil
	}

	_ = conn.SetReadDeadline(time.Now().Add(joinWait))
	var join Message
	if err := conn.ReadJSON(&join); err != nil || join.Type != TypeJoinRoom {
		h.reject(conn, websocket.CloseProtocolError, "expected join-room")
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	user, room, err := h.members.RequireMemberByName(ctx, join.Username, roomName)
	cancel()
	if err != nil {
		h.reject(conn, websocket.ClosePolicyViolation, "not a member of this room")
		return nil
	}

	client := newClient(conn, room.ID, user.ID, user.Name)
	h.hub.Register(client)
	h.log.WithFields(logrus.Fields{"room": room.Name, "user": user.Name, "client": client.id}).Info("ws client joined")

	go client.writePump()
	client.readPump(h.log)
	h.hub.Unregister(client)
	return nil
}

func (h *Handler) reject(conn *websocket.Conn, code int, reason string) {
	_ = conn.WriteJSON(Message{Type: TypeError, Error: reason})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
	_ = conn.Close()
}
