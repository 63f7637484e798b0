package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/golf-scorecard/internal/queue"
)

type joinRoomRequest struct {
	Username string `json:"username"`
	RoomName string `json:"roomName"`
}

type roomScoreRequest struct {
	Username string `json:"username"`
}

// JoinRoom handles POST /join-room.  The room and the user are created on
// first use; a user already in another room is moved.
func (h *ScorecardHandler) JoinRoom(c echo.Context) error {
	var req joinRoomRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx, cancel := h.storeCtx(c)
	defer cancel()

	m, err := h.members.JoinRoom(ctx, req.Username, req.RoomName)
	if err != nil {
		return h.writeError(c, "join-room", err)
	}
	h.notify(queue.RoomEvent{RoomID: m.Room.ID, Room: m.Room.Name, Reason: queue.ReasonJoin, ByUserID: m.User.ID, By: m.User.Name})
	return c.JSON(http.StatusOK, m)
}

// CreateRoom handles POST /create-room and returns a fresh room name.
func (h *ScorecardHandler) CreateRoom(c echo.Context) error {
	ctx, cancel := h.storeCtx(c)
	defer cancel()

	room, err := h.members.CreateRoom(ctx)
	if err != nil {
		return h.writeError(c, "create-room", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"room": room.Name})
}

// RoomScore handles POST /room-score/:roomName.  Only members may read a
// room's scorecard, so an unknown room is reported as 403, like a foreign
// one.
func (h *ScorecardHandler) RoomScore(c echo.Context) error {
	var req roomScoreRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	roomName := c.Param("roomName")
	ctx, cancel := h.storeCtx(c)
	defer cancel()

	if _, _, err := h.members.RequireMemberByName(ctx, req.Username, roomName); err != nil {
		return h.writeError(c, "room-score", err)
	}
	rs, err := h.cards.RoomScore(ctx, req.Username, roomName)
	if err != nil {
		return h.writeError(c, "room-score", err)
	}
	return c.JSON(http.StatusOK, rs)
}
