package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/golf-scorecard/internal/queue"
)

type createHoleRequest struct {
	Username string `json:"username"`
	RoomID   *int64 `json:"roomId"`
	// HoleNumber is what the client believes the next number is.  The
	// server always picks the number itself.
	HoleNumber *int `json:"holeNumber"`
	Par        *int `json:"par"`
}

type removeHoleRequest struct {
	Username string `json:"username"`
	RoomID   *int64 `json:"roomId"`
	HoleID   *int64 `json:"holeId"`
}

// CreateHole handles POST /create-hole.
func (h *ScorecardHandler) CreateHole(c echo.Context) error {
	var req createHoleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.RoomID == nil || req.Par == nil {
		return badRequest(c, "roomId and par are required")
	}
	if req.HoleNumber != nil && *req.HoleNumber < 0 {
		return badRequest(c, "holeNumber must not be negative")
	}
	ctx, cancel := h.storeCtx(c)
	defer cancel()

	user, room, err := h.members.RequireMember(ctx, req.Username, *req.RoomID)
	if err != nil {
		return h.writeError(c, "create-hole", err)
	}
	hole, err := h.holes.CreateHole(ctx, room.ID, *req.Par)
	if err != nil {
		return h.writeError(c, "create-hole", err)
	}
	h.notify(queue.RoomEvent{RoomID: room.ID, Room: room.Name, Reason: queue.ReasonHoleCreated, ByUserID: user.ID, By: user.Name})
	return c.JSON(http.StatusOK, hole)
}

// RemoveHole handles POST /remove-hole.  Later holes are renumbered.
func (h *ScorecardHandler) RemoveHole(c echo.Context) error {
	var req removeHoleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.RoomID == nil || req.HoleID == nil {
		return badRequest(c, "roomId and holeId are required")
	}
	ctx, cancel := h.storeCtx(c)
	defer cancel()

	user, room, err := h.members.RequireMember(ctx, req.Username, *req.RoomID)
	if err != nil {
		return h.writeError(c, "remove-hole", err)
	}
	if err := h.holes.RemoveHole(ctx, *req.HoleID, room.ID); err != nil {
		return h.writeError(c, "remove-hole", err)
	}
	h.notify(queue.RoomEvent{RoomID: room.ID, Room: room.Name, Reason: queue.ReasonHoleRemoved, ByUserID: user.ID, By: user.Name})
	return c.NoContent(http.StatusOK)
}
