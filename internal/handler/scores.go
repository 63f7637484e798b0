package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/golf-scorecard/internal/queue"
)

type updateScoreRequest struct {
	UserScoreID *int64 `json:"userScoreId"`
	UserID      *int64 `json:"userId"`
	Score       *int   `json:"score"`
}

// UpdateScore handles POST /update-score.  The userId in the body is the
// claimed owner; a score owned by anyone else is rejected with 403.
func (h *ScorecardHandler) UpdateScore(c echo.Context) error {
	var req updateScoreRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.UserScoreID == nil || req.UserID == nil || req.Score == nil {
		return badRequest(c, "userScoreId, userId and score are required")
	}
	ctx, cancel := h.storeCtx(c)
	defer cancel()

	up, err := h.scores.UpdateScore(ctx, *req.UserScoreID, *req.UserID, *req.Score)
	if err != nil {
		return h.writeError(c, "update-score", err)
	}
	h.notify(queue.RoomEvent{RoomID: up.Room.ID, Room: up.Room.Name, Reason: queue.ReasonScore, ByUserID: up.Score.UserID})
	return c.JSON(http.StatusOK, up.Score)
}
