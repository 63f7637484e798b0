package handler

// This file holds the scorecard HTTP handlers.  Every handler validates its
// body, checks room membership where the operation is room scoped, calls one
// service operation under the store timeout and, on success, publishes a
// refresh hint for the other members of the room.

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/golf-scorecard/internal/queue"
)

// ScorecardHandler groups the services behind the scorecard endpoints.
type ScorecardHandler struct {
	members Members
	cards   Scorecards
	holes   Holes
	scores  Scores
	events  EventPublisher
	timeout time.Duration
	log     logrus.FieldLogger
}

// NewScorecardHandler wires the handlers.  All dependencies must be non-nil.
func NewScorecardHandler(members Members, cards Scorecards, holes Holes, scores Scores,
	events EventPublisher, timeout time.Duration, log logrus.FieldLogger) *ScorecardHandler {
	if members == nil || cards == nil || holes == nil || scores == nil || events == nil {
		panic("nil dependency passed to NewScorecardHandler")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ScorecardHandler{
		members: members,
		cards:   cards,
		holes:   holes,
		scores:  scores,
		events:  events,
		timeout: timeout,
		log:     log,
	}
}

func (h *ScorecardHandler) storeCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), h.timeout)
}

// notify publishes ev without holding up the response.  Hints are best
// effort; the publisher logs its own failures.
func (h *ScorecardHandler) notify(ev queue.RoomEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = h.events.Publish(ctx, ev)
	}()
}

// Root answers GET / with a greeting so a browser hitting the API sees
// something.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "golf scorecard api"})
}
