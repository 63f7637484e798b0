package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/golf-scorecard/internal/handler"  // scorecard and health handlers
	"github.com/iliyamo/golf-scorecard/internal/realtime" // websocket endpoint
)

// RegisterRoutes registers the unauthenticated service routes: a greeting at
// "/", liveness at "/healthz" and store readiness at "/readyz".
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterScorecard registers the scorecard API.  The paths match what the
// web client already calls, so they are not versioned.  Every route passes
// through the given rate limiter; nil disables limiting.
func RegisterScorecard(e *echo.Echo, h *handler.ScorecardHandler, limit echo.MiddlewareFunc) {
	g := e.Group("")
	if limit != nil {
		g.Use(limit)
	}
	g.POST("/join-room", h.JoinRoom)
	g.POST("/create-room", h.CreateRoom)
	// Reading the scorecard materializes missing scores, hence POST.
	g.POST("/room-score/:roomName", h.RoomScore)
	g.POST("/create-hole", h.CreateHole)
	g.POST("/remove-hole", h.RemoveHole)
	g.POST("/update-score", h.UpdateScore)
}

// RegisterRealtime exposes the websocket channel of a room.
func RegisterRealtime(e *echo.Echo, ws *realtime.Handler) {
	e.GET("/ws/rooms/:roomName", ws.Serve)
}
