package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/golf-scorecard/internal/handler"
	"github.com/iliyamo/golf-scorecard/internal/logger"
	"github.com/iliyamo/golf-scorecard/internal/realtime"
	"github.com/iliyamo/golf-scorecard/internal/service"
	"github.com/iliyamo/golf-scorecard/internal/testutil"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func newScorecardHandler() (*handler.ScorecardHandler, *service.MembershipService, *realtime.Hub) {
	store := testutil.NewMemStore()
	log := logger.Discard()
	hub := realtime.NewHub(log)
	members := service.NewMembershipService(store, nil, log)
	h := handler.NewScorecardHandler(
		members,
		service.NewScorecardService(store, log),
		service.NewHoleService(store, service.NewLocalLocker(), log),
		service.NewScoreService(store, log),
		hub, time.Second, log,
	)
	return h, members, hub
}

func TestRoutesRegistered(t *testing.T) {
	e := echo.New()
	h, members, hub := newScorecardHandler()
	RegisterRoutes(e, okPinger{})
	RegisterScorecard(e, h, nil)
	RegisterRealtime(e, realtime.NewHandler(hub, members, "", logger.Discard()))

	var got []string
	for _, r := range e.Routes() {
		got = append(got, r.Method+" "+r.Path)
	}
	sort.Strings(got)
	assert.Equal(t, []string{
		"GET /",
		"GET /healthz",
		"GET /readyz",
		"GET /ws/rooms/:roomName",
		"POST /create-hole",
		"POST /create-room",
		"POST /join-room",
		"POST /remove-hole",
		"POST /room-score/:roomName",
		"POST /update-score",
	}, got)
}

func TestScorecardRoutesPassThroughLimiter(t *testing.T) {
	e := echo.New()
	h, _, _ := newScorecardHandler()
	hits := 0
	RegisterScorecard(e, h, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			hits++
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
		}
	})
	RegisterRoutes(e, okPinger{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/create-room", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, hits)
}
