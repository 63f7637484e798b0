package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/golf-scorecard/internal/config"
	"github.com/iliyamo/golf-scorecard/internal/database"
	"github.com/iliyamo/golf-scorecard/internal/handler"
	"github.com/iliyamo/golf-scorecard/internal/logger"
	"github.com/iliyamo/golf-scorecard/internal/middleware"
	"github.com/iliyamo/golf-scorecard/internal/queue"
	"github.com/iliyamo/golf-scorecard/internal/realtime"
	"github.com/iliyamo/golf-scorecard/internal/repository"
	"github.com/iliyamo/golf-scorecard/internal/router"
	"github.com/iliyamo/golf-scorecard/internal/service"
	"github.com/iliyamo/golf-scorecard/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)

	db, err := database.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.CreateSchema(ctx, db); err != nil {
		log.WithError(err).Fatal("create schema")
	}
	store := repository.NewSQLStore(db)

	// Redis is optional: without it there is no rate limit, room locks are
	// process-local and stale rooms are never swept.  The sweep also only runs
	// in production.
	var locker service.RoomLocker = service.NewLocalLocker()
	var limit echo.MiddlewareFunc
	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
		locker = service.NewRedisLocker(rdb, 10*time.Second)
		limit = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log)
	} else {
		log.Warn("redis unavailable; using local room locks, no rate limit, no stale sweep")
	}

	members := service.NewMembershipService(store, nil, log)
	hub := realtime.NewHub(log)
	defer hub.Close()

	var events handler.EventPublisher = hub
	if cfg.RabbitURL != "" {
		pub := queue.NewPublisher(cfg.RabbitURL, log)
		defer pub.Close()
		events = pub
		go func() {
			if err := queue.StartConsumer(ctx, cfg.RabbitURL, hub, log); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("room consumer stopped")
			}
		}()
	}

	if rdb != nil && cfg.IsProduction() {
		sweeper := service.NewSweeper(store, cfg.StaleAfter, log)
		runner := worker.NewRunner(asynq.RedisClientOpt{
			Addr:      rdb.Options().Addr,
			Password:  rdb.Options().Password,
			DB:        rdb.Options().DB,
			TLSConfig: rdb.Options().TLSConfig,
		}, cfg.SweepSchedule, worker.NewSweepHandler(sweeper, log), log)
		if err := runner.Start(); err != nil {
			log.WithError(err).Error("stale sweep worker not started")
		} else {
			defer runner.Shutdown()
		}
	}

	h := handler.NewScorecardHandler(
		members,
		service.NewScorecardService(store, log),
		service.NewHoleService(store, locker, log),
		service.NewScoreService(store, log),
		events, cfg.StoreTimeout, log,
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.CORS(cfg.FrontendURL))
	router.RegisterRoutes(e, db)
	router.RegisterScorecard(e, h, limit)
	router.RegisterRealtime(e, realtime.NewHandler(hub, members, cfg.FrontendURL, log))

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
}
