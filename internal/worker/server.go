package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// Runner owns the asynq server that executes sweeps and the scheduler that
// enqueues them.
type Runner struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	schedule  string
	log       logrus.FieldLogger
}

// NewRunner prepares a worker and a scheduler on the given Redis.  Nothing
// runs until Start.
func NewRunner(redisOpt asynq.RedisConnOpt, schedule string, h *SweepHandler, log logrus.FieldLogger) *Runner {
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{"maintenance": 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.WithError(err).WithField("task", task.Type()).Error("asynq task failed")
		}),
		Logger: asynqLogger{log},
	})
	mux := asynq.NewServeMux()
	mux.Handle(TypeStaleSweep, h)

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Logger: asynqLogger{log}})
	return &Runner{server: server, scheduler: scheduler, mux: mux, schedule: schedule, log: log}
}

// Start registers the periodic sweep and starts the server and scheduler in
// the background.
func (r *Runner) Start() error {
	entryID, err := r.scheduler.Register(r.schedule, NewStaleSweepTask(), asynq.Queue("maintenance"))
	if err != nil {
		return fmt.Errorf("register stale sweep: %w", err)
	}
	r.log.WithFields(logrus.Fields{"schedule": r.schedule, "entry": entryID}).Info("stale sweep scheduled")

	if err := r.server.Start(r.mux); err != nil {
		return fmt.Errorf("start asynq server: %w", err)
	}
	if err := r.scheduler.Start(); err != nil {
		r.server.Shutdown()
		return fmt.Errorf("start asynq scheduler: %w", err)
	}
	return nil
}

// Shutdown stops the scheduler first so no new sweeps are enqueued.
func (r *Runner) Shutdown() {
	r.scheduler.Shutdown()
	r.server.Shutdown()
}

// asynqLogger routes asynq's internal logging through logrus.
type asynqLogger struct {
	log logrus.FieldLogger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug(args...) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info(args...) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn(args...) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error(args...) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Fatal(args...) }
