// Package worker runs the periodic stale sweep on asynq.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/golf-scorecard/internal/service"
)

// TypeStaleSweep is the asynq task type of the sweep.
const TypeStaleSweep = "scorecard:stale-sweep"

// NewStaleSweepTask builds the payload-less sweep task.  A sweep that has not
// started within the schedule interval is pointless, hence the short
// retention settings.
func NewStaleSweepTask() *asynq.Task {
	return asynq.NewTask(TypeStaleSweep, nil, asynq.MaxRetry(1), asynq.Timeout(2*time.Minute))
}

// Sweeper is the part of service.Sweeper the task needs.
type Sweeper interface {
	Sweep(ctx context.Context) (service.SweepResult, error)
}

// SweepHandler processes TypeStaleSweep tasks.
type SweepHandler struct {
	sweeper Sweeper
	log     logrus.FieldLogger
}

func NewSweepHandler(s Sweeper, log logrus.FieldLogger) *SweepHandler {
	return &SweepHandler{sweeper: s, log: log}
}

func (h *SweepHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	start := time.Now()
	res, err := h.sweeper.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("stale sweep: %w", err)
	}
	h.log.WithFields(logrus.Fields{
		"users":    res.Users,
		"rooms":    res.Rooms,
		"duration": time.Since(start).String(),
	}).Debug("stale sweep task finished")
	return nil
}
