package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/observability"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
	log *zap.Logger
}

func New(ctx context.Context, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{ctx: ctx, log: log}
}

// Every runs fn on each tick until the runner's context is done.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				r.runOnce(name, fn)
			}
		}
	}()
}

func (r *Runner) runOnce(name string, fn Job) {
	start := time.Now()
	outcome := outcomeOK
	defer func() {
		if p := recover(); p != nil {
			outcome = outcomePanic
			observability.CaptureErr(fmt.Errorf("panic in job %s: %v", name, p))
			r.log.Error("job panic", zap.String("job", name), zap.Any("panic", p))
		}
		jobRuns.WithLabelValues(name, outcome).Inc()
		jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if outcome == outcomeOK {
			jobLastSuccess.WithLabelValues(name).SetToCurrentTime()
		}
	}()
	if err := fn(r.ctx); err != nil {
		outcome = outcomeError
		observability.CaptureErr(err)
		r.log.Warn("job failed", zap.String("job", name), zap.Error(err))
	}
}
