package batch

import (
	"context"
	"errors"
	"time"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
	"go.uber.org/zap"
)

// RunEvery runs the batch immediately and then on every tick of interval
// until ctx is done. Errors of a single run are logged, not returned.
func (r *Runner) RunEvery(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("batch interval must be positive")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := r.Run(ctx); err != nil {
			switch {
			case errors.Is(err, domain.ErrBatchInProgress):
				r.logger.Info("skipping scheduled run, previous run still active")
			case ctx.Err() != nil:
				return nil
			default:
				r.logger.Error("scheduled batch run failed", zap.Error(err))
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Running reports whether a run is in progress.
func (r *Runner) Running() bool {
	return r.running.Load()
}
