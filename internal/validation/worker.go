package validation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Worker periodically validates pending fights in batches and purges
// expired records.
type Worker struct {
	validator *Validator
	store     Store
	logger    *zap.Logger
	interval  time.Duration
	batch     int
	now       func() time.Time

	mu   sync.Mutex
	stop context.CancelFunc
}

// NewWorker creates a Worker that polls every interval for up to batch
// pending fights.
//
// Precondition: interval > 0; batch >= 1.
func NewWorker(v *Validator, store Store, logger *zap.Logger, interval time.Duration, batch int) *Worker {
	if interval <= 0 {
		panic("validation.NewWorker: interval must be > 0")
	}
	if batch < 1 {
		panic("validation.NewWorker: batch must be >= 1")
	}
	return &Worker{
		validator: v,
		store:     store,
		logger:    logger,
		interval:  interval,
		batch:     batch,
		now:       time.Now,
	}
}

// Start runs the poll loop until ctx is cancelled or Stop is called. The
// first batch runs immediately.
func (w *Worker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.stop = cancel
	w.mu.Unlock()
	defer cancel()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		w.RunOnce(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Stop ends a running Start loop.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stop != nil {
		w.stop()
	}
}

// RunOnce validates one batch of pending fights and deletes expired ones.
// Failures are logged; the next poll retries.
//
// Postcondition: returns the number of fights validated.
func (w *Worker) RunOnce(ctx context.Context) int {
	if n, err := w.store.DeleteExpired(ctx, w.now()); err != nil {
		w.logger.Error("deleting expired fights", zap.Error(err))
	} else if n > 0 {
		w.logger.Info("expired fights deleted", zap.Int64("count", n))
	}

	pending, err := w.store.ListPending(ctx, w.batch)
	if err != nil {
		w.logger.Error("listing pending fights", zap.Error(err))
		return 0
	}
	done := 0
	for _, f := range pending {
		if ctx.Err() != nil {
			break
		}
		if _, err := w.validator.validate(ctx, f); err != nil {
			w.logger.Error("validating fight", zap.String("fight", f.ID.String()), zap.Error(err))
			continue
		}
		done++
	}
	return done
}
