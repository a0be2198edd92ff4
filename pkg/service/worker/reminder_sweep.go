package worker

import (
	"context"
	"sync"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/utils/errutil"
	"github.com/jeetu-ai/jeetu/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Sweeper sends the reminders of shared tasks that are due
type Sweeper interface {
	CheckAndSendReminders(ctx context.Context) (int, error)
}

// ReminderSweepWorker runs the shared task reminder sweep on an interval
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Each task is reminded at most once, so an overlapping sweep from a CLI run is harmless
type ReminderSweepWorker struct {
	sweeper  Sweeper
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewReminderSweepWorker creates a new worker for the reminder sweep
func NewReminderSweepWorker(sweeper Sweeper, interval time.Duration) *ReminderSweepWorker {
	return &ReminderSweepWorker{
		sweeper:  sweeper,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop. The first sweep runs immediately
// in the background and does not block server startup.
func (w *ReminderSweepWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("sweep interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Reminder sweep worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *ReminderSweepWorker) Stop() {
	w.stopOnce.Do(func() {
		logging.Default().Info("Reminder sweep worker stopping")
		close(w.stopCh)
		<-w.doneCh
		logging.Default().Info("Reminder sweep worker stopped")
	})
}

func (w *ReminderSweepWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Reminder sweep worker context cancelled")
			return
		}
	}
}

// sweep runs one cycle; failures are logged and retried on the next tick
func (w *ReminderSweepWorker) sweep(ctx context.Context) {
	startTime := time.Now()

	sent, err := w.sweeper.CheckAndSendReminders(ctx)
	if err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "reminder sweep failed"), "reminder sweep failed (will retry next interval)")
		return
	}

	logging.Default().Debug("Reminder sweep completed",
		"sent", sent,
		"duration", time.Since(startTime).String())
}
