package notification

import (
	"context"
	"math"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/domain/interfaces"
	"github.com/jeetu-ai/jeetu/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Scheduler turns a target instant into a one-shot notification. Past or
// present instants fire immediately; future ones are deferred by whole
// seconds, never less than one.
type Scheduler struct {
	notifier interfaces.Notifier
	now      func() time.Time
}

type SchedulerOption func(*Scheduler)

// WithClock replaces time.Now
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.now = now
	}
}

func NewScheduler(notifier interfaces.Notifier, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule delivers title/body at triggerAt and returns the scheduled ID. id
// is chosen by the caller; scheduling the same id again replaces the pending
// notification.
func (s *Scheduler) Schedule(ctx context.Context, title, body string, triggerAt time.Time, id string) (string, error) {
	delta := triggerAt.Sub(s.now())

	if delta <= 0 {
		if err := s.notifier.FireNow(ctx, title, body); err != nil {
			return "", goerr.Wrap(err, "failed to fire notification", goerr.V("id", id))
		}
		logging.From(ctx).Debug("notification fired immediately", "id", id, "trigger_at", triggerAt)
		return id, nil
	}

	delay := DelaySeconds(delta)
	scheduledID, err := s.notifier.ScheduleOneShot(ctx, title, body, delay, id)
	if err != nil {
		return "", goerr.Wrap(err, "failed to schedule notification",
			goerr.V("id", id),
			goerr.V("delay_seconds", delay))
	}

	logging.From(ctx).Debug("notification scheduled", "id", scheduledID, "delay_seconds", delay)
	return scheduledID, nil
}

// DelaySeconds is floor(delta) in seconds with a minimum of one
func DelaySeconds(delta time.Duration) int {
	secs := int(math.Floor(delta.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
