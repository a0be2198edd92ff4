package notification

import (
	"context"
	"sync"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/domain/interfaces"
	"github.com/jeetu-ai/jeetu/pkg/utils/errutil"
	"github.com/jeetu-ai/jeetu/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Deliverer shows a notification to the user, e.g. by posting to Slack
type Deliverer interface {
	Deliver(ctx context.Context, title, body string) error
}

// LogDeliverer writes notifications to the logger. It is the deliverer used
// when no chat integration is configured.
type LogDeliverer struct{}

func (LogDeliverer) Deliver(ctx context.Context, title, body string) error {
	logging.From(ctx).Info("notification", "title", title, "body", body)
	return nil
}

// TimerNotifier is an in-process Notifier built on time.AfterFunc. Pending
// notifications are lost when the process exits.
type TimerNotifier struct {
	deliverer Deliverer
	mu        sync.Mutex
	timers    map[string]*time.Timer
	closed    bool
}

var _ interfaces.Notifier = &TimerNotifier{}

func NewTimerNotifier(deliverer Deliverer) *TimerNotifier {
	if deliverer == nil {
		deliverer = LogDeliverer{}
	}
	return &TimerNotifier{
		deliverer: deliverer,
		timers:    make(map[string]*time.Timer),
	}
}

func (n *TimerNotifier) ScheduleOneShot(ctx context.Context, title, body string, delaySeconds int, id string) (string, error) {
	if id == "" {
		return "", goerr.New("notification id is required")
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return "", goerr.New("notifier is closed", goerr.V("id", id))
	}

	if prev, ok := n.timers[id]; ok {
		prev.Stop()
	}

	// The request context may be gone when the timer fires
	logger := logging.From(ctx)
	var timer *time.Timer
	timer = time.AfterFunc(time.Duration(delaySeconds)*time.Second, func() {
		n.mu.Lock()
		if n.timers[id] == timer {
			delete(n.timers, id)
		}
		n.mu.Unlock()

		fireCtx := logging.With(context.Background(), logger)
		if err := n.deliverer.Deliver(fireCtx, title, body); err != nil {
			errutil.Handle(fireCtx, goerr.Wrap(err, "timer fired", goerr.V("id", id)), "failed to deliver notification")
		}
	})
	n.timers[id] = timer

	return id, nil
}

func (n *TimerNotifier) FireNow(ctx context.Context, title, body string) error {
	if err := n.deliverer.Deliver(ctx, title, body); err != nil {
		return goerr.Wrap(err, "failed to deliver notification")
	}
	return nil
}

// Pending returns the number of notifications waiting to fire
func (n *TimerNotifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.timers)
}

// Close cancels every pending notification
func (n *TimerNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, t := range n.timers {
		t.Stop()
		delete(n.timers, id)
	}
	n.closed = true
}
