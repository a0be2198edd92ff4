package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/service/worker"
	"github.com/m-mizutani/gt"
)

type mockSweeper struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *mockSweeper) CheckAndSendReminders(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	return 1, nil
}

func (m *mockSweeper) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockSweeper) setError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func TestReminderSweepWorker_ImmediateInitialSweep(t *testing.T) {
	sweeper := &mockSweeper{}
	w := worker.NewReminderSweepWorker(sweeper, time.Hour)

	gt.NoError(t, w.Start(context.Background())).Required()
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	gt.Number(t, sweeper.count()).Equal(1)
}

func TestReminderSweepWorker_PeriodicSweep(t *testing.T) {
	sweeper := &mockSweeper{}
	w := worker.NewReminderSweepWorker(sweeper, 50*time.Millisecond)

	gt.NoError(t, w.Start(context.Background())).Required()
	defer w.Stop()

	time.Sleep(180 * time.Millisecond)
	if sweeper.count() < 3 {
		t.Errorf("expected at least 3 sweeps, got %d", sweeper.count())
	}
}

func TestReminderSweepWorker_ContinuesAfterErrors(t *testing.T) {
	sweeper := &mockSweeper{}
	sweeper.setError(errors.New("store unavailable"))
	w := worker.NewReminderSweepWorker(sweeper, 30*time.Millisecond)

	gt.NoError(t, w.Start(context.Background())).Required()
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	sweeper.setError(nil)
	time.Sleep(100 * time.Millisecond)

	if sweeper.count() < 3 {
		t.Errorf("expected the worker to keep sweeping, got %d sweeps", sweeper.count())
	}
}

func TestReminderSweepWorker_StopsCleanly(t *testing.T) {
	sweeper := &mockSweeper{}
	w := worker.NewReminderSweepWorker(sweeper, time.Hour)

	gt.NoError(t, w.Start(context.Background())).Required()
	time.Sleep(20 * time.Millisecond)

	stopStart := time.Now()
	w.Stop()
	w.Stop()
	if d := time.Since(stopStart); d > time.Second {
		t.Errorf("Stop() took too long: %v", d)
	}

	calls := sweeper.count()
	time.Sleep(50 * time.Millisecond)
	gt.Number(t, sweeper.count()).Equal(calls)
}

func TestReminderSweepWorker_ContextCancel(t *testing.T) {
	sweeper := &mockSweeper{}
	w := worker.NewReminderSweepWorker(sweeper, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	gt.NoError(t, w.Start(ctx)).Required()
	cancel()

	// Stop still returns once the loop has exited on its own
	w.Stop()
}

func TestReminderSweepWorker_RejectsZeroInterval(t *testing.T) {
	w := worker.NewReminderSweepWorker(&mockSweeper{}, 0)
	gt.Error(t, w.Start(context.Background()))
}
