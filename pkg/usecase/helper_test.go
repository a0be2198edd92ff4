package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/domain/interfaces"
	"github.com/jeetu-ai/jeetu/pkg/domain/model"
	"github.com/jeetu-ai/jeetu/pkg/repository/memory"
	"github.com/jeetu-ai/jeetu/pkg/service/extraction"
	"github.com/jeetu-ai/jeetu/pkg/service/transport"
	"github.com/jeetu-ai/jeetu/pkg/usecase"
	"github.com/m-mizutani/gollem"
)

// Wednesday 2026-10-14 10:00 UTC
var testNow = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// mockExtraction returns canned model answers
type mockExtraction struct {
	mu        sync.Mutex
	extractFn func(ctx context.Context, input extraction.Input) (string, error)
	calls     []extraction.Input
}

func (m *mockExtraction) Extract(ctx context.Context, input extraction.Input) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, input)
	m.mu.Unlock()
	if m.extractFn != nil {
		return m.extractFn(ctx, input)
	}
	return `{"actions":[]}`, nil
}

func (m *mockExtraction) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func answer(text string) *mockExtraction {
	return &mockExtraction{
		extractFn: func(ctx context.Context, input extraction.Input) (string, error) {
			return text, nil
		},
	}
}

type scheduledCall struct {
	title        string
	body         string
	delaySeconds int
	id           string
}

// mockNotifier records scheduled and fired notifications
type mockNotifier struct {
	mu         sync.Mutex
	scheduled  []scheduledCall
	fired      []string
	scheduleFn func(id string) error
}

func (m *mockNotifier) ScheduleOneShot(ctx context.Context, title, body string, delaySeconds int, id string) (string, error) {
	if m.scheduleFn != nil {
		if err := m.scheduleFn(id); err != nil {
			return "", err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduled = append(m.scheduled, scheduledCall{title: title, body: body, delaySeconds: delaySeconds, id: id})
	return id, nil
}

func (m *mockNotifier) FireNow(ctx context.Context, title, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fired = append(m.fired, title+": "+body)
	return nil
}

func (m *mockNotifier) scheduledIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.scheduled))
	for _, s := range m.scheduled {
		ids = append(ids, s.id)
	}
	return ids
}

// mockTransport records group sends and delivers published messages
// through an in-process hub
type mockTransport struct {
	mu     sync.Mutex
	sent   []model.GroupMessage
	sendFn func(sessionID, message string) error

	hubOnce sync.Once
	hub     *transport.Hub
}

func (m *mockTransport) Send(ctx context.Context, sessionID, authorID, authorName, message string) error {
	if m.sendFn != nil {
		if err := m.sendFn(sessionID, message); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, model.GroupMessage{
		SessionID:  sessionID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       message,
	})
	return nil
}

func (m *mockTransport) subscribers() *transport.Hub {
	m.hubOnce.Do(func() { m.hub = transport.NewHub() })
	return m.hub
}

func (m *mockTransport) Subscribe(sessionID string, handler interfaces.MessageHandler) func() {
	return m.subscribers().Subscribe(sessionID, handler)
}

func (m *mockTransport) Publish(ctx context.Context, msg *model.GroupMessage) {
	m.subscribers().Publish(ctx, msg)
}

func (m *mockTransport) messages() []model.GroupMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.GroupMessage(nil), m.sent...)
}

func (m *mockTransport) textsContaining(substr string) int {
	n := 0
	for _, msg := range m.messages() {
		if strings.Contains(msg.Text, substr) {
			n++
		}
	}
	return n
}

// mockPusher records pushes per user
type mockPusher struct {
	mu     sync.Mutex
	pushed []string
}

func (m *mockPusher) Push(ctx context.Context, userID, title, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushed = append(m.pushed, userID)
	return nil
}

// failingStore wraps the memory store and fails writes to keys with a prefix
type failingStore struct {
	*memory.Memory
	failPrefix string
}

var errStoreDown = errors.New("store is down")

func (s *failingStore) Set(ctx context.Context, key, value string) error {
	if strings.HasPrefix(key, s.failPrefix) {
		return errStoreDown
	}
	return s.Memory.Set(ctx, key, value)
}

func (s *failingStore) Update(ctx context.Context, key string, fn func(old string) (string, error)) error {
	if strings.HasPrefix(key, s.failPrefix) {
		return errStoreDown
	}
	return s.Memory.Update(ctx, key, fn)
}

// slowStore adds latency to reads so concurrent writers overlap
type slowStore struct {
	*memory.Memory
	delay time.Duration
}

func (s *slowStore) Get(ctx context.Context, key string) (string, bool, error) {
	time.Sleep(s.delay)
	return s.Memory.Get(ctx, key)
}

func (s *slowStore) Update(ctx context.Context, key string, fn func(old string) (string, error)) error {
	return s.Memory.Update(ctx, key, func(old string) (string, error) {
		time.Sleep(s.delay)
		return fn(old)
	})
}

type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{
		Texts: []string{"Happy to help with that."},
	}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

type testEnv struct {
	store     *memory.Memory
	notifier  *mockNotifier
	transport *mockTransport
	pusher    *mockPusher
	uc        *usecase.UseCases
}

func newTestEnv(t *testing.T, opts ...usecase.Option) *testEnv {
	t.Helper()
	env := &testEnv{
		store:     memory.New(),
		notifier:  &mockNotifier{},
		transport: &mockTransport{},
		pusher:    &mockPusher{},
	}
	base := []usecase.Option{
		usecase.WithNotifier(env.notifier),
		usecase.WithTransport(env.transport),
		usecase.WithPusher(env.pusher),
		usecase.WithClock(fixedClock),
	}
	env.uc = usecase.New(env.store, append(base, opts...)...)
	return env
}
