package memory

import (
	"context"
	"sync"

	"github.com/jeetu-ai/jeetu/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// Memory is an in-process Store. It is used for development and tests; all
// data is lost when the process exits.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

var _ interfaces.Store = &Memory{}

func New() *Memory {
	return &Memory{
		values: make(map[string]string),
	}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, goerr.Wrap(ErrClosed, "failed to get value", goerr.V("key", key))
	}

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return goerr.New("key is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return goerr.Wrap(ErrClosed, "failed to set value", goerr.V("key", key))
	}

	m.values[key] = value
	return nil
}

func (m *Memory) Update(ctx context.Context, key string, fn func(old string) (string, error)) error {
	if key == "" {
		return goerr.New("key is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return goerr.Wrap(ErrClosed, "failed to update value", goerr.V("key", key))
	}

	value, err := fn(m.values[key])
	if err != nil {
		return err
	}
	m.values[key] = value
	return nil
}

// Keys returns every stored key. It exists for diagnostics and tests.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	return keys
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
