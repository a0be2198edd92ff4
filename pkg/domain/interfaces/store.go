package interfaces

import "context"

// Store is the persistent key-value service that backs every partition
// (action items, shared tasks, kind-specific records, message windows).
// Values are opaque strings; callers own the encoding.
type Store interface {
	// Get returns the value stored under key. found is false when the key
	// has never been written.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error

	// Update replaces the value under key with the result of fn as one
	// atomic step. fn receives "" when the key has never been written. It
	// may be called more than once and must not use the store itself. An
	// error from fn aborts the update and is returned unchanged in its chain.
	Update(ctx context.Context, key string, fn func(old string) (string, error)) error

	// Close releases resources held by the backend
	Close() error
}
