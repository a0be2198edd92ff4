package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrActionNotFound     = errors.New("action not found")
	ErrSharedTaskNotFound = errors.New("shared task not found")

	// Request errors
	ErrInvalidRequest = errors.New("invalid action request")

	// Collaborator errors
	ErrPersistFailed  = errors.New("failed to persist record")
	ErrLLMUnavailable = errors.New("language model unavailable")
)

// Context keys for error values
const (
	UserIDKey       = "user_id"
	ActionIDKey     = "action_id"
	SessionIDKey    = "session_id"
	SharedTaskIDKey = "shared_task_id"
	KindKey         = "kind"
	RecordIDKey     = "record_id"
	StoreKeyKey     = "store_key"
	CauseKey        = "cause"
)
