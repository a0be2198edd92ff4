package interfaces

import "context"

// Notifier is the OS-level one-shot notification primitive
type Notifier interface {
	// ScheduleOneShot fires a notification after delaySeconds. Scheduling again
	// with the same id replaces the pending notification.
	ScheduleOneShot(ctx context.Context, title, body string, delaySeconds int, id string) (string, error)

	// FireNow delivers a notification immediately
	FireNow(ctx context.Context, title, body string) error
}

// Pusher delivers a push notification to a specific user
type Pusher interface {
	Push(ctx context.Context, userID, title, body string) error
}
