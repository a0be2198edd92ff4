package usecase

import (
	"time"

	"github.com/jeetu-ai/jeetu/pkg/service/timeexpr"
)

// Policy holds the tunable constants of action handling. The zero value is
// not useful; start from DefaultPolicy.
type Policy struct {
	// Keywords gate the language model call; a message must contain one
	Keywords []string

	// Fallback is the trigger time for tasks and unresolved reminders
	Fallback timeexpr.Fallback

	// CalendarLead is how long before an event the upcoming notification fires
	CalendarLead time.Duration

	// LLMTimeout bounds a single extraction call
	LLMTimeout time.Duration

	// BreakerFailures consecutive failures open the LLM circuit breaker for BreakerCooldown
	BreakerFailures uint32
	BreakerCooldown time.Duration

	// AssistantName is the name users address the assistant by in groups
	AssistantName string

	// ReminderWindow is how far ahead of the due time a shared task reminder goes out
	ReminderWindow time.Duration

	// HistorySize is the number of recent group messages kept per session
	HistorySize int
}

// DefaultKeywords is the extraction pre-filter vocabulary
var DefaultKeywords = []string{
	"remind", "alarm", "notification", "schedule", "create", "set",
	"task", "event", "meeting", "call", "email", "follow up",
}

func DefaultPolicy() Policy {
	return Policy{
		Keywords:        append([]string(nil), DefaultKeywords...),
		Fallback:        timeexpr.DefaultFallback,
		CalendarLead:    15 * time.Minute,
		LLMTimeout:      30 * time.Second,
		BreakerFailures: 3,
		BreakerCooldown: time.Minute,
		AssistantName:   "jeetu",
		ReminderWindow:  24 * time.Hour,
		HistorySize:     50,
	}
}
