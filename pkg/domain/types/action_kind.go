package types

import (
	"fmt"
	"strings"
)

// ActionKind is the kind of obligation an action request turns into
type ActionKind string

const (
	ActionKindReminder     ActionKind = "reminder"
	ActionKindAlarm        ActionKind = "alarm"
	ActionKindNotification ActionKind = "notification"
	ActionKindCalendar     ActionKind = "calendar"
	ActionKindTask         ActionKind = "task"
)

// AllActionKinds returns all valid action kinds
func AllActionKinds() []ActionKind {
	return []ActionKind{
		ActionKindReminder,
		ActionKindAlarm,
		ActionKindNotification,
		ActionKindCalendar,
		ActionKindTask,
	}
}

// IsValid checks if the action kind is valid
func (k ActionKind) IsValid() bool {
	switch k {
	case ActionKindReminder,
		ActionKindAlarm,
		ActionKindNotification,
		ActionKindCalendar,
		ActionKindTask:
		return true
	default:
		return false
	}
}

// NeedsTriggerTime reports whether an unresolved due time must be replaced by
// the policy default instead of leaving the action unscheduled.
func (k ActionKind) NeedsTriggerTime() bool {
	switch k {
	case ActionKindReminder, ActionKindAlarm, ActionKindTask:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action kind
func (k ActionKind) String() string {
	return string(k)
}

// ParseActionKind parses a string into an ActionKind. Matching is case-insensitive
// and "event" is accepted as an alias of calendar.
func ParseActionKind(s string) (ActionKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "event" {
		normalized = string(ActionKindCalendar)
	}
	kind := ActionKind(normalized)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid action kind: %s", s)
	}
	return kind, nil
}
