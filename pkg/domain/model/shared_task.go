package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/jeetu-ai/jeetu/pkg/domain/types"
)

// SharedTaskID is a UUID-based identifier for SharedTask
type SharedTaskID string

// NewSharedTaskID generates a new UUID v7 SharedTaskID
func NewSharedTaskID() SharedTaskID {
	return SharedTaskID(uuid.Must(uuid.NewV7()).String())
}

// SharedTask is a task captured in a group conversation. When it has an
// assignee, a personal ActionItem mirrors it in the assignee's list.
type SharedTask struct {
	ID           SharedTaskID           `json:"id"`
	SessionID    string                 `json:"session_id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	AssigneeID   string                 `json:"assignee_id,omitempty"`
	AssigneeName string                 `json:"assignee_name,omitempty"`
	CreatedBy    string                 `json:"created_by"`
	CreatedAt    time.Time              `json:"created_at"`
	DueAt        *time.Time             `json:"due_at,omitempty"`
	Status       types.SharedTaskStatus `json:"status"`

	// ReminderSent flips false->true at most once
	ReminderSent bool `json:"reminder_sent"`

	// LinkedPersonalActionID is immutable once set
	LinkedPersonalActionID ActionItemID `json:"linked_personal_action_id,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy string     `json:"completed_by,omitempty"`
}

// HasAssignee reports whether the task was assigned to a known member
func (t *SharedTask) HasAssignee() bool {
	return t.AssigneeID != ""
}

// NeedsReminder reports whether the sweep should remind about this task at now
func (t *SharedTask) NeedsReminder(now time.Time, window time.Duration) bool {
	if t.Status == types.SharedTaskStatusCompleted || t.ReminderSent || t.DueAt == nil {
		return false
	}
	return !t.DueAt.After(now.Add(window))
}

// IsOverdue reports whether the due time has already passed at now
func (t *SharedTask) IsOverdue(now time.Time) bool {
	return t.DueAt != nil && t.DueAt.Before(now)
}
