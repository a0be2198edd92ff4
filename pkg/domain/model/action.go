package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jeetu-ai/jeetu/pkg/domain/types"
)

// ActionItemID is a UUID-based identifier for ActionItem
type ActionItemID string

// NewActionItemID generates a new UUID v7 ActionItemID
func NewActionItemID() ActionItemID {
	return ActionItemID(uuid.Must(uuid.NewV7()).String())
}

// Attribution carries who asked for an action and where, for shared contexts
type Attribution struct {
	UserID       string `json:"user_id,omitempty"`
	AssigneeID   string `json:"assignee_id,omitempty"`
	AssigneeName string `json:"assignee_name,omitempty"`
	SessionID    string `json:"session_id,omitempty"`
	Category     string `json:"category,omitempty"`
}

// ActionRequest is a single intent extracted from a message. It is never
// persisted; the executor turns it into a Record and an ActionItem.
type ActionRequest struct {
	Kind               types.ActionKind
	Title              string
	Description        string
	DueAt              *time.Time // nil means unscheduled
	Priority           types.Priority
	OriginatingMessage string
	Attribution        *Attribution
}

// ExecutionResult is the outcome of the persistence/scheduling call behind an action
type ExecutionResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	RecordID string `json:"record_id,omitempty"`
}

// ActionItem is a durable, lifecycle-tracked personal action
type ActionItem struct {
	ID          ActionItemID       `json:"id"`
	Kind        types.ActionKind   `json:"kind"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	DueAt       *time.Time         `json:"due_at,omitempty"`
	Priority    types.Priority     `json:"priority"`
	Status      types.ActionStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	CreatedBy   types.Origin       `json:"created_by"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	CancelledAt *time.Time         `json:"cancelled_at,omitempty"`

	LinkedMemoID      string `json:"linked_memo_id,omitempty"`
	LinkedMemoTitle   string `json:"linked_memo_title,omitempty"`
	LinkedGroupTaskID string `json:"linked_group_task_id,omitempty"`
	LinkedSessionID   string `json:"linked_session_id,omitempty"`

	ExecutionResult ExecutionResult `json:"execution_result"`
}

// ActionStats summarizes a user's action list
type ActionStats struct {
	Total               int `json:"total"`
	Pending             int `json:"pending"`
	Completed           int `json:"completed"`
	HighPriorityPending int `json:"high_priority_pending"`
}

// Record is the kind-specific durable entry (reminder, alarm, calendar event,
// task, notification) written into its own store partition
type Record struct {
	ID              string           `json:"id"`
	Kind            types.ActionKind `json:"kind"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	DueAt           *time.Time       `json:"due_at,omitempty"`
	Priority        types.Priority   `json:"priority"`
	CreatedAt       time.Time        `json:"created_at"`
	NotificationIDs []string         `json:"notification_ids,omitempty"`
}

// NewRecordID builds the "<kind>_<timestamp>" identifier of a record
func NewRecordID(kind types.ActionKind, at time.Time) string {
	return fmt.Sprintf("%s_%d", kind, at.UnixMilli())
}
