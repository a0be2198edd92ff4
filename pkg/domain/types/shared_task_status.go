package types

import "fmt"

// SharedTaskStatus represents the status of a task captured in a group conversation
type SharedTaskStatus string

const (
	SharedTaskStatusPending    SharedTaskStatus = "pending"
	SharedTaskStatusInProgress SharedTaskStatus = "in_progress"
	SharedTaskStatusCompleted  SharedTaskStatus = "completed"
)

// IsValid checks if the shared task status is valid
func (s SharedTaskStatus) IsValid() bool {
	switch s {
	case SharedTaskStatusPending,
		SharedTaskStatusInProgress,
		SharedTaskStatusCompleted:
		return true
	default:
		return false
	}
}

// String returns the string representation of the shared task status
func (s SharedTaskStatus) String() string {
	return string(s)
}

// ParseSharedTaskStatus parses a string into a SharedTaskStatus
func ParseSharedTaskStatus(s string) (SharedTaskStatus, error) {
	status := SharedTaskStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid shared task status: %s", s)
	}
	return status, nil
}
