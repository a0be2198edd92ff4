package model

// ExecutionOutcome is what the single-action executor produced. Warnings
// collect non-fatal side-effect failures such as a notification that could
// not be scheduled.
type ExecutionOutcome struct {
	Record   *Record
	Result   ExecutionResult
	Warnings []string
}

// ExtractionStatus tells the caller why an extraction produced what it did
type ExtractionStatus string

const (
	// ExtractionStatusNoAction means no actionable intent was found
	ExtractionStatusNoAction ExtractionStatus = "no_action"
	// ExtractionStatusCreated means at least one action item was created
	ExtractionStatusCreated ExtractionStatus = "created"
	// ExtractionStatusUnavailable means the language model could not be reached
	ExtractionStatusUnavailable ExtractionStatus = "unavailable"
	// ExtractionStatusFailed means actions were detected but none could be created
	ExtractionStatusFailed ExtractionStatus = "failed"
)

// ExtractionResult is the outcome of processing one message for actions
type ExtractionResult struct {
	Status   ExtractionStatus `json:"status"`
	Items    []*ActionItem    `json:"items"`
	Warnings []string         `json:"warnings,omitempty"`
}

// TaskCapture is the outcome of capturing a task from a group message
type TaskCapture struct {
	Task         *SharedTask `json:"task"`
	MirroredItem *ActionItem `json:"mirrored_item,omitempty"`
	Confirmation string      `json:"confirmation"`
	Warnings     []string    `json:"warnings,omitempty"`
}
