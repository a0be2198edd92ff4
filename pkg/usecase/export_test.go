package usecase

import "github.com/jeetu-ai/jeetu/pkg/domain/types"

// ExtractTaskTitle is exported for testing
var ExtractTaskTitle = extractTaskTitle

// ResolveAssignee is exported for testing
var ResolveAssignee = resolveAssignee

// ContainsKeyword is exported for testing
var ContainsKeyword = containsKeyword

// ReminderText is exported for testing
var ReminderText = reminderText

// ConfirmationText is exported for testing
var ConfirmationText = confirmationText

// MembersFromHistory is exported for testing
var MembersFromHistory = membersFromHistory

// Store keys are exported for testing
var (
	ActionsKey            = actionsKey
	RecordsKey            = recordsKey
	SharedTasksKey        = sharedTasksKey
	MessagesKey           = messagesKey
	SharedTaskSessionsKey = sharedTaskSessionsKey
)

// RuleReasons lists the reasons of the decision table in evaluation order
func (h *ResponseHeuristic) RuleReasons() []types.ResponseReason {
	reasons := make([]types.ResponseReason, len(h.rules))
	for i, r := range h.rules {
		reasons[i] = r.reason
	}
	return reasons
}
