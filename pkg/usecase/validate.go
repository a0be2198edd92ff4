package usecase

import (
	"context"

	"github.com/jeetu-ai/jeetu/pkg/domain/model"
	"github.com/jeetu-ai/jeetu/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ValidationIssue represents a single inconsistency between shared tasks and
// their personal mirrors
type ValidationIssue struct {
	SessionID    string
	SharedTaskID model.SharedTaskID
	UserID       string
	Message      string
	Expected     string
	Actual       string
}

// ValidationResult holds the results of store validation
type ValidationResult struct {
	Issues []ValidationIssue
}

// HasIssues returns true if there are any validation issues
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// AddIssue adds a validation issue to the result
func (r *ValidationResult) AddIssue(issue ValidationIssue) {
	r.Issues = append(r.Issues, issue)
}

// ValidateStore checks that every assigned shared task has a linked personal
// item pointing back to it, and that completed mirrors were synced back. It
// does NOT modify any data.
func (uc *UseCases) ValidateStore(ctx context.Context) (*ValidationResult, error) {
	result := &ValidationResult{}

	sessions, err := uc.GroupTask.Sessions(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load shared task sessions")
	}

	actionsByUser := map[string][]*model.ActionItem{}
	for _, sessionID := range sessions {
		tasks, err := uc.GroupTask.SharedTasks(ctx, sessionID)
		if err != nil {
			result.AddIssue(ValidationIssue{
				SessionID: sessionID,
				Message:   "shared task list cannot be decoded",
				Expected:  "JSON list",
				Actual:    err.Error(),
			})
			continue
		}

		for _, task := range tasks {
			if !task.HasAssignee() {
				continue
			}

			if task.LinkedPersonalActionID == "" {
				result.AddIssue(ValidationIssue{
					SessionID:    sessionID,
					SharedTaskID: task.ID,
					UserID:       task.AssigneeID,
					Message:      "assigned task has no personal mirror",
					Expected:     "linked personal action",
					Actual:       "<none>",
				})
				continue
			}

			items, ok := actionsByUser[task.AssigneeID]
			if !ok {
				items, err = uc.Lifecycle.GetAll(ctx, task.AssigneeID)
				if err != nil {
					return nil, goerr.Wrap(err, "failed to load action items",
						goerr.V(UserIDKey, task.AssigneeID))
				}
				actionsByUser[task.AssigneeID] = items
			}

			item := findItem(items, task.LinkedPersonalActionID)
			switch {
			case item == nil:
				// Deleting the personal item is allowed; the task simply loses its mirror
				continue
			case item.LinkedGroupTaskID != string(task.ID):
				result.AddIssue(ValidationIssue{
					SessionID:    sessionID,
					SharedTaskID: task.ID,
					UserID:       task.AssigneeID,
					Message:      "personal mirror points to another task",
					Expected:     string(task.ID),
					Actual:       item.LinkedGroupTaskID,
				})
			case item.Status == types.ActionStatusCompleted && task.Status != types.SharedTaskStatusCompleted:
				result.AddIssue(ValidationIssue{
					SessionID:    sessionID,
					SharedTaskID: task.ID,
					UserID:       task.AssigneeID,
					Message:      "personal mirror completed but task was not synced",
					Expected:     types.SharedTaskStatusCompleted.String(),
					Actual:       task.Status.String(),
				})
			}
		}
	}

	return result, nil
}

func findItem(items []*model.ActionItem, id model.ActionItemID) *model.ActionItem {
	for _, item := range items {
		if item.ID == id {
			return item
		}
	}
	return nil
}
