package usecase

import (
	"context"

	"github.com/jeetu-ai/jeetu/pkg/domain/model"
	"github.com/jeetu-ai/jeetu/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

// CompleteResult is the outcome of completing a personal action item
type CompleteResult struct {
	Item *model.ActionItem `json:"item"`
	// Synced is true when a linked shared task was completed as well
	Synced bool `json:"synced"`
}

// ActionUseCase is the user-facing entry point for changing action items. It
// keeps linked shared tasks in step with their personal mirrors.
type ActionUseCase struct {
	lifecycle *LifecycleUseCase
	tasks     *GroupTaskUseCase
}

func NewActionUseCase(lifecycle *LifecycleUseCase, tasks *GroupTaskUseCase) *ActionUseCase {
	return &ActionUseCase{
		lifecycle: lifecycle,
		tasks:     tasks,
	}
}

// Complete marks the item completed and, when it mirrors a shared task,
// completes the task and announces it to the group. A sync failure is logged
// and does not undo the completion.
func (uc *ActionUseCase) Complete(ctx context.Context, userID, userName string, id model.ActionItemID) (*CompleteResult, error) {
	item, err := uc.lifecycle.Complete(ctx, userID, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to complete action", goerr.V(ActionIDKey, id))
	}
	if item == nil {
		return nil, goerr.Wrap(ErrActionNotFound, "action not found",
			goerr.V(UserIDKey, userID),
			goerr.V(ActionIDKey, id))
	}

	result := &CompleteResult{Item: item}
	if uc.tasks == nil || item.LinkedGroupTaskID == "" {
		return result, nil
	}

	if userName == "" {
		userName = userID
	}
	synced, err := uc.tasks.MarkTaskCompleteAndBroadcast(ctx, id, userID, userName)
	if err != nil {
		errutil.Handle(ctx, err, "failed to sync shared task completion")
	}
	result.Synced = synced

	return result, nil
}

// Cancel marks the item cancelled
func (uc *ActionUseCase) Cancel(ctx context.Context, userID string, id model.ActionItemID) (*model.ActionItem, error) {
	item, err := uc.lifecycle.Cancel(ctx, userID, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to cancel action", goerr.V(ActionIDKey, id))
	}
	if item == nil {
		return nil, goerr.Wrap(ErrActionNotFound, "action not found",
			goerr.V(UserIDKey, userID),
			goerr.V(ActionIDKey, id))
	}
	return item, nil
}

// Delete removes the item permanently
func (uc *ActionUseCase) Delete(ctx context.Context, userID string, id model.ActionItemID) error {
	deleted, err := uc.lifecycle.Delete(ctx, userID, id)
	if err != nil {
		return goerr.Wrap(err, "failed to delete action", goerr.V(ActionIDKey, id))
	}
	if !deleted {
		return goerr.Wrap(ErrActionNotFound, "action not found",
			goerr.V(UserIDKey, userID),
			goerr.V(ActionIDKey, id))
	}
	return nil
}
