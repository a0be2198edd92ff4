package usecase

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/domain/interfaces"
	"github.com/jeetu-ai/jeetu/pkg/domain/model"
	"github.com/jeetu-ai/jeetu/pkg/domain/types"
	"github.com/jeetu-ai/jeetu/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

// ActionListener receives the complete action list of a user after every
// mutation. Listeners derive their own filtered views.
type ActionListener func(ctx context.Context, userID string, items []*model.ActionItem)

// LifecycleUseCase owns the per-user action lists and the listeners
// subscribed to their changes
type LifecycleUseCase struct {
	store interfaces.Store
	now   func() time.Time

	mu        sync.RWMutex
	nextID    uint64
	listeners map[uint64]ActionListener
}

func NewLifecycleUseCase(store interfaces.Store, now func() time.Time) *LifecycleUseCase {
	if now == nil {
		now = time.Now
	}
	return &LifecycleUseCase{
		store:     store,
		now:       now,
		listeners: make(map[uint64]ActionListener),
	}
}

// GetAll returns every action item of the user in insertion order
func (uc *LifecycleUseCase) GetAll(ctx context.Context, userID string) ([]*model.ActionItem, error) {
	items, err := loadList[*model.ActionItem](ctx, uc.store, actionsKey(userID))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load action items", goerr.V(UserIDKey, userID))
	}
	return items, nil
}

// GetPending returns pending items, high priority first, then earliest due.
// Items without a due time sort last within their priority.
func (uc *LifecycleUseCase) GetPending(ctx context.Context, userID string) ([]*model.ActionItem, error) {
	items, err := uc.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	pending := make([]*model.ActionItem, 0, len(items))
	for _, item := range items {
		if item.Status == types.ActionStatusPending {
			pending = append(pending, item)
		}
	}

	slices.SortStableFunc(pending, comparePending)
	return pending, nil
}

func comparePending(a, b *model.ActionItem) int {
	if c := cmp.Compare(a.Priority.Rank(), b.Priority.Rank()); c != 0 {
		return c
	}
	switch {
	case a.DueAt == nil && b.DueAt == nil:
		return 0
	case a.DueAt == nil:
		return 1
	case b.DueAt == nil:
		return -1
	}
	return a.DueAt.Compare(*b.DueAt)
}

// GetByMemo returns the items created from the memo
func (uc *LifecycleUseCase) GetByMemo(ctx context.Context, userID, memoID string) ([]*model.ActionItem, error) {
	items, err := uc.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	var matched []*model.ActionItem
	for _, item := range items {
		if item.LinkedMemoID == memoID {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// Get returns one item or ErrActionNotFound
func (uc *LifecycleUseCase) Get(ctx context.Context, userID string, id model.ActionItemID) (*model.ActionItem, error) {
	items, err := uc.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, goerr.Wrap(ErrActionNotFound, "action not found",
		goerr.V(UserIDKey, userID),
		goerr.V(ActionIDKey, id))
}

// Add appends item to the user's list and broadcasts the change
func (uc *LifecycleUseCase) Add(ctx context.Context, userID string, item *model.ActionItem) error {
	if item == nil {
		return goerr.New("action item is nil")
	}
	if item.ID == "" {
		item.ID = model.NewActionItemID()
	}
	if item.Status == "" {
		item.Status = types.ActionStatusPending
	}

	err := updateList(ctx, uc.store, actionsKey(userID), func(items []*model.ActionItem) ([]*model.ActionItem, error) {
		return append(items, item), nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to add action item", goerr.V(ActionIDKey, item.ID))
	}
	uc.broadcast(ctx, userID)
	return nil
}

// Complete marks the item completed. Unknown ids and items already in a
// terminal state are left untouched; the stored item is returned as is.
func (uc *LifecycleUseCase) Complete(ctx context.Context, userID string, id model.ActionItemID) (*model.ActionItem, error) {
	return uc.transition(ctx, userID, id, types.ActionStatusCompleted)
}

// Cancel marks the item cancelled and keeps it in the list
func (uc *LifecycleUseCase) Cancel(ctx context.Context, userID string, id model.ActionItemID) (*model.ActionItem, error) {
	return uc.transition(ctx, userID, id, types.ActionStatusCancelled)
}

func (uc *LifecycleUseCase) transition(ctx context.Context, userID string, id model.ActionItemID, to types.ActionStatus) (*model.ActionItem, error) {
	var result *model.ActionItem
	var changed bool
	now := uc.now()

	err := updateList(ctx, uc.store, actionsKey(userID), func(items []*model.ActionItem) ([]*model.ActionItem, error) {
		result, changed = nil, false
		idx := slices.IndexFunc(items, func(item *model.ActionItem) bool { return item.ID == id })
		if idx < 0 {
			return nil, errNoChange
		}

		item := items[idx]
		result = item
		if item.Status.IsTerminal() {
			return nil, errNoChange
		}

		item.Status = to
		switch to {
		case types.ActionStatusCompleted:
			item.CompletedAt = &now
		case types.ActionStatusCancelled:
			item.CancelledAt = &now
		}
		changed = true
		return items, nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update action status",
			goerr.V(ActionIDKey, id),
			goerr.V("status", to))
	}

	if changed {
		uc.broadcast(ctx, userID)
	}
	return result, nil
}

// Delete removes the item permanently. It reports whether an item was removed.
func (uc *LifecycleUseCase) Delete(ctx context.Context, userID string, id model.ActionItemID) (bool, error) {
	var removed bool
	err := updateList(ctx, uc.store, actionsKey(userID), func(items []*model.ActionItem) ([]*model.ActionItem, error) {
		remaining := slices.DeleteFunc(items, func(item *model.ActionItem) bool { return item.ID == id })
		removed = len(remaining) != len(items)
		if !removed {
			return nil, errNoChange
		}
		return remaining, nil
	})
	if err != nil {
		return false, goerr.Wrap(err, "failed to delete action item", goerr.V(ActionIDKey, id))
	}
	if removed {
		uc.broadcast(ctx, userID)
	}
	return removed, nil
}

// Stats counts the user's items
func (uc *LifecycleUseCase) Stats(ctx context.Context, userID string) (*model.ActionStats, error) {
	items, err := uc.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &model.ActionStats{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case types.ActionStatusPending:
			stats.Pending++
			if item.Priority == types.PriorityHigh {
				stats.HighPriorityPending++
			}
		case types.ActionStatusCompleted:
			stats.Completed++
		}
	}
	return stats, nil
}

// Subscribe registers listener and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (uc *LifecycleUseCase) Subscribe(listener ActionListener) func() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.nextID++
	id := uc.nextID
	uc.listeners[id] = listener

	return func() {
		uc.mu.Lock()
		defer uc.mu.Unlock()
		delete(uc.listeners, id)
	}
}

// broadcast re-reads the stored list and hands each listener its own copy
func (uc *LifecycleUseCase) broadcast(ctx context.Context, userID string) {
	uc.mu.RLock()
	if len(uc.listeners) == 0 {
		uc.mu.RUnlock()
		return
	}
	ids := make([]uint64, 0, len(uc.listeners))
	for id := range uc.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	listeners := make([]ActionListener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, uc.listeners[id])
	}
	uc.mu.RUnlock()

	items, err := uc.GetAll(ctx, userID)
	if err != nil {
		errutil.Handle(ctx, err, "failed to reload action items for broadcast")
		return
	}

	for _, l := range listeners {
		l(ctx, userID, cloneItems(items))
	}
}

func cloneItems(items []*model.ActionItem) []*model.ActionItem {
	cloned := make([]*model.ActionItem, len(items))
	for i, item := range items {
		c := *item
		cloned[i] = &c
	}
	return cloned
}
