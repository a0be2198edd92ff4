package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/domain/interfaces"
	"github.com/jeetu-ai/jeetu/pkg/domain/model"
	"github.com/jeetu-ai/jeetu/pkg/domain/types"
	"github.com/jeetu-ai/jeetu/pkg/service/notification"
	"github.com/jeetu-ai/jeetu/pkg/utils/errutil"
	"github.com/jeetu-ai/jeetu/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// ExecutorUseCase persists one action request as a kind-specific record and
// schedules its notifications
type ExecutorUseCase struct {
	store     interfaces.Store
	scheduler *notification.Scheduler
	policy    Policy
	now       func() time.Time
}

func NewExecutorUseCase(store interfaces.Store, scheduler *notification.Scheduler, policy Policy, now func() time.Time) *ExecutorUseCase {
	if now == nil {
		now = time.Now
	}
	return &ExecutorUseCase{
		store:     store,
		scheduler: scheduler,
		policy:    policy,
		now:       now,
	}
}

// Execute saves the record for req and schedules its notifications. Only a
// store failure is returned as an error; notification failures are reported
// as warnings on the outcome and leave the record in place.
func (uc *ExecutorUseCase) Execute(ctx context.Context, userID string, req *model.ActionRequest) (*model.ExecutionOutcome, error) {
	if err := validateRequest(userID, req); err != nil {
		return nil, err
	}

	logger := logging.From(ctx)
	now := uc.now()

	dueAt := req.DueAt
	switch {
	case dueAt == nil && req.Kind == types.ActionKindTask:
		t := uc.policy.Fallback.Apply(now)
		dueAt = &t
	case dueAt == nil && req.Kind == types.ActionKindNotification:
		dueAt = &now
	}

	priority := req.Priority
	if priority == "" {
		priority = types.PriorityMedium
	}
	description := req.Description
	if description == "" {
		description = req.OriginatingMessage
	}

	record := &model.Record{
		Kind:        req.Kind,
		Title:       req.Title,
		Description: description,
		DueAt:       dueAt,
		Priority:    priority,
		CreatedAt:   now,
	}

	type plannedNotification struct {
		suffix    string
		title     string
		triggerAt time.Time
	}
	var planned []plannedNotification
	if dueAt != nil {
		planned = append(planned, plannedNotification{
			suffix:    "_reminder",
			title:     notificationTitle(req.Kind),
			triggerAt: *dueAt,
		})
		if req.Kind == types.ActionKindCalendar {
			lead := dueAt.Add(-uc.policy.CalendarLead)
			if lead.After(now) {
				planned = append(planned, plannedNotification{
					suffix:    "_upcoming",
					title:     fmt.Sprintf("Starting in %d minutes", int(uc.policy.CalendarLead.Minutes())),
					triggerAt: lead,
				})
			}
		}
	}

	err := updateList(ctx, uc.store, recordsKey(userID, req.Kind), func(records []*model.Record) ([]*model.Record, error) {
		record.ID = uniqueRecordID(records, req.Kind, now)
		record.NotificationIDs = nil
		for _, p := range planned {
			record.NotificationIDs = append(record.NotificationIDs, record.ID+p.suffix)
		}
		return append(records, record), nil
	})
	if err != nil {
		return nil, goerr.Wrap(ErrPersistFailed, fmt.Sprintf("failed to create %s", req.Kind),
			goerr.V(UserIDKey, userID),
			goerr.V(KindKey, req.Kind),
			goerr.V(CauseKey, err.Error()))
	}

	outcome := &model.ExecutionOutcome{
		Record: record,
		Result: model.ExecutionResult{
			Success:  true,
			Message:  describeRecord(record),
			RecordID: record.ID,
		},
	}

	for _, p := range planned {
		if _, err := uc.scheduler.Schedule(ctx, p.title, record.Title, p.triggerAt, record.ID+p.suffix); err != nil {
			errutil.Handle(ctx, err, "failed to schedule notification")
			outcome.Warnings = append(outcome.Warnings,
				fmt.Sprintf("%s %q was saved but its notification could not be scheduled", req.Kind, record.Title))
		}
	}

	logger.Info("action executed",
		"user_id", userID,
		"kind", req.Kind,
		"record_id", record.ID,
		"notifications", len(planned),
		"warnings", len(outcome.Warnings),
	)

	return outcome, nil
}

// uniqueRecordID returns the "<kind>_<millis>" id of at, moved forward one
// millisecond at a time while it collides with an existing record
func uniqueRecordID(records []*model.Record, kind types.ActionKind, at time.Time) string {
	taken := make(map[string]bool, len(records))
	for _, r := range records {
		taken[r.ID] = true
	}
	id := model.NewRecordID(kind, at)
	for taken[id] {
		at = at.Add(time.Millisecond)
		id = model.NewRecordID(kind, at)
	}
	return id
}

// Records returns the kind-specific records of a user
func (uc *ExecutorUseCase) Records(ctx context.Context, userID string, kind types.ActionKind) ([]*model.Record, error) {
	return loadList[*model.Record](ctx, uc.store, recordsKey(userID, kind))
}

func validateRequest(userID string, req *model.ActionRequest) error {
	if userID == "" {
		return goerr.Wrap(ErrInvalidRequest, "user ID is required")
	}
	if req == nil {
		return goerr.Wrap(ErrInvalidRequest, "request is nil", goerr.V(UserIDKey, userID))
	}
	if !req.Kind.IsValid() {
		return goerr.Wrap(ErrInvalidRequest, "unknown action kind", goerr.V(KindKey, req.Kind))
	}
	if strings.TrimSpace(req.Title) == "" {
		return goerr.Wrap(ErrInvalidRequest, "title is required", goerr.V(KindKey, req.Kind))
	}
	return nil
}

func notificationTitle(kind types.ActionKind) string {
	switch kind {
	case types.ActionKindAlarm:
		return "Alarm"
	case types.ActionKindCalendar:
		return "Event"
	case types.ActionKindTask:
		return "Task due"
	case types.ActionKindNotification:
		return "Notification"
	}
	return "Reminder"
}

func describeRecord(r *model.Record) string {
	label := strings.ToUpper(r.Kind.String()[:1]) + r.Kind.String()[1:]
	if r.DueAt == nil {
		return fmt.Sprintf("%s %q created", label, r.Title)
	}
	return fmt.Sprintf("%s %q set for %s", label, r.Title, r.DueAt.Format("Mon Jan 2 3:04 PM"))
}

// newActionItem builds the user-visible item for an executed request
func newActionItem(outcome *model.ExecutionOutcome, origin types.Origin, now time.Time) *model.ActionItem {
	if origin == "" {
		origin = types.OriginChat
	}
	return &model.ActionItem{
		ID:              model.NewActionItemID(),
		Kind:            outcome.Record.Kind,
		Title:           outcome.Record.Title,
		Description:     outcome.Record.Description,
		DueAt:           outcome.Record.DueAt,
		Priority:        outcome.Record.Priority,
		Status:          types.ActionStatusPending,
		CreatedAt:       now,
		CreatedBy:       origin,
		ExecutionResult: outcome.Result,
	}
}
