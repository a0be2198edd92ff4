package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/domain/interfaces"
	"github.com/jeetu-ai/jeetu/pkg/domain/model"
	"github.com/jeetu-ai/jeetu/pkg/domain/types"
	"github.com/jeetu-ai/jeetu/pkg/service/timeexpr"
	"github.com/jeetu-ai/jeetu/pkg/utils/errutil"
	"github.com/jeetu-ai/jeetu/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// AssistantAuthorID is the author ID of messages the assistant posts into groups
const AssistantAuthorID = "assistant"

const (
	minTaskTitleLength = 5
	maxTaskTitleLength = 100
)

// taskPatterns are tried in order; the first capture of acceptable length wins
var taskPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:will|can|should|needs? to|has to|have to|must)\s+(.+)`),
	regexp.MustCompile(`(?i)\b(?:assign|task|todo|to-do|action item)\s*:\s*(.+)`),
	regexp.MustCompile(`(?i)\bplease\s+(.+)`),
	regexp.MustCompile(`(?i)^(.+?)\s+by\s+\S+`),
}

var (
	trailingDeadlinePattern = regexp.MustCompile(`(?i)\s+(?:by\s+.+|in\s+\d+\s*(?:hours?|days?)|tonight|today|tomorrow|at\s+\d{1,2}(?::\d{2})?\s*(?:am|pm)?|\d{1,2}\s*(?:am|pm))$`)
	mentionPattern          = regexp.MustCompile(`@([\p{L}\p{N}_.\-]+)`)
)

// GroupTaskUseCase captures tasks from group conversations, mirrors them to
// the assignee's personal list, reminds the group about due tasks, and
// reports completion back to the group
type GroupTaskUseCase struct {
	store     interfaces.Store
	executor  *ExecutorUseCase
	lifecycle *LifecycleUseCase
	transport interfaces.Transport
	pusher    interfaces.Pusher
	policy    Policy
	now       func() time.Time
}

func NewGroupTaskUseCase(store interfaces.Store, executor *ExecutorUseCase, lifecycle *LifecycleUseCase, transport interfaces.Transport, pusher interfaces.Pusher, policy Policy, now func() time.Time) *GroupTaskUseCase {
	if now == nil {
		now = time.Now
	}
	return &GroupTaskUseCase{
		store:     store,
		executor:  executor,
		lifecycle: lifecycle,
		transport: transport,
		pusher:    pusher,
		policy:    policy,
		now:       now,
	}
}

// ProcessMessageForTasks captures a task from a group message. It returns nil
// when the message holds no task. The shared task is the source of truth: a
// failure to mirror it into the assignee's list is reported as a warning.
func (uc *GroupTaskUseCase) ProcessMessageForTasks(ctx context.Context, sessionID, authorID, message string, members []model.Member) (*model.TaskCapture, error) {
	title, ok := extractTaskTitle(message)
	if !ok {
		return nil, nil
	}

	logger := logging.From(ctx).With("session_id", sessionID)
	now := uc.now()

	task := &model.SharedTask{
		ID:          model.NewSharedTaskID(),
		SessionID:   sessionID,
		Title:       title,
		Description: message,
		CreatedBy:   authorID,
		CreatedAt:   now,
		Status:      types.SharedTaskStatusPending,
	}
	if assignee, ok := resolveAssignee(message, members); ok {
		task.AssigneeID = assignee.ID
		task.AssigneeName = assignee.Name
	}
	if due, ok := timeexpr.ResolveDeadline(message, now); ok {
		task.DueAt = &due
	}

	if err := uc.saveNewTask(ctx, task); err != nil {
		return nil, goerr.Wrap(err, "failed to create shared task",
			goerr.V(SessionIDKey, sessionID),
			goerr.V(SharedTaskIDKey, task.ID))
	}

	capture := &model.TaskCapture{Task: task}

	if task.HasAssignee() {
		item, err := uc.mirror(ctx, task, authorID, message, now)
		capture.MirroredItem = item
		if err != nil {
			errutil.Handle(ctx, err, "failed to mirror shared task to assignee")
			capture.Warnings = append(capture.Warnings,
				fmt.Sprintf("task was captured but syncing it to %s's personal list failed", task.AssigneeName))
		}
	}

	capture.Confirmation = confirmationText(task)

	logger.Info("shared task captured",
		"task_id", task.ID,
		"assignee_id", task.AssigneeID,
		"mirrored", capture.MirroredItem != nil,
	)
	return capture, nil
}

// mirror creates the assignee's personal item and links both sides
func (uc *GroupTaskUseCase) mirror(ctx context.Context, task *model.SharedTask, authorID, message string, now time.Time) (*model.ActionItem, error) {
	req := &model.ActionRequest{
		Kind:               types.ActionKindTask,
		Title:              task.Title,
		Description:        message,
		DueAt:              task.DueAt,
		Priority:           types.PriorityMedium,
		OriginatingMessage: message,
		Attribution: &model.Attribution{
			UserID:       authorID,
			AssigneeID:   task.AssigneeID,
			AssigneeName: task.AssigneeName,
			SessionID:    task.SessionID,
		},
	}

	outcome, err := uc.executor.Execute(ctx, task.AssigneeID, req)
	if err != nil {
		return nil, err
	}

	item := newActionItem(outcome, types.OriginChat, now)
	item.LinkedGroupTaskID = string(task.ID)
	item.LinkedSessionID = task.SessionID

	if err := uc.lifecycle.Add(ctx, task.AssigneeID, item); err != nil {
		return nil, err
	}

	err = uc.updateTask(ctx, task.SessionID, task.ID, func(t *model.SharedTask) bool {
		if t.LinkedPersonalActionID != "" {
			return false
		}
		t.LinkedPersonalActionID = item.ID
		return true
	})
	if err != nil {
		return item, goerr.Wrap(err, "failed to link shared task to personal item",
			goerr.V(ActionIDKey, item.ID))
	}
	task.LinkedPersonalActionID = item.ID

	return item, nil
}

// CheckAndSendReminders reminds groups about open tasks that are due within
// the reminder window or already overdue. Each task is reminded at most
// once; a task whose group message could not be sent stays eligible for the
// next sweep. It returns the number of reminders sent.
func (uc *GroupTaskUseCase) CheckAndSendReminders(ctx context.Context) (int, error) {
	sessions, err := loadList[string](ctx, uc.store, sharedTaskSessionsKey)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to load shared task sessions")
	}

	logger := logging.From(ctx)
	now := uc.now()
	sent := 0

	for _, sessionID := range sessions {
		tasks, err := uc.SharedTasks(ctx, sessionID)
		if err != nil {
			errutil.Handle(ctx, err, "failed to load shared tasks for reminder sweep")
			continue
		}

		var reminded []model.SharedTaskID
		for _, task := range tasks {
			if !task.NeedsReminder(now, uc.policy.ReminderWindow) {
				continue
			}

			msg := reminderText(task, now)
			if _, err := uc.postAsAssistant(ctx, sessionID, msg); err != nil {
				errutil.Handle(ctx, goerr.Wrap(err, "group send failed",
					goerr.V(SessionIDKey, sessionID),
					goerr.V(SharedTaskIDKey, task.ID)), "failed to send shared task reminder")
				continue
			}

			if task.HasAssignee() && uc.pusher != nil {
				if err := uc.pusher.Push(ctx, task.AssigneeID, "Task reminder", msg); err != nil {
					errutil.Handle(ctx, err, "failed to push shared task reminder")
				}
			}

			reminded = append(reminded, task.ID)
			sent++
		}

		if len(reminded) == 0 {
			continue
		}

		// Re-read so writes made since the sweep started are kept
		err = uc.updateTasks(ctx, sessionID, func(t *model.SharedTask) bool {
			if t.ReminderSent || !slices.Contains(reminded, t.ID) {
				return false
			}
			t.ReminderSent = true
			return true
		})
		if err != nil {
			errutil.Handle(ctx, err, "failed to record sent reminders")
		}
	}

	if sent > 0 {
		logger.Info("shared task reminders sent", "count", sent)
	}
	return sent, nil
}

// MarkTaskCompleteAndBroadcast completes the shared task linked to a personal
// action item and announces it in the group. It returns false when the item
// is not linked to a shared task.
func (uc *GroupTaskUseCase) MarkTaskCompleteAndBroadcast(ctx context.Context, personalActionID model.ActionItemID, completedByUserID, completedByName string) (bool, error) {
	item, err := uc.lifecycle.Get(ctx, completedByUserID, personalActionID)
	if err != nil {
		if errors.Is(err, ErrActionNotFound) {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to look up personal action")
	}
	if item.LinkedGroupTaskID == "" {
		return false, nil
	}

	taskID := model.SharedTaskID(item.LinkedGroupTaskID)
	sessionID := item.LinkedSessionID
	if sessionID == "" {
		sessionID, err = uc.findSession(ctx, taskID)
		if err != nil {
			return false, err
		}
		if sessionID == "" {
			logging.From(ctx).Warn("linked shared task not found", "task_id", taskID)
			return false, nil
		}
	}

	var completed *model.SharedTask
	now := uc.now()
	err = uc.updateTask(ctx, sessionID, taskID, func(t *model.SharedTask) bool {
		if t.Status == types.SharedTaskStatusCompleted {
			completed = nil
			return false
		}
		t.Status = types.SharedTaskStatusCompleted
		t.CompletedAt = &now
		t.CompletedBy = completedByName
		completed = t
		return true
	})
	if err != nil {
		if errors.Is(err, ErrSharedTaskNotFound) {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to complete shared task")
	}
	if completed == nil {
		// Already completed earlier; nothing to announce again
		return true, nil
	}

	msg := completionText(completed, completedByName)
	if _, err := uc.postAsAssistant(ctx, sessionID, msg); err != nil {
		errutil.Handle(ctx, err, "failed to broadcast shared task completion")
	}

	logging.From(ctx).Info("shared task completed",
		"task_id", taskID,
		"session_id", sessionID,
		"completed_by", completedByUserID,
	)
	return true, nil
}

// SharedTasks returns the tasks of a session
func (uc *GroupTaskUseCase) SharedTasks(ctx context.Context, sessionID string) ([]*model.SharedTask, error) {
	return loadList[*model.SharedTask](ctx, uc.store, sharedTasksKey(sessionID))
}

// Sessions returns every session that has shared tasks
func (uc *GroupTaskUseCase) Sessions(ctx context.Context) ([]string, error) {
	return loadList[string](ctx, uc.store, sharedTaskSessionsKey)
}

func (uc *GroupTaskUseCase) saveNewTask(ctx context.Context, task *model.SharedTask) error {
	err := updateList(ctx, uc.store, sharedTasksKey(task.SessionID), func(tasks []*model.SharedTask) ([]*model.SharedTask, error) {
		return append(tasks, task), nil
	})
	if err != nil {
		return err
	}

	return updateList(ctx, uc.store, sharedTaskSessionsKey, func(sessions []string) ([]string, error) {
		if slices.Contains(sessions, task.SessionID) {
			return nil, errNoChange
		}
		return append(sessions, task.SessionID), nil
	})
}

// updateTask applies fn to one task and saves the list when fn reports a change
func (uc *GroupTaskUseCase) updateTask(ctx context.Context, sessionID string, id model.SharedTaskID, fn func(*model.SharedTask) bool) error {
	var found bool
	err := uc.updateTasks(ctx, sessionID, func(t *model.SharedTask) bool {
		if t.ID != id {
			return false
		}
		found = true
		return fn(t)
	})
	if err != nil {
		return err
	}
	if !found {
		return goerr.Wrap(ErrSharedTaskNotFound, "shared task not found",
			goerr.V(SessionIDKey, sessionID),
			goerr.V(SharedTaskIDKey, id))
	}
	return nil
}

// updateTasks applies fn to every task of the session in one store update
func (uc *GroupTaskUseCase) updateTasks(ctx context.Context, sessionID string, fn func(*model.SharedTask) bool) error {
	return updateList(ctx, uc.store, sharedTasksKey(sessionID), func(tasks []*model.SharedTask) ([]*model.SharedTask, error) {
		changed := false
		for _, t := range tasks {
			if fn(t) {
				changed = true
			}
		}
		if !changed {
			return nil, errNoChange
		}
		return tasks, nil
	})
}

func (uc *GroupTaskUseCase) findSession(ctx context.Context, id model.SharedTaskID) (string, error) {
	sessions, err := uc.Sessions(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to load shared task sessions")
	}
	for _, sessionID := range sessions {
		tasks, err := uc.SharedTasks(ctx, sessionID)
		if err != nil {
			return "", err
		}
		for _, t := range tasks {
			if t.ID == id {
				return sessionID, nil
			}
		}
	}
	return "", nil
}

// postAsAssistant sends text into the session as the assistant and records
// it in the session history. A history write failure is only logged.
func (uc *GroupTaskUseCase) postAsAssistant(ctx context.Context, sessionID, text string) (model.GroupMessage, error) {
	msg := model.GroupMessage{
		SessionID:   sessionID,
		AuthorID:    AssistantAuthorID,
		AuthorName:  displayName(uc.policy.AssistantName),
		Text:        text,
		IsAssistant: true,
	}
	if err := uc.transport.Send(ctx, sessionID, msg.AuthorID, msg.AuthorName, text); err != nil {
		return msg, err
	}

	msg.PostedAt = uc.now()
	if err := appendHistory(ctx, uc.store, sessionID, uc.policy.HistorySize, msg); err != nil {
		errutil.Handle(ctx, err, "failed to record assistant message")
	}
	return msg, nil
}

func displayName(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// extractTaskTitle returns the task phrase of message with any trailing
// deadline clause removed
func extractTaskTitle(message string) (string, bool) {
	text := strings.TrimSpace(message)
	for _, p := range taskPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		title := cleanTitle(m[1])
		if n := len([]rune(title)); n >= minTaskTitleLength && n <= maxTaskTitleLength {
			return title, true
		}
	}
	return "", false
}

func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".!?,; ")
	for {
		stripped := trailingDeadlinePattern.ReplaceAllString(s, "")
		stripped = strings.TrimRight(stripped, ".!?,; ")
		if stripped == s {
			return s
		}
		s = stripped
	}
}

// resolveAssignee prefers an @mention and falls back to the first member
// whose name appears in the message
func resolveAssignee(message string, members []model.Member) (model.Member, bool) {
	if m := mentionPattern.FindStringSubmatch(message); m != nil {
		mention := m[1]
		for _, member := range members {
			if strings.EqualFold(member.Name, mention) || strings.EqualFold(firstName(member.Name), mention) || member.ID == mention {
				return member, true
			}
		}
		return model.Member{Name: mention}, true
	}

	lower := strings.ToLower(message)
	for _, member := range members {
		if member.Name != "" && strings.Contains(lower, strings.ToLower(member.Name)) {
			return member, true
		}
	}
	return model.Member{}, false
}

func firstName(name string) string {
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}

func formatDue(t time.Time) string {
	return t.Format("Mon Jan 2 3:04 PM")
}

func confirmationText(task *model.SharedTask) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Task captured: %q", task.Title)
	if task.AssigneeName != "" {
		fmt.Fprintf(&sb, " assigned to %s", task.AssigneeName)
	}
	if task.DueAt != nil {
		fmt.Fprintf(&sb, ", due %s", formatDue(*task.DueAt))
	}
	return sb.String()
}

func reminderText(task *model.SharedTask, now time.Time) string {
	who := ""
	if task.AssigneeName != "" {
		who = " @" + task.AssigneeName
	}
	if task.IsOverdue(now) {
		return fmt.Sprintf("⚠️ Overdue:%s %q was due %s", who, task.Title, formatDue(*task.DueAt))
	}
	return fmt.Sprintf("⏰ Reminder:%s %q is due %s", who, task.Title, formatDue(*task.DueAt))
}

func completionText(task *model.SharedTask, completedBy string) string {
	if completedBy == "" {
		completedBy = "Someone"
	}
	return fmt.Sprintf("🎉 %s completed %q. Nice work!", completedBy, task.Title)
}
