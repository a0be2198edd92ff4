package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/domain/interfaces"
	"github.com/jeetu-ai/jeetu/pkg/domain/model"
	"github.com/jeetu-ai/jeetu/pkg/domain/types"
	"github.com/jeetu-ai/jeetu/pkg/utils/errutil"
	"github.com/jeetu-ai/jeetu/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

//go:embed prompt/group_reply.md
var groupReplyPromptTmpl string

var groupReplyPrompt = template.Must(template.New("group_reply").Parse(groupReplyPromptTmpl))

// GroupMessageInput is one incoming group message
type GroupMessageInput struct {
	SessionID  string
	AuthorID   string
	AuthorName string
	Text       string
	// Members is optional; when empty the recent authors of the session are used
	Members []model.Member
}

// GroupOutcome reports everything that happened for one group message
type GroupOutcome struct {
	Decision   model.ResponseDecision  `json:"decision"`
	Capture    *model.TaskCapture      `json:"capture,omitempty"`
	Extraction *model.ExtractionResult `json:"extraction,omitempty"`
	Reply      string                  `json:"reply,omitempty"`
	Warnings   []string                `json:"warnings,omitempty"`
}

// GroupUseCase runs the group conversation pipeline: response heuristic,
// task capture, personal action extraction, and the assistant reply
type GroupUseCase struct {
	store     interfaces.Store
	heuristic *ResponseHeuristic
	tasks     *GroupTaskUseCase
	extractor *ExtractorUseCase
	transport interfaces.Transport
	llmClient gollem.LLMClient
	policy    Policy
	now       func() time.Time

	mu     sync.Mutex
	joined map[string]func()
}

func NewGroupUseCase(store interfaces.Store, tasks *GroupTaskUseCase, extractor *ExtractorUseCase, transport interfaces.Transport, llmClient gollem.LLMClient, policy Policy, now func() time.Time) *GroupUseCase {
	if now == nil {
		now = time.Now
	}
	return &GroupUseCase{
		store:     store,
		heuristic: NewResponseHeuristic(policy.AssistantName),
		tasks:     tasks,
		extractor: extractor,
		transport: transport,
		llmClient: llmClient,
		policy:    policy,
		now:       now,
		joined:    make(map[string]func()),
	}
}

// HandleMessage processes one group message. The task bridge and the
// extractor commit independently; a failure of one is reported as a warning
// and does not stop the other.
func (uc *GroupUseCase) HandleMessage(ctx context.Context, in GroupMessageInput) (*GroupOutcome, error) {
	if in.SessionID == "" || in.AuthorID == "" {
		return nil, goerr.Wrap(ErrInvalidRequest, "session ID and author ID are required")
	}

	logger := logging.From(ctx).With("session_id", in.SessionID, "author_id", in.AuthorID)
	ctx = logging.With(ctx, logger)

	recent, err := uc.History(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}

	members := in.Members
	if len(members) == 0 {
		members = membersFromHistory(recent, in.AuthorID, in.AuthorName)
	}

	outcome := &GroupOutcome{
		Decision: uc.heuristic.Decide(in.Text, recent),
	}

	incoming := model.GroupMessage{
		SessionID:  in.SessionID,
		AuthorID:   in.AuthorID,
		AuthorName: in.AuthorName,
		Text:       in.Text,
		PostedAt:   uc.now(),
	}
	recent = append(recent, incoming)
	if err := appendHistory(ctx, uc.store, in.SessionID, uc.policy.HistorySize, incoming); err != nil {
		errutil.Handle(ctx, err, "failed to save group history")
	}

	capture, err := uc.tasks.ProcessMessageForTasks(ctx, in.SessionID, in.AuthorID, in.Text, members)
	if err != nil {
		errutil.Handle(ctx, err, "failed to capture group task")
		outcome.Warnings = append(outcome.Warnings, "the task in this message could not be saved")
	} else if capture != nil {
		outcome.Capture = capture
		outcome.Warnings = append(outcome.Warnings, capture.Warnings...)
		posted, err := uc.tasks.postAsAssistant(ctx, in.SessionID, capture.Confirmation)
		if err != nil {
			errutil.Handle(ctx, err, "failed to post task confirmation")
		} else {
			recent = append(recent, posted)
		}
	}

	extraction, err := uc.extractor.ProcessMessage(ctx, in.AuthorID, in.Text, &MessageContext{Origin: types.OriginChat})
	if err != nil {
		errutil.Handle(ctx, err, "failed to extract personal actions from group message")
	} else {
		outcome.Extraction = extraction
		outcome.Warnings = append(outcome.Warnings, extraction.Warnings...)
	}

	if outcome.Decision.Respond && uc.llmClient != nil {
		reply, err := uc.generateReply(ctx, in.SessionID, recent, incoming)
		if err != nil {
			errutil.Handle(ctx, err, "failed to generate group reply")
		} else if reply != "" {
			if _, err := uc.tasks.postAsAssistant(ctx, in.SessionID, reply); err != nil {
				errutil.Handle(ctx, err, "failed to post group reply")
			} else {
				outcome.Reply = reply
			}
		}
	}

	logger.Info("group message handled",
		"respond", outcome.Decision.Respond,
		"reason", outcome.Decision.Reason,
		"task_captured", outcome.Capture != nil,
		"replied", outcome.Reply != "",
	)
	return outcome, nil
}

// Join subscribes HandleIncoming to the session on the transport. Joining a
// session twice keeps a single subscription.
func (uc *GroupUseCase) Join(sessionID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, ok := uc.joined[sessionID]; ok {
		return
	}
	uc.joined[sessionID] = uc.transport.Subscribe(sessionID, uc.HandleIncoming)
}

// Receive joins the session of msg and publishes msg on the transport
func (uc *GroupUseCase) Receive(ctx context.Context, msg *model.GroupMessage) {
	if msg == nil {
		return
	}
	uc.Join(msg.SessionID)
	uc.transport.Publish(ctx, msg)
}

// Close removes every transport subscription made by Join
func (uc *GroupUseCase) Close() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for sessionID, unsubscribe := range uc.joined {
		unsubscribe()
		delete(uc.joined, sessionID)
	}
}

// HandleIncoming adapts HandleMessage to a transport subscription. Messages
// posted by the assistant are ignored.
func (uc *GroupUseCase) HandleIncoming(ctx context.Context, msg *model.GroupMessage) {
	if msg == nil || msg.IsAssistant || msg.AuthorID == AssistantAuthorID {
		return
	}
	_, err := uc.HandleMessage(ctx, GroupMessageInput{
		SessionID:  msg.SessionID,
		AuthorID:   msg.AuthorID,
		AuthorName: msg.AuthorName,
		Text:       msg.Text,
		Members:    msg.Members,
	})
	if err != nil {
		errutil.Handle(ctx, err, "failed to handle incoming group message")
	}
}

// History returns the recent messages of the session, oldest first
func (uc *GroupUseCase) History(ctx context.Context, sessionID string) ([]model.GroupMessage, error) {
	msgs, err := loadList[model.GroupMessage](ctx, uc.store, messagesKey(sessionID))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load group history", goerr.V(SessionIDKey, sessionID))
	}
	return msgs, nil
}

// appendHistory adds msgs to the session history and keeps the newest limit
// messages
func appendHistory(ctx context.Context, store interfaces.Store, sessionID string, limit int, msgs ...model.GroupMessage) error {
	err := updateList(ctx, store, messagesKey(sessionID), func(history []model.GroupMessage) ([]model.GroupMessage, error) {
		history = append(history, msgs...)
		if limit > 0 && len(history) > limit {
			history = history[len(history)-limit:]
		}
		return history, nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to append group history", goerr.V(SessionIDKey, sessionID))
	}
	return nil
}

type groupPromptMessage struct {
	Timestamp   string
	DisplayName string
	Text        string
}

type groupPromptTask struct {
	Title    string
	Assignee string
	Due      string
}

type groupPromptData struct {
	AssistantName string
	Tasks         []groupPromptTask
	Messages      []groupPromptMessage
}

func (uc *GroupUseCase) generateReply(ctx context.Context, sessionID string, recent []model.GroupMessage, latest model.GroupMessage) (string, error) {
	tasks, err := uc.tasks.SharedTasks(ctx, sessionID)
	if err != nil {
		return "", err
	}

	prompt, err := uc.buildReplyPrompt(recent, tasks)
	if err != nil {
		return "", err
	}

	session, err := uc.llmClient.NewSession(ctx, gollem.WithSessionSystemPrompt(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(latest.AuthorName+": "+latest.Text))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate group reply")
	}

	return strings.TrimSpace(strings.Join(resp.Texts, "\n")), nil
}

func (uc *GroupUseCase) buildReplyPrompt(recent []model.GroupMessage, tasks []*model.SharedTask) (string, error) {
	data := groupPromptData{
		AssistantName: displayName(uc.policy.AssistantName),
	}

	for _, t := range tasks {
		if t.Status == types.SharedTaskStatusCompleted {
			continue
		}
		pt := groupPromptTask{Title: t.Title, Assignee: t.AssigneeName}
		if t.DueAt != nil {
			pt.Due = formatDue(*t.DueAt)
		}
		data.Tasks = append(data.Tasks, pt)
	}

	for _, m := range recent {
		name := m.AuthorName
		if name == "" {
			name = m.AuthorID
		}
		data.Messages = append(data.Messages, groupPromptMessage{
			Timestamp:   m.PostedAt.Format("15:04"),
			DisplayName: name,
			Text:        m.Text,
		})
	}

	var buf bytes.Buffer
	if err := groupReplyPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute group reply prompt template")
	}
	return buf.String(), nil
}

// membersFromHistory lists the distinct human authors of the session
func membersFromHistory(recent []model.GroupMessage, authorID, authorName string) []model.Member {
	seen := map[string]bool{}
	var members []model.Member
	add := func(id, name string) {
		if id == "" || id == AssistantAuthorID || seen[id] {
			return
		}
		seen[id] = true
		members = append(members, model.Member{ID: id, Name: name})
	}

	for i := len(recent) - 1; i >= 0; i-- {
		if !recent[i].IsAssistant {
			add(recent[i].AuthorID, recent[i].AuthorName)
		}
	}
	add(authorID, authorName)
	return members
}
