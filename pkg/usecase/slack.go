package usecase

import (
	"context"
	"regexp"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/domain/model"
	slacksvc "github.com/jeetu-ai/jeetu/pkg/service/slack"
	"github.com/jeetu-ai/jeetu/pkg/utils/errutil"
	"github.com/jeetu-ai/jeetu/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack/slackevents"
)

var slackMentionPattern = regexp.MustCompile(`<@([A-Z0-9]+)(?:\|[^>]*)?>`)

// SlackUseCases turns Slack channel messages into group messages and
// publishes them on the group transport. Each channel is a group session
// keyed by its channel ID.
type SlackUseCases struct {
	group        *GroupUseCase
	slackService slacksvc.Service
	assistant    string
}

// NewSlackUseCases creates a new SlackUseCases instance
func NewSlackUseCases(group *GroupUseCase, slackService slacksvc.Service, assistantName string) *SlackUseCases {
	if assistantName == "" {
		assistantName = DefaultPolicy().AssistantName
	}
	return &SlackUseCases{
		group:        group,
		slackService: slackService,
		assistant:    assistantName,
	}
}

// HandleSlackEvent processes Slack Events API events
func (uc *SlackUseCases) HandleSlackEvent(ctx context.Context, event *slackevents.EventsAPIEvent) error {
	logger := logging.From(ctx)

	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		// Edits, joins and other subtypes are not conversation messages
		if ev.SubType != "" || ev.BotID != "" || ev.User == "" {
			return nil
		}
		return uc.handleMessage(ctx, ev.Channel, ev.User, ev.Text)

	case *slackevents.AppMentionEvent:
		// Mentions are also delivered as message events; handling both would double-process
		logger.Debug("skipping app_mention event", "channel", ev.Channel)
		return nil
	}

	logger.Warn("unsupported slack event type", "type", event.Type, "innerType", event.InnerEvent.Type)
	return nil
}

func (uc *SlackUseCases) handleMessage(ctx context.Context, channelID, userID, text string) error {
	botUserID, err := uc.slackService.GetBotUserID(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to get bot user ID")
	}
	if userID == botUserID {
		return nil
	}

	members := uc.channelMembers(ctx, channelID, botUserID)

	uc.group.Receive(ctx, &model.GroupMessage{
		SessionID:  channelID,
		AuthorID:   userID,
		AuthorName: nameOf(members, userID),
		Text:       uc.resolveMentions(ctx, text, botUserID),
		PostedAt:   time.Now(),
		Members:    members,
	})
	return nil
}

// channelMembers resolves the human members of a channel. Lookup failures
// degrade to an empty list so the message is still processed.
func (uc *SlackUseCases) channelMembers(ctx context.Context, channelID, botUserID string) []model.Member {
	ids, err := uc.slackService.ListChannelMembers(ctx, channelID)
	if err != nil {
		errutil.Handle(ctx, err, "failed to list channel members")
		return nil
	}

	members := make([]model.Member, 0, len(ids))
	for _, id := range ids {
		if id == botUserID {
			continue
		}
		user, err := uc.slackService.GetUser(ctx, id)
		if err != nil {
			errutil.Handle(ctx, err, "failed to get slack user")
			continue
		}
		if user.IsBot {
			continue
		}
		members = append(members, model.Member{ID: user.ID, Name: user.DisplayName()})
	}
	return members
}

// resolveMentions rewrites <@U123> into @Name so the heuristics see names
func (uc *SlackUseCases) resolveMentions(ctx context.Context, text, botUserID string) string {
	return slackMentionPattern.ReplaceAllStringFunc(text, func(m string) string {
		id := slackMentionPattern.FindStringSubmatch(m)[1]
		if id == botUserID {
			return "@" + uc.assistant
		}
		user, err := uc.slackService.GetUser(ctx, id)
		if err != nil {
			return m
		}
		return "@" + user.DisplayName()
	})
}

func nameOf(members []model.Member, id string) string {
	for _, m := range members {
		if m.ID == id {
			return m.Name
		}
	}
	return id
}
