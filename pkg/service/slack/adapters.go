package slack

import (
	"context"

	"github.com/jeetu-ai/jeetu/pkg/domain/interfaces"
	"github.com/jeetu-ai/jeetu/pkg/domain/model"
	"github.com/jeetu-ai/jeetu/pkg/service/transport"
	"github.com/m-mizutani/goerr/v2"
)

// Transport is the group transport over Slack. Outgoing messages are posted
// by the bot; incoming messages arrive through the Events API webhook and
// are handed to Publish.
type Transport struct {
	svc Service
	hub *transport.Hub
}

var _ interfaces.Transport = &Transport{}

func NewTransport(svc Service) *Transport {
	return &Transport{
		svc: svc,
		hub: transport.NewHub(),
	}
}

// Send posts message to the channel. The bot is the author on Slack, so
// authorID and authorName are not shown.
func (t *Transport) Send(ctx context.Context, sessionID, authorID, authorName, message string) error {
	if _, err := t.svc.PostMessage(ctx, sessionID, message); err != nil {
		return goerr.Wrap(err, "failed to send group message", goerr.V("session_id", sessionID))
	}
	return nil
}

func (t *Transport) Subscribe(sessionID string, handler interfaces.MessageHandler) func() {
	return t.hub.Subscribe(sessionID, handler)
}

// Publish delivers a message received from Slack to the subscribers of its channel
func (t *Transport) Publish(ctx context.Context, msg *model.GroupMessage) {
	t.hub.Publish(ctx, msg)
}

// Pusher delivers push notifications as Slack direct messages
type Pusher struct {
	svc Service
}

var _ interfaces.Pusher = &Pusher{}

func NewPusher(svc Service) *Pusher {
	return &Pusher{svc: svc}
}

func (p *Pusher) Push(ctx context.Context, userID, title, body string) error {
	return p.svc.PostDirectMessage(ctx, userID, formatNotification(title, body))
}

// ChannelDeliverer shows scheduled notifications in a fixed channel
type ChannelDeliverer struct {
	svc       Service
	channelID string
}

func NewChannelDeliverer(svc Service, channelID string) *ChannelDeliverer {
	return &ChannelDeliverer{svc: svc, channelID: channelID}
}

func (d *ChannelDeliverer) Deliver(ctx context.Context, title, body string) error {
	_, err := d.svc.PostMessage(ctx, d.channelID, formatNotification(title, body))
	return err
}

func formatNotification(title, body string) string {
	if body == "" {
		return "🔔 *" + title + "*"
	}
	return "🔔 *" + title + "*\n" + body
}
