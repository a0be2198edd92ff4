package config

import (
	"log/slog"

	"github.com/jeetu-ai/jeetu/pkg/service/slack"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	botToken      string
	signingSecret string
	notifyChannel string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (group messages, reminders and notifications)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("JEETU_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack Signing Secret (for webhook verification)",
			Category:    "Slack",
			Destination: &x.signingSecret,
			Sources:     cli.EnvVars("JEETU_SLACK_SIGNING_SECRET"),
		},
		&cli.StringFlag{
			Name:        "slack-notify-channel",
			Usage:       "Slack channel ID that receives due action notifications",
			Category:    "Slack",
			Destination: &x.notifyChannel,
			Sources:     cli.EnvVars("JEETU_SLACK_NOTIFY_CHANNEL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.Int("signing-secret.len", len(x.signingSecret)),
		slog.String("notify-channel", x.notifyChannel),
	)
}

// IsConfigured reports whether a bot token is set
func (x *Slack) IsConfigured() bool {
	return x.botToken != ""
}

// IsWebhookConfigured checks if Slack webhook is configured
func (x *Slack) IsWebhookConfigured() bool {
	return x.signingSecret != ""
}

// SigningSecret returns the Slack signing secret
func (x *Slack) SigningSecret() string {
	return x.signingSecret
}

// NotifyChannel returns the channel that receives due action notifications
func (x *Slack) NotifyChannel() string {
	return x.notifyChannel
}

// Configure creates the Slack service. Returns nil if no bot token is set.
// The webhook needs the service to resolve members, so a signing secret
// without a bot token is rejected.
func (x *Slack) Configure() (slack.Service, error) {
	if x.botToken == "" {
		if x.signingSecret != "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "--slack-signing-secret requires --slack-bot-token")
		}
		if x.notifyChannel != "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "--slack-notify-channel requires --slack-bot-token")
		}
		return nil, nil
	}

	svc, err := slack.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}
	return svc, nil
}
