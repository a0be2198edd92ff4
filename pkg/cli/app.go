package cli

import (
	"context"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/cli/config"
	"github.com/jeetu-ai/jeetu/pkg/domain/interfaces"
	"github.com/jeetu-ai/jeetu/pkg/service/notification"
	slacksvc "github.com/jeetu-ai/jeetu/pkg/service/slack"
	"github.com/jeetu-ai/jeetu/pkg/usecase"
	"github.com/jeetu-ai/jeetu/pkg/utils/logging"
	"github.com/jeetu-ai/jeetu/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// appConfig is the flag set shared by the commands that touch the store
type appConfig struct {
	repo   config.Repository
	llm    config.LLM
	slack  config.Slack
	policy config.Policy
}

func (x *appConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.policy.Flags()...)
	flags = append(flags, x.repo.Flags()...)
	flags = append(flags, x.llm.Flags()...)
	flags = append(flags, x.slack.Flags()...)
	return flags
}

// app holds the wired dependencies of a command run
type app struct {
	store         interfaces.Store
	slack         slacksvc.Service
	notifier      *notification.TimerNotifier
	uc            *usecase.UseCases
	policy        usecase.Policy
	sweepInterval time.Duration
}

// build wires the store, the LLM client and Slack into the use cases. The
// caller must Close the returned app.
func (x *appConfig) build(ctx context.Context) (*app, error) {
	policyCfg, err := x.policy.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load policy")
	}
	policy, err := policyCfg.Policy()
	if err != nil {
		return nil, goerr.Wrap(err, "invalid policy")
	}
	interval, err := policyCfg.SweepInterval()
	if err != nil {
		return nil, goerr.Wrap(err, "invalid policy")
	}

	llmClient, err := x.llm.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure LLM client")
	}
	if llmClient == nil {
		logging.Default().Warn("LLM provider not configured, action extraction is disabled")
	}

	slackSvc, err := x.slack.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure slack")
	}

	store, err := x.repo.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize store")
	}

	ucOpts := []usecase.Option{
		usecase.WithPolicy(policy),
	}
	if llmClient != nil {
		ucOpts = append(ucOpts, usecase.WithLLMClient(llmClient))
	}

	var deliverer notification.Deliverer = notification.LogDeliverer{}
	if slackSvc != nil {
		ucOpts = append(ucOpts,
			usecase.WithTransport(slacksvc.NewTransport(slackSvc)),
			usecase.WithPusher(slacksvc.NewPusher(slackSvc)),
		)
		if ch := x.slack.NotifyChannel(); ch != "" {
			deliverer = slacksvc.NewChannelDeliverer(slackSvc, ch)
		}
		logging.Default().Info("Slack service enabled", "slack", x.slack)
	}

	notifier := notification.NewTimerNotifier(deliverer)
	ucOpts = append(ucOpts, usecase.WithNotifier(notifier))

	return &app{
		store:         store,
		slack:         slackSvc,
		notifier:      notifier,
		uc:            usecase.New(store, ucOpts...),
		policy:        policy,
		sweepInterval: interval,
	}, nil
}

// Close detaches group subscriptions, cancels pending notifications and
// closes the store
func (a *app) Close(ctx context.Context) {
	a.uc.Group.Close()
	a.notifier.Close()
	safe.Close(ctx, a.store)
}
