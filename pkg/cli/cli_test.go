package cli_test

import (
	"context"
	"testing"

	"github.com/jeetu-ai/jeetu/pkg/cli"
	"github.com/jeetu-ai/jeetu/pkg/cli/config"
	"github.com/m-mizutani/gt"
)

func TestRun_ExtractCommand_NoKeyword(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"jeetu", "extract",
		"--user", "U1",
		"nice weather today",
	}, "test")
	gt.NoError(t, err)
}

func TestRun_ExtractCommand_WithoutLLM(t *testing.T) {
	// Extraction without a provider degrades to an unavailable result, not an error
	err := cli.Run(context.Background(), []string{
		"jeetu", "extract",
		"--user", "U1",
		"--origin", "voice",
		"remind me to call John tomorrow at 3pm",
	}, "test")
	gt.NoError(t, err)
}

func TestRun_ExtractCommand_InvalidInput(t *testing.T) {
	t.Run("missing message", func(t *testing.T) {
		err := cli.Run(context.Background(), []string{"jeetu", "extract", "--user", "U1"}, "test")
		gt.Value(t, err).NotNil()
	})

	t.Run("invalid origin", func(t *testing.T) {
		err := cli.Run(context.Background(), []string{
			"jeetu", "extract", "--user", "U1", "--origin", "fax", "call John",
		}, "test")
		gt.Value(t, err).NotNil()
	})

	t.Run("missing user", func(t *testing.T) {
		err := cli.Run(context.Background(), []string{"jeetu", "extract", "call John"}, "test")
		gt.Value(t, err).NotNil()
	})
}

func TestRun_SweepCommand(t *testing.T) {
	err := cli.Run(context.Background(), []string{"jeetu", "sweep"}, "test")
	gt.NoError(t, err)
}

func TestRun_InvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"jeetu", "--log-level", "loud", "sweep"}, "test")
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}

func TestRun_SlackWebhookWithoutToken(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"jeetu", "sweep",
		"--slack-signing-secret", "secret",
	}, "test")
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}
