package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeetu-ai/jeetu/pkg/cli/config"
	"github.com/jeetu-ai/jeetu/pkg/repository/memory"
	"github.com/jeetu-ai/jeetu/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

func TestRepository_Configure(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		store, err := config.NewRepositoryForTest("memory", "").Configure(t.Context())
		gt.NoError(t, err).Required()
		defer func() { _ = store.Close() }()

		_, ok := store.(*memory.Memory)
		gt.Bool(t, ok).True()
	})

	t.Run("firestore without project", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("firestore", "").Configure(t.Context())
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("redis", "").Configure(t.Context())
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestSlack_Configure(t *testing.T) {
	t.Run("nothing set disables slack", func(t *testing.T) {
		svc, err := config.NewSlackForTest("", "", "").Configure()
		gt.NoError(t, err)
		gt.Value(t, svc).Nil()
	})

	t.Run("signing secret requires bot token", func(t *testing.T) {
		_, err := config.NewSlackForTest("", "secret", "").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("notify channel requires bot token", func(t *testing.T) {
		_, err := config.NewSlackForTest("", "", "C123").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("bot token creates service", func(t *testing.T) {
		svc, err := config.NewSlackForTest("xoxb-test", "secret", "C123").Configure()
		gt.NoError(t, err)
		gt.Value(t, svc).NotNil()
	})
}

func TestSlack_Accessors(t *testing.T) {
	tests := []struct {
		name           string
		botToken       string
		signingSecret  string
		wantConfigured bool
		wantWebhook    bool
	}{
		{"both set", "xoxb-1", "secret", true, true},
		{"only bot token", "xoxb-1", "", true, false},
		{"neither set", "", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := config.NewSlackForTest(tt.botToken, tt.signingSecret, "C1")
			gt.Value(t, x.IsConfigured()).Equal(tt.wantConfigured)
			gt.Value(t, x.IsWebhookConfigured()).Equal(tt.wantWebhook)
			gt.String(t, x.SigningSecret()).Equal(tt.signingSecret)
			gt.String(t, x.NotifyChannel()).Equal("C1")
		})
	}
}

func TestLLM_Configure(t *testing.T) {
	t.Run("no provider disables extraction", func(t *testing.T) {
		client, err := config.NewLLMForTest("", "", "", "").Configure(t.Context())
		gt.NoError(t, err)
		gt.Value(t, client).Nil()
	})

	tests := []struct {
		name     string
		provider string
	}{
		{"gemini without project", "gemini"},
		{"openai without key", "openai"},
		{"claude without key", "claude"},
		{"unknown provider", "llama"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.NewLLMForTest(tt.provider, "", "", "").Configure(t.Context())
			gt.Error(t, err).Is(config.ErrInvalidConfig)
		})
	}

	t.Run("returns flags", func(t *testing.T) {
		var x config.LLM
		gt.Array(t, x.Flags()).Length(6)
	})
}

func TestLogger_Configure(t *testing.T) {
	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	t.Run("json output to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jeetu.log")
		closer, err := config.NewLoggerForTest("debug", "json", path).Configure()
		gt.NoError(t, err).Required()

		logging.Default().Info("hello", "user_id", "u1")
		closer()

		data, err := os.ReadFile(path)
		gt.NoError(t, err).Required()
		gt.Bool(t, strings.Contains(string(data), `"user_id":"u1"`)).True()
	})

	t.Run("console to stderr", func(t *testing.T) {
		closer, err := config.NewLoggerForTest("warn", "console", "stderr").Configure()
		gt.NoError(t, err).Required()
		closer()
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := config.NewLoggerForTest("loud", "json", "stdout").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := config.NewLoggerForTest("info", "xml", "stdout").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestRedactor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: config.Redactor()}))

	logger.Info("slack", "token", "xoxb-123-456")

	gt.Bool(t, strings.Contains(buf.String(), "xoxb-123-456")).False()
}

func TestSentry_ConfigureWithoutDSN(t *testing.T) {
	flush, err := config.NewSentryForTest("").Configure("test")
	gt.NoError(t, err).Required()
	flush()
}
