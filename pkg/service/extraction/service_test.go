package extraction_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/service/extraction"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gt"
)

type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	return s.generateContentFn(ctx, input...)
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

type mockLLMClient struct {
	calls             int
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	c.calls++
	return &mockLLMSession{generateContentFn: c.generateContentFn}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func TestExtract(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

	t.Run("returns raw model text", func(t *testing.T) {
		llm := &mockLLMClient{
			generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
				return &gollem.Response{Texts: []string{`{"actions":[`, `]}`}}, nil
			},
		}
		svc, err := extraction.New(llm)
		gt.NoError(t, err).Required()

		text, err := svc.Extract(ctx, extraction.Input{Message: "remind me", Now: now})
		gt.NoError(t, err).Required()
		gt.String(t, text).Equal(`{"actions":[]}`)
	})

	t.Run("transport error is unavailable", func(t *testing.T) {
		llm := &mockLLMClient{
			generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
				return nil, errors.New("connection reset")
			},
		}
		svc, err := extraction.New(llm)
		gt.NoError(t, err).Required()

		_, err = svc.Extract(ctx, extraction.Input{Message: "remind me"})
		gt.Error(t, err).Is(extraction.ErrUnavailable)
	})

	t.Run("timeout is unavailable", func(t *testing.T) {
		llm := &mockLLMClient{
			generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		svc, err := extraction.New(llm, extraction.WithTimeout(10*time.Millisecond))
		gt.NoError(t, err).Required()

		_, err = svc.Extract(ctx, extraction.Input{Message: "remind me"})
		gt.Error(t, err).Is(extraction.ErrUnavailable)
	})

	t.Run("breaker opens after consecutive failures", func(t *testing.T) {
		llm := &mockLLMClient{
			generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
				return nil, errors.New("quota exceeded")
			},
		}
		svc, err := extraction.New(llm, extraction.WithBreaker(2, time.Hour))
		gt.NoError(t, err).Required()

		for i := 0; i < 2; i++ {
			_, err = svc.Extract(ctx, extraction.Input{Message: "remind me"})
			gt.Error(t, err).Is(extraction.ErrUnavailable)
		}
		gt.Number(t, llm.calls).Equal(2)

		_, err = svc.Extract(ctx, extraction.Input{Message: "remind me"})
		gt.Error(t, err).Is(extraction.ErrUnavailable)
		// Open breaker short-circuits without reaching the model
		gt.Number(t, llm.calls).Equal(2)
	})

	t.Run("nil client is rejected", func(t *testing.T) {
		_, err := extraction.New(nil)
		gt.Value(t, err).NotNil()
	})
}

func TestBuildUserPrompt(t *testing.T) {
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	prompt := extraction.BuildUserPrompt(extraction.Input{Message: "Call John tomorrow", Now: now})

	gt.String(t, prompt).Contains("Wednesday, 2026-10-14 10:00 UTC")
	gt.String(t, prompt).Contains("Call John tomorrow")
	gt.String(t, extraction.SystemPrompt).Contains(`{"actions": []}`)
}

func TestExtract_WithRealGemini(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT not set")
	}
	location := os.Getenv("TEST_GEMINI_LOCATION")
	if location == "" {
		t.Skip("TEST_GEMINI_LOCATION not set")
	}

	ctx := context.Background()
	llmClient, err := gemini.New(ctx, projectID, location)
	gt.NoError(t, err).Required()

	svc, err := extraction.New(llmClient)
	gt.NoError(t, err).Required()

	text, err := svc.Extract(ctx, extraction.Input{
		Message: "Call John tomorrow at 3pm and email Sarah by Friday",
		Now:     time.Now(),
	})
	gt.NoError(t, err).Required()
	gt.String(t, text).Contains("actions")
}
