package extraction

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/sony/gobreaker/v2"
)

//go:embed prompt/system.md
var systemPrompt string

const (
	// DefaultTimeout bounds a single language model call
	DefaultTimeout = 30 * time.Second
	// DefaultBreakerFailures is the number of consecutive failures that opens the breaker
	DefaultBreakerFailures = 3
	// DefaultBreakerCooldown is how long the breaker stays open
	DefaultBreakerCooldown = time.Minute
)

// client implements Service interface
type client struct {
	llmClient gollem.LLMClient
	timeout   time.Duration
	failures  uint32
	cooldown  time.Duration
	breaker   *gobreaker.CircuitBreaker[string]
}

// Option is a functional option for client configuration
type Option func(*client)

// WithTimeout sets the deadline of each language model call
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

// WithBreaker configures the circuit breaker around the language model
func WithBreaker(failures uint32, cooldown time.Duration) Option {
	return func(c *client) {
		c.failures = failures
		c.cooldown = cooldown
	}
}

// New creates an extraction service backed by llmClient
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient: llmClient,
		timeout:   DefaultTimeout,
		failures:  DefaultBreakerFailures,
		cooldown:  DefaultBreakerCooldown,
	}

	for _, opt := range opts {
		opt(c)
	}

	failures := c.failures
	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "llm-extraction",
		MaxRequests: 1,
		Timeout:     c.cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Default().Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return c, nil
}

// Extract sends the message to the language model and returns its raw text
func (c *client) Extract(ctx context.Context, input Input) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.breaker.Execute(func() (string, error) {
		return c.generate(ctx, input)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", goerr.Wrap(ErrUnavailable, "circuit breaker is open")
		}
		return "", goerr.Wrap(ErrUnavailable, "language model call failed",
			goerr.V("cause", err.Error()),
			goerr.V("timeout", c.timeout.String()))
	}

	return text, nil
}

func (c *client) generate(ctx context.Context, input Input) (string, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildUserPrompt(input)))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}
	// A client that ignores ctx may still return after the deadline
	if err := ctx.Err(); err != nil {
		return "", goerr.Wrap(err, "LLM call exceeded deadline")
	}

	return strings.Join(resp.Texts, ""), nil
}

// buildUserPrompt creates the user prompt with the reference time and message
func buildUserPrompt(input Input) string {
	var sb strings.Builder

	if !input.Now.IsZero() {
		fmt.Fprintf(&sb, "Current time: %s\n\n", input.Now.Format("Monday, 2006-01-02 15:04 MST"))
	}
	sb.WriteString("## Message:\n\n")
	sb.WriteString(input.Message)
	sb.WriteString("\n")

	return sb.String()
}

// buildResponseSchema creates the JSON schema for structured output
func buildResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "ActionExtractionResponse",
		Description: "Actions requested in the user message",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"actions": {
				Type:        gollem.TypeArray,
				Description: "Every action found in the message; empty when there is none",
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"type": {
							Type:        gollem.TypeString,
							Description: "reminder, alarm, notification, calendar or task",
						},
						"title": {
							Type:        gollem.TypeString,
							Description: "Short imperative title without the time phrase",
						},
						"description": {
							Type:        gollem.TypeString,
							Description: "Optional detail",
						},
						"due": {
							Type:        gollem.TypeString,
							Description: "Time phrase copied from the message, empty if none",
						},
						"priority": {
							Type:        gollem.TypeString,
							Description: "high, medium or low",
						},
					},
				},
			},
		},
	}
}
