package extraction

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when the language model could not produce an
// answer in time or the circuit breaker is open
var ErrUnavailable = errors.New("language model unavailable")

// Service asks the language model for the action requests in a message and
// returns its raw answer. The answer is untrusted text and may be malformed.
type Service interface {
	Extract(ctx context.Context, input Input) (string, error)
}

// Input is one message to analyze
type Input struct {
	Message string
	// Now anchors relative phrases for the model; it is shown, not resolved
	Now time.Time
}
