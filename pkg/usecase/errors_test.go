package usecase_test

import (
	"errors"
	"testing"

	"github.com/jeetu-ai/jeetu/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestErrors_SentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrActionNotFound", usecase.ErrActionNotFound},
		{"ErrSharedTaskNotFound", usecase.ErrSharedTaskNotFound},
		{"ErrInvalidRequest", usecase.ErrInvalidRequest},
		{"ErrPersistFailed", usecase.ErrPersistFailed},
		{"ErrLLMUnavailable", usecase.ErrLLMUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.err).NotNil()
		})
	}
}

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	gt.Bool(t, errors.Is(usecase.ErrActionNotFound, usecase.ErrSharedTaskNotFound)).False()
	gt.Bool(t, errors.Is(usecase.ErrPersistFailed, usecase.ErrInvalidRequest)).False()
	gt.Bool(t, errors.Is(usecase.ErrLLMUnavailable, usecase.ErrPersistFailed)).False()
}
