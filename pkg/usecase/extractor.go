package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/domain/model"
	"github.com/jeetu-ai/jeetu/pkg/domain/types"
	"github.com/jeetu-ai/jeetu/pkg/service/extraction"
	"github.com/jeetu-ai/jeetu/pkg/service/timeexpr"
	"github.com/jeetu-ai/jeetu/pkg/utils/errutil"
	"github.com/jeetu-ai/jeetu/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// MessageContext describes where a message came from
type MessageContext struct {
	MemoID    string
	MemoTitle string
	Origin    types.Origin
}

// ExtractorUseCase turns a free-form message into zero or more action items
type ExtractorUseCase struct {
	executor   *ExecutorUseCase
	lifecycle  *LifecycleUseCase
	extraction extraction.Service
	policy     Policy
	now        func() time.Time
}

func NewExtractorUseCase(executor *ExecutorUseCase, lifecycle *LifecycleUseCase, svc extraction.Service, policy Policy, now func() time.Time) *ExtractorUseCase {
	if now == nil {
		now = time.Now
	}
	return &ExtractorUseCase{
		executor:   executor,
		lifecycle:  lifecycle,
		extraction: svc,
		policy:     policy,
		now:        now,
	}
}

// ProcessMessage extracts the actions of message, executes each, and adds
// the resulting items to the user's list. Failures of single candidates are
// returned as warnings and do not stop the others. The error return is
// reserved for invalid input.
func (uc *ExtractorUseCase) ProcessMessage(ctx context.Context, userID, message string, mctx *MessageContext) (*model.ExtractionResult, error) {
	if userID == "" {
		return nil, goerr.Wrap(ErrInvalidRequest, "user ID is required")
	}
	if mctx == nil {
		mctx = &MessageContext{}
	}

	logger := logging.From(ctx).With("user_id", userID)

	if !containsKeyword(message, uc.policy.Keywords) {
		return &model.ExtractionResult{Status: model.ExtractionStatusNoAction}, nil
	}

	now := uc.now()
	text, err := uc.complete(ctx, message, now)
	if err != nil {
		logger.Warn("action extraction unavailable", "error", err.Error())
		return &model.ExtractionResult{
			Status:   model.ExtractionStatusUnavailable,
			Warnings: []string{"the assistant could not reach its language service, try again shortly"},
		}, nil
	}

	parsed := ParseExtraction(text)
	if parsed.Kind == ExtractionEmpty {
		logger.Debug("no action in message")
		return &model.ExtractionResult{Status: model.ExtractionStatusNoAction}, nil
	}

	result := &model.ExtractionResult{}
	for _, candidate := range parsed.Actions {
		item, err := uc.processCandidate(ctx, userID, message, candidate, mctx, now)
		if err != nil {
			errutil.Handle(ctx, err, "failed to process extracted action")
			result.Warnings = append(result.Warnings, fmt.Sprintf("could not create %q: %s", candidate.Title, warningReason(err)))
			continue
		}
		result.Items = append(result.Items, item)
	}

	if len(result.Items) > 0 {
		result.Status = model.ExtractionStatusCreated
	} else {
		result.Status = model.ExtractionStatusFailed
	}

	logger.Info("message processed for actions",
		"candidates", len(parsed.Actions),
		"created", len(result.Items),
		"status", result.Status,
	)
	return result, nil
}

func (uc *ExtractorUseCase) complete(ctx context.Context, message string, now time.Time) (string, error) {
	if uc.extraction == nil {
		return "", goerr.Wrap(ErrLLMUnavailable, "language model is not configured")
	}

	text, err := uc.extraction.Extract(ctx, extraction.Input{Message: message, Now: now})
	if err != nil {
		return "", goerr.Wrap(ErrLLMUnavailable, "extraction failed", goerr.V(CauseKey, err.Error()))
	}
	return text, nil
}

func (uc *ExtractorUseCase) processCandidate(ctx context.Context, userID, message string, candidate ExtractedAction, mctx *MessageContext, now time.Time) (*model.ActionItem, error) {
	req, err := uc.buildRequest(candidate, message, now)
	if err != nil {
		return nil, err
	}

	outcome, err := uc.executor.Execute(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	item := newActionItem(outcome, mctx.Origin, now)
	item.LinkedMemoID = mctx.MemoID
	item.LinkedMemoTitle = mctx.MemoTitle

	if err := uc.lifecycle.Add(ctx, userID, item); err != nil {
		return nil, goerr.Wrap(err, "record saved but action item could not be tracked",
			goerr.V(RecordIDKey, outcome.Record.ID))
	}
	return item, nil
}

// buildRequest converts a candidate into an ActionRequest. An unresolved
// time phrase on a kind that needs a trigger time falls back to policy.
func (uc *ExtractorUseCase) buildRequest(candidate ExtractedAction, message string, now time.Time) (*model.ActionRequest, error) {
	kind, err := types.ParseActionKind(candidate.Type)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidRequest, "unknown action type", goerr.V(KindKey, candidate.Type))
	}

	priority, err := types.ParsePriority(candidate.Priority)
	if err != nil {
		priority = types.PriorityMedium
	}

	req := &model.ActionRequest{
		Kind:               kind,
		Title:              candidate.Title,
		Description:        candidate.Description,
		Priority:           priority,
		OriginatingMessage: message,
	}

	if t, ok := timeexpr.Resolve(candidate.Due, now); ok {
		req.DueAt = &t
	} else if kind.NeedsTriggerTime() {
		t := uc.policy.Fallback.Apply(now)
		req.DueAt = &t
	}

	return req, nil
}

func containsKeyword(message string, keywords []string) bool {
	lower := strings.ToLower(message)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func warningReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "the request was incomplete"
	case errors.Is(err, ErrPersistFailed):
		return "it could not be saved"
	}
	return "an internal error occurred"
}
