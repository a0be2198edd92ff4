package usecase

import (
	"time"

	"github.com/jeetu-ai/jeetu/pkg/domain/interfaces"
	"github.com/jeetu-ai/jeetu/pkg/service/extraction"
	"github.com/jeetu-ai/jeetu/pkg/service/notification"
	"github.com/jeetu-ai/jeetu/pkg/service/transport"
	"github.com/jeetu-ai/jeetu/pkg/utils/logging"
	"github.com/m-mizutani/gollem"
)

type UseCases struct {
	store      interfaces.Store
	llmClient  gollem.LLMClient
	extraction extraction.Service
	notifier   interfaces.Notifier
	transport  interfaces.Transport
	pusher     interfaces.Pusher
	policy     Policy
	now        func() time.Time

	Lifecycle *LifecycleUseCase
	Executor  *ExecutorUseCase
	Extractor *ExtractorUseCase
	GroupTask *GroupTaskUseCase
	Group     *GroupUseCase
	Action    *ActionUseCase
}

type Option func(*UseCases)

// WithLLMClient enables action extraction and group replies
func WithLLMClient(client gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llmClient = client
	}
}

// WithExtraction replaces the extraction service built from the LLM client
func WithExtraction(svc extraction.Service) Option {
	return func(uc *UseCases) {
		uc.extraction = svc
	}
}

func WithNotifier(notifier interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

func WithTransport(t interfaces.Transport) Option {
	return func(uc *UseCases) {
		uc.transport = t
	}
}

func WithPusher(pusher interfaces.Pusher) Option {
	return func(uc *UseCases) {
		uc.pusher = pusher
	}
}

func WithPolicy(policy Policy) Option {
	return func(uc *UseCases) {
		uc.policy = policy
	}
}

// WithClock replaces time.Now for every use case
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(store interfaces.Store, opts ...Option) *UseCases {
	uc := &UseCases{
		store:  store,
		policy: DefaultPolicy(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.notifier == nil {
		uc.notifier = notification.NewTimerNotifier(nil)
	}
	if uc.transport == nil {
		uc.transport = transport.NewHub()
	}
	if uc.extraction == nil && uc.llmClient != nil {
		svc, err := extraction.New(uc.llmClient,
			extraction.WithTimeout(uc.policy.LLMTimeout),
			extraction.WithBreaker(uc.policy.BreakerFailures, uc.policy.BreakerCooldown),
		)
		if err != nil {
			logging.Default().Warn("action extraction disabled", "error", err.Error())
		} else {
			uc.extraction = svc
		}
	}

	scheduler := notification.NewScheduler(uc.notifier, notification.WithClock(uc.now))

	uc.Lifecycle = NewLifecycleUseCase(store, uc.now)
	uc.Executor = NewExecutorUseCase(store, scheduler, uc.policy, uc.now)
	uc.Extractor = NewExtractorUseCase(uc.Executor, uc.Lifecycle, uc.extraction, uc.policy, uc.now)
	uc.GroupTask = NewGroupTaskUseCase(store, uc.Executor, uc.Lifecycle, uc.transport, uc.pusher, uc.policy, uc.now)
	uc.Group = NewGroupUseCase(store, uc.GroupTask, uc.Extractor, uc.transport, uc.llmClient, uc.policy, uc.now)
	uc.Action = NewActionUseCase(uc.Lifecycle, uc.GroupTask)

	return uc
}

// Transport returns the group transport in use
func (uc *UseCases) Transport() interfaces.Transport {
	return uc.transport
}

// Policy returns the effective policy
func (uc *UseCases) Policy() Policy {
	return uc.policy
}
