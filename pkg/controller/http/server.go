package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jeetu-ai/jeetu/pkg/usecase"
)

type Server struct {
	router              *chi.Mux
	uc                  *usecase.UseCases
	slackWebhookHandler *SlackWebhookHandler
	slackSigningSecret  string
}

type Options func(*Server)

func WithSlackWebhook(handler *SlackWebhookHandler, signingSecret string) Options {
	return func(s *Server) {
		s.slackWebhookHandler = handler
		s.slackSigningSecret = signingSecret
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	h := &apiHandler{uc: uc}
	r.Route("/api", func(r chi.Router) {
		r.Use(requestLogger)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Post("/messages", h.postUserMessage)
			r.Get("/actions", h.listActions)
			r.Get("/actions/stats", h.actionStats)
			r.Post("/actions/{actionID}/complete", h.completeAction)
			r.Post("/actions/{actionID}/cancel", h.cancelAction)
			r.Delete("/actions/{actionID}", h.deleteAction)
		})

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Post("/messages", h.postGroupMessage)
			r.Get("/tasks", h.listSharedTasks)
		})

		r.Post("/reminders/sweep", h.sweepReminders)
	})

	// Slack webhook endpoint (if configured) - uses signature verification
	if s.slackWebhookHandler != nil {
		r.Route("/hooks/slack", func(r chi.Router) {
			r.Use(SlackSignatureMiddleware(s.slackSigningSecret))
			r.Post("/event", s.slackWebhookHandler.ServeHTTP)
		})
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
