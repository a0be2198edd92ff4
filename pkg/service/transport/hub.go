// Package transport provides an in-process group message transport. It backs
// sessions that are not bridged to Slack and is used by the CLI and tests.
package transport

import (
	"context"
	"sync"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/domain/interfaces"
	"github.com/jeetu-ai/jeetu/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type subscription struct {
	id      uint64
	handler interfaces.MessageHandler
}

// Hub fans messages of a session out to its subscribers synchronously
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscription
	now    func() time.Time
}

var _ interfaces.Transport = &Hub{}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string][]subscription),
		now:  time.Now,
	}
}

func (h *Hub) Send(ctx context.Context, sessionID, authorID, authorName, message string) error {
	if sessionID == "" {
		return goerr.New("session ID is required")
	}

	msg := &model.GroupMessage{
		SessionID:  sessionID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       message,
		PostedAt:   h.now(),
	}
	h.Publish(ctx, msg)
	return nil
}

// Publish delivers an already built message, e.g. one received from an
// external chat, to the subscribers of its session
func (h *Hub) Publish(ctx context.Context, msg *model.GroupMessage) {
	h.mu.RLock()
	subs := make([]subscription, len(h.subs[msg.SessionID]))
	copy(subs, h.subs[msg.SessionID])
	h.mu.RUnlock()

	for _, s := range subs {
		s.handler(ctx, msg)
	}
}

func (h *Hub) Subscribe(sessionID string, handler interfaces.MessageHandler) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.subs[sessionID] = append(h.subs[sessionID], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			subs := h.subs[sessionID]
			for i, s := range subs {
				if s.id == id {
					h.subs[sessionID] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
			if len(h.subs[sessionID]) == 0 {
				delete(h.subs, sessionID)
			}
		})
	}
}

// Subscribers returns the number of handlers registered for sessionID
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[sessionID])
}
