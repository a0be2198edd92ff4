package interfaces

import (
	"context"

	"github.com/jeetu-ai/jeetu/pkg/domain/model"
)

// MessageHandler receives messages published to a group session
type MessageHandler func(ctx context.Context, msg *model.GroupMessage)

// Transport is the realtime publish/subscribe channel of group conversations
type Transport interface {
	// Send posts a message into the session on behalf of the author
	Send(ctx context.Context, sessionID, authorID, authorName, message string) error

	// Subscribe registers handler for messages of sessionID. The returned
	// function removes the subscription.
	Subscribe(sessionID string, handler MessageHandler) (unsubscribe func())

	// Publish hands a message received from outside, such as a chat webhook
	// event, to the subscribers of its session
	Publish(ctx context.Context, msg *model.GroupMessage)
}
