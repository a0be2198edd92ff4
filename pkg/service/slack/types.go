package slack

import (
	"context"
)

// Service is the subset of the Slack Web API the assistant uses. A Slack
// channel is a group session; its channel ID is the session ID.
type Service interface {
	// GetBotUserID returns the user ID of the bot itself. Cached after the first call.
	GetBotUserID(ctx context.Context) (string, error)

	// GetUser retrieves user information for the given user ID (with caching)
	GetUser(ctx context.Context, userID string) (*User, error)

	// ListChannelMembers returns the user IDs of a channel's members
	ListChannelMembers(ctx context.Context, channelID string) ([]string, error)

	// PostMessage posts a plain text message and returns its timestamp
	PostMessage(ctx context.Context, channelID, text string) (string, error)

	// PostDirectMessage opens a DM with the user and posts text to it
	PostDirectMessage(ctx context.Context, userID, text string) error
}

// User represents a Slack user
type User struct {
	ID       string
	Name     string
	RealName string
	IsBot    bool
}

// DisplayName prefers the real name
func (u *User) DisplayName() string {
	if u.RealName != "" {
		return u.RealName
	}
	return u.Name
}
