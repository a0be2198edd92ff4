package slack

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

const (
	// DefaultCacheTTL is the default TTL for the user cache
	DefaultCacheTTL = 10 * time.Minute
)

// cacheEntry holds a cached user with expiration
type cacheEntry struct {
	user      *User
	expiresAt time.Time
}

// client implements Service interface
type client struct {
	api      *slack.Client
	cacheTTL time.Duration

	mu        sync.RWMutex
	cache     map[string]cacheEntry
	botUserID string
}

// Option is a functional option for client configuration
type Option func(*client)

// options passed to the underlying slack-go client
type apiOptions struct {
	apiURL string
}

// WithCacheTTL sets the TTL for user cache
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *client) {
		c.cacheTTL = ttl
	}
}

// New creates a new Slack service with the provided bot token
func New(token string, opts ...Option) (Service, error) {
	return newClient(token, apiOptions{}, opts...)
}

func newClient(token string, apiOpts apiOptions, opts ...Option) (*client, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	var slackOpts []slack.Option
	if apiOpts.apiURL != "" {
		slackOpts = append(slackOpts, slack.OptionAPIURL(apiOpts.apiURL))
	}

	c := &client{
		api:      slack.New(token, slackOpts...),
		cacheTTL: DefaultCacheTTL,
		cache:    make(map[string]cacheEntry),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GetBotUserID returns the bot's own user ID via auth.test
func (c *client) GetBotUserID(ctx context.Context) (string, error) {
	c.mu.RLock()
	id := c.botUserID
	c.mu.RUnlock()
	if id != "" {
		return id, nil
	}

	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to call auth.test")
	}

	c.mu.Lock()
	c.botUserID = resp.UserID
	c.mu.Unlock()

	return resp.UserID, nil
}

// GetUser retrieves user information with caching
func (c *client) GetUser(ctx context.Context, userID string) (*User, error) {
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.cache[userID]
	c.mu.RUnlock()
	if ok && entry.expiresAt.After(now) {
		return entry.user, nil
	}

	info, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user info", goerr.V("user_id", userID))
	}

	user := &User{
		ID:       info.ID,
		Name:     info.Name,
		RealName: info.RealName,
		IsBot:    info.IsBot,
	}

	c.mu.Lock()
	c.cache[userID] = cacheEntry{
		user:      user,
		expiresAt: now.Add(c.cacheTTL),
	}
	c.mu.Unlock()

	return user, nil
}

// ListChannelMembers returns every member of the channel
func (c *client) ListChannelMembers(ctx context.Context, channelID string) ([]string, error) {
	var members []string
	var cursor string

	for {
		ids, next, err := c.api.GetUsersInConversationContext(ctx, &slack.GetUsersInConversationParameters{
			ChannelID: channelID,
			Cursor:    cursor,
			Limit:     200,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get channel members", goerr.V("channel_id", channelID))
		}
		members = append(members, ids...)

		if next == "" {
			break
		}
		cursor = next
	}

	return members, nil
}

// PostMessage posts text to the channel
func (c *client) PostMessage(ctx context.Context, channelID, text string) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return "", goerr.Wrap(err, "failed to post message", goerr.V("channel_id", channelID))
	}
	return ts, nil
}

// PostDirectMessage opens (or reuses) a DM channel with the user and posts text
func (c *client) PostDirectMessage(ctx context.Context, userID, text string) error {
	ch, _, _, err := c.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{userID},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to open DM", goerr.V("user_id", userID))
	}

	if _, _, err := c.api.PostMessageContext(ctx, ch.ID, slack.MsgOptionText(text, false)); err != nil {
		return goerr.Wrap(err, "failed to post DM", goerr.V("user_id", userID))
	}
	return nil
}
