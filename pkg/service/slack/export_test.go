package slack

// NewWithAPIURL creates a service that talks to a test server
func NewWithAPIURL(token, apiURL string, opts ...Option) (Service, error) {
	return newClient(token, apiOptions{apiURL: apiURL}, opts...)
}

// FormatNotification is exported for testing
var FormatNotification = formatNotification
