package config

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, signingSecret, notifyChannel string) *Slack {
	return &Slack{
		botToken:      botToken,
		signingSecret: signingSecret,
		notifyChannel: notifyChannel,
	}
}

// NewLLMForTest creates an LLM config for testing purposes
func NewLLMForTest(provider, geminiProject, openaiAPIKey, claudeAPIKey string) *LLM {
	return &LLM{
		provider:       provider,
		geminiProject:  geminiProject,
		geminiLocation: "us-central1",
		openaiAPIKey:   openaiAPIKey,
		claudeAPIKey:   claudeAPIKey,
	}
}

func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{
		backend:   backend,
		projectID: projectID,
	}
}

func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

func NewSentryForTest(dsn string) *Sentry {
	return &Sentry{dsn: dsn}
}

var Redactor = redactor
