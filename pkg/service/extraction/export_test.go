package extraction

// BuildUserPrompt is exported for testing
var BuildUserPrompt = buildUserPrompt

// SystemPrompt is exported for testing
var SystemPrompt = systemPrompt
