package openai

import "time"

// Config holds the configuration for the chat-completions client.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.openai.com/v1".
	// Any OpenAI-compatible endpoint works.
	BaseURL string
	// APIKey is sent as a bearer token.
	APIKey string
	// Model is the model name requested for every completion.
	Model string
	// Timeout bounds the whole round trip. Expiry surfaces as an
	// upstream failure; there is no retry.
	Timeout time.Duration
	// InlineRemoteImages makes the client fetch http(s) image URLs
	// itself and send them inline as data URLs, for providers that
	// cannot fetch remote images. Data URLs always pass through as-is.
	InlineRemoteImages bool
}

// DefaultConfig provides sensible defaults; only APIKey must be supplied.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
		Timeout: 45 * time.Second,
	}
}
