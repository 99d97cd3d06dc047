package providers

import "time"

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single chat message.
type Message struct {
	// Role identifies the message sender (system, user, assistant)
	Role string `json:"role"`

	// Content is the message text
	Content string `json:"content"`
}

// CompletionRequest is a provider-agnostic chat-completion request.
type CompletionRequest struct {
	// Model is the model identifier
	Model string `json:"model"`

	// Messages is the conversation, in order
	Messages []Message `json:"messages"`

	// Temperature is the sampling temperature. Nil leaves it to the
	// provider's default and omits the field on the wire.
	Temperature *float64 `json:"temperature,omitempty"`

	// MaxTokens caps the completion length (0 = provider default)
	MaxTokens int `json:"max_tokens,omitempty"`
}

// CompletionResponse is a provider-agnostic chat-completion response.
type CompletionResponse struct {
	// ID is the provider's response identifier
	ID string `json:"id"`

	// Model is the model that produced the response
	Model string `json:"model"`

	// Content is the first choice's message content, unmodified
	Content string `json:"content"`

	// FinishReason explains why generation stopped
	FinishReason string `json:"finish_reason"`

	// Usage reports token consumption
	Usage TokenUsage `json:"usage"`
}

// TokenUsage reports token counts for a completion.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ProviderConfig contains configuration for a provider adapter.
type ProviderConfig struct {
	// Name identifies the provider in logs and errors
	Name string

	// Type is the adapter type (e.g. "openai")
	Type string

	// BaseURL is the API root
	BaseURL string

	// APIKey authenticates requests
	APIKey string

	// Timeout bounds each HTTP request, including reading the body
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections across hosts
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum number of idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection stays in the pool
	IdleConnTimeout time.Duration
}

// Float64 returns a pointer to v, for optional request fields.
func Float64(v float64) *float64 {
	return &v
}
