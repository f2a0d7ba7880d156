package llm

import "context"

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of model input
type ChatMessage struct {
	Role    string
	Content string
}

// Request contains chat completion parameters
type Request struct {
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
}

// Usage contains post-stream accounting for one completion
type Usage struct {
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// DeltaFunc receives each streamed content fragment as the model produces
// it. Returning an error stops the stream.
type DeltaFunc func(delta string) error

// Provider defines the interface for streaming LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// StreamCompletion streams a chat completion, invoking onDelta for each
	// content fragment, and returns usage once the stream ends.
	StreamCompletion(ctx context.Context, req Request, model string, onDelta DeltaFunc) (*Usage, error)
}
