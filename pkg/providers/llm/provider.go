// Package llm defines the provider contract shared by all LLM adapters and
// the registry used to resolve a provider identifier to its factory.
package llm

import (
	"context"

	"github.com/agentcoder/agentcoder/pkg/types"
)

// Request defaults shared by every adapter. These match the behavior of the
// chat backend: a fixed sampling temperature, a fixed output budget, and a
// fixed window of conversation history transmitted per request.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
	HistoryWindow      = 10
)

// Provider is the adapter contract: translate a prompt plus conversation
// history into one vendor HTTP call and return the assistant's reply text.
// Implementations must not retry, fall back to another vendor, or share
// mutable state between calls.
type Provider interface {
	// GetName returns the provider identifier (e.g., "openai", "gemini")
	GetName() string

	// GenerateResponse sends the prompt and history to the vendor and
	// returns the assistant reply text with response metadata.
	GenerateResponse(ctx context.Context, prompt string, history []types.Message, options types.RequestOptions) (string, *types.ResponseMetadata, error)
}

// ProviderFactory creates new instances of a specific provider.
type ProviderFactory interface {
	// GetName returns the name of the provider
	GetName() string

	// Create creates a new provider instance with the given configuration
	Create(config *types.ProviderConfig) (Provider, error)

	// Validate validates the provider configuration
	Validate(config *types.ProviderConfig) error

	// Models returns the models this provider is known to serve
	Models() []types.ModelInfo
}

// TruncateHistory returns at most the max most recent messages. The input
// slice is never mutated; callers keep their full history.
func TruncateHistory(history []types.Message, max int) []types.Message {
	if len(history) <= max {
		return history
	}
	return history[len(history)-max:]
}

// ApplyDefaults fills unset request options with the fixed defaults.
func ApplyDefaults(options types.RequestOptions) types.RequestOptions {
	if options.Temperature == 0 {
		options.Temperature = DefaultTemperature
	}
	if options.MaxTokens == 0 {
		options.MaxTokens = DefaultMaxTokens
	}
	return options
}
