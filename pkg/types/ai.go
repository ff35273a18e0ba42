package types

import "time"

// Conversation roles used throughout the backend. Providers may translate
// these to vendor-specific role names, but the normalized layer only ever
// sees user and assistant turns (system content is injected per request).
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message represents a conversation message with role and content.
// The timestamp is informational only and is never transmitted to providers.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// CodeBlock is one fenced code region extracted from an assistant reply.
type CodeBlock struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Filename string `json:"filename"`
}

// TokenUsage represents actual token usage from an API response
type TokenUsage struct {
	PromptTokens     int  `json:"prompt_tokens"`
	CompletionTokens int  `json:"completion_tokens"`
	TotalTokens      int  `json:"total_tokens"`
	Estimated        bool `json:"estimated,omitempty"`
}

// ResponseMetadata contains metadata about an LLM response
type ResponseMetadata struct {
	Provider   string        `json:"provider"`
	Model      string        `json:"model"`
	TokenUsage TokenUsage    `json:"token_usage"`
	Duration   time.Duration `json:"duration"`
}

// AIResponse is the normalized result returned to callers: the full
// assistant reply plus the code blocks extracted from it, in order.
type AIResponse struct {
	Content    string            `json:"content"`
	CodeBlocks []CodeBlock       `json:"code_blocks"`
	Metadata   *ResponseMetadata `json:"metadata,omitempty"`
}

// RequestOptions contains options for LLM requests
type RequestOptions struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Timeout     time.Duration `json:"timeout,omitempty"`
}

// ProviderConfig represents configuration for an LLM provider
type ProviderConfig struct {
	Name    string `json:"name"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
	Timeout int    `json:"timeout"`
	Enabled bool   `json:"enabled"`
}

// ModelInfo contains information about an LLM model
type ModelInfo struct {
	Name      string `json:"name"`
	Provider  string `json:"provider"`
	MaxTokens int    `json:"max_tokens"`
}
