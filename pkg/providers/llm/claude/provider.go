// Package claude implements the Anthropic Claude messages adapter.
package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agentcoder/agentcoder/pkg/prompts"
	"github.com/agentcoder/agentcoder/pkg/providers/llm"
	"github.com/agentcoder/agentcoder/pkg/types"
)

const (
	displayName    = "Claude"
	defaultBaseURL = "https://api.anthropic.com/v1"

	// The messages endpoint rejects requests without an explicit version.
	apiVersion = "2023-06-01"
)

// Provider implements the Anthropic Claude LLM provider
type Provider struct {
	config     *types.ProviderConfig
	httpClient *http.Client
}

// Factory implements the ProviderFactory interface for Claude
type Factory struct{}

// GetName returns the provider name
func (f *Factory) GetName() string {
	return "claude"
}

// Create creates a new Claude provider instance
func (f *Factory) Create(config *types.ProviderConfig) (llm.Provider, error) {
	if err := f.Validate(config); err != nil {
		return nil, err
	}

	return &Provider{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}, nil
}

// Validate validates the Claude provider configuration
func (f *Factory) Validate(config *types.ProviderConfig) error {
	if config == nil {
		return fmt.Errorf("%w: configuration is required", llm.ErrInvalidConfig)
	}

	if config.APIKey == "" {
		return fmt.Errorf("%w: API key is required for Claude provider", llm.ErrInvalidConfig)
	}

	if config.Model == "" {
		return fmt.Errorf("%w: model is required for Claude provider", llm.ErrInvalidConfig)
	}

	// Set defaults
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}

	if config.Timeout == 0 {
		config.Timeout = 60
	}

	return nil
}

// Models returns the models served through this adapter
func (f *Factory) Models() []types.ModelInfo {
	return []types.ModelInfo{
		{Name: "claude-3-opus-20240229", Provider: "claude", MaxTokens: 200000},
		{Name: "claude-3-sonnet-20240229", Provider: "claude", MaxTokens: 200000},
		{Name: "claude-3-haiku-20240307", Provider: "claude", MaxTokens: 200000},
	}
}

// GetName returns the provider name
func (p *Provider) GetName() string {
	return "claude"
}

// GenerateResponse sends one messages request. The system instruction is a
// dedicated top-level field, not a message; history roles map unchanged.
func (p *Provider) GenerateResponse(ctx context.Context, prompt string, history []types.Message, options types.RequestOptions) (string, *types.ResponseMetadata, error) {
	requestBody, err := p.buildRequest(prompt, history, options)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.config.BaseURL+"/messages", bytes.NewReader(requestBody))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.config.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	startTime := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", nil, &llm.TransportError{Provider: displayName, Err: err}
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, &llm.TransportError{Provider: displayName, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", nil, &llm.ProviderError{
			Provider:   displayName,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(responseData)),
		}
	}

	var apiResponse MessagesResponse
	if err := json.Unmarshal(responseData, &apiResponse); err != nil {
		return "", nil, &llm.ProviderError{
			Provider: displayName,
			Message:  fmt.Sprintf("failed to unmarshal response: %v", err),
		}
	}

	if apiResponse.Error != nil {
		return "", nil, &llm.ProviderError{
			Provider: displayName,
			Message:  apiResponse.Error.Message,
		}
	}

	if len(apiResponse.Content) == 0 {
		return "", nil, &llm.ProviderError{
			Provider: displayName,
			Message:  "empty response",
		}
	}

	metadata := &types.ResponseMetadata{
		Provider: "claude",
		Model:    options.Model,
		TokenUsage: types.TokenUsage{
			PromptTokens:     apiResponse.Usage.InputTokens,
			CompletionTokens: apiResponse.Usage.OutputTokens,
			TotalTokens:      apiResponse.Usage.InputTokens + apiResponse.Usage.OutputTokens,
		},
		Duration: time.Since(startTime),
	}

	return apiResponse.Content[0].Text, metadata, nil
}

// buildRequest builds the Claude messages request from truncated history
// plus the prompt as the final user turn.
func (p *Provider) buildRequest(prompt string, history []types.Message, options types.RequestOptions) ([]byte, error) {
	window := llm.TruncateHistory(history, llm.HistoryWindow)

	messages := make([]MessageParam, 0, len(window)+1)
	for _, msg := range window {
		messages = append(messages, MessageParam{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, MessageParam{Role: types.RoleUser, Content: prompt})

	request := MessagesRequest{
		Model:       options.Model,
		MaxTokens:   options.MaxTokens,
		Temperature: options.Temperature,
		System:      prompts.SystemPrompt,
		Messages:    messages,
	}

	return json.Marshal(request)
}

// Claude API types
type MessagesRequest struct {
	Model       string         `json:"model"`
	MaxTokens   int            `json:"max_tokens"`
	Temperature float64        `json:"temperature"`
	System      string         `json:"system"`
	Messages    []MessageParam `json:"messages"`
}

type MessageParam struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type MessagesResponse struct {
	Content []ContentBlock `json:"content"`
	Usage   UsageInfo      `json:"usage"`
	Error   *APIError      `json:"error,omitempty"`
}

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type UsageInfo struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
