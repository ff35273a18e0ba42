// Package openai implements the OpenAI chat-completions adapter.
package openai

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
	displayName    = "OpenAI"
	defaultBaseURL = "https://api.openai.com/v1"

	// Returned when the vendor reply carries no completion choice; the
	// backend treats that as an empty answer, not a failure.
	emptyReplyPlaceholder = "No response generated."
)

// Provider implements the OpenAI LLM provider
type Provider struct {
	config     *types.ProviderConfig
	httpClient *http.Client
}

// Factory implements the ProviderFactory interface for OpenAI
type Factory struct{}

// GetName returns the provider name
func (f *Factory) GetName() string {
	return "openai"
}

// Create creates a new OpenAI provider instance
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

// Validate validates the OpenAI provider configuration
func (f *Factory) Validate(config *types.ProviderConfig) error {
	if config == nil {
		return fmt.Errorf("%w: configuration is required", llm.ErrInvalidConfig)
	}

	if config.APIKey == "" {
		return fmt.Errorf("%w: API key is required for OpenAI provider", llm.ErrInvalidConfig)
	}

	if config.Model == "" {
		return fmt.Errorf("%w: model is required for OpenAI provider", llm.ErrInvalidConfig)
	}

	// Set defaults
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}

	if config.Timeout == 0 {
		config.Timeout = 60 // 60 seconds default
	}

	return nil
}

// Models returns the models served through this adapter
func (f *Factory) Models() []types.ModelInfo {
	return []types.ModelInfo{
		{Name: "gpt-4-turbo-preview", Provider: "openai", MaxTokens: 128000},
		{Name: "gpt-4", Provider: "openai", MaxTokens: 8192},
		{Name: "gpt-3.5-turbo", Provider: "openai", MaxTokens: 16384},
	}
}

// GetName returns the provider name
func (p *Provider) GetName() string {
	return "openai"
}

// GenerateResponse sends one chat-completions request and returns the reply
// text from the first completion choice.
func (p *Provider) GenerateResponse(ctx context.Context, prompt string, history []types.Message, options types.RequestOptions) (string, *types.ResponseMetadata, error) {
	requestBody, err := p.buildRequest(prompt, history, options)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build request: %w", err)
	}

	startTime := time.Now()
	resp, err := p.makeRequest(ctx, requestBody)
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

	var apiResponse ChatResponse
	if err := json.Unmarshal(responseData, &apiResponse); err != nil {
		return "", nil, &llm.ProviderError{
			Provider: displayName,
			Message:  fmt.Sprintf("failed to unmarshal response: %v", err),
		}
	}

	content := emptyReplyPlaceholder
	if len(apiResponse.Choices) > 0 && apiResponse.Choices[0].Message.Content != "" {
		content = apiResponse.Choices[0].Message.Content
	}

	metadata := &types.ResponseMetadata{
		Provider: "openai",
		Model:    options.Model,
		TokenUsage: types.TokenUsage{
			PromptTokens:     apiResponse.Usage.PromptTokens,
			CompletionTokens: apiResponse.Usage.CompletionTokens,
			TotalTokens:      apiResponse.Usage.TotalTokens,
		},
		Duration: time.Since(startTime),
	}

	return content, metadata, nil
}

// buildRequest builds the OpenAI API request. The system instruction is a
// distinct message with role "system"; history roles map through unchanged.
func (p *Provider) buildRequest(prompt string, history []types.Message, options types.RequestOptions) ([]byte, error) {
	window := llm.TruncateHistory(history, llm.HistoryWindow)

	messages := make([]ChatMessage, 0, len(window)+2)
	messages = append(messages, ChatMessage{Role: types.RoleSystem, Content: prompts.SystemPrompt})
	for _, msg := range window {
		messages = append(messages, ChatMessage{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, ChatMessage{Role: types.RoleUser, Content: prompt})

	request := ChatRequest{
		Model:       options.Model,
		Messages:    messages,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	}

	return json.Marshal(request)
}

// makeRequest makes an HTTP request to the OpenAI API
func (p *Provider) makeRequest(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", p.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	return p.httpClient.Do(req)
}

// OpenAI API types
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
