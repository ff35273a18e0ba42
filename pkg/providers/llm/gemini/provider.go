// Package gemini implements the Google Gemini generateContent adapter.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agentcoder/agentcoder/pkg/prompts"
	"github.com/agentcoder/agentcoder/pkg/providers/llm"
	"github.com/agentcoder/agentcoder/pkg/types"
)

const (
	displayName    = "Gemini"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// Provider implements the Gemini LLM provider
type Provider struct {
	config     *types.ProviderConfig
	httpClient *http.Client
}

// Factory implements the ProviderFactory interface for Gemini
type Factory struct{}

// GetName returns the provider name
func (f *Factory) GetName() string {
	return "gemini"
}

// Create creates a new Gemini provider instance
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

// Validate validates the Gemini provider configuration
func (f *Factory) Validate(config *types.ProviderConfig) error {
	if config == nil {
		return fmt.Errorf("%w: configuration is required", llm.ErrInvalidConfig)
	}

	if config.APIKey == "" {
		return fmt.Errorf("%w: API key is required for Gemini provider", llm.ErrInvalidConfig)
	}

	if config.Model == "" {
		return fmt.Errorf("%w: model is required for Gemini provider", llm.ErrInvalidConfig)
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
		{Name: "gemini-pro", Provider: "gemini", MaxTokens: 32768},
		{Name: "gemini-pro-vision", Provider: "gemini", MaxTokens: 16384},
	}
}

// GetName returns the provider name
func (p *Provider) GetName() string {
	return "gemini"
}

// GenerateResponse sends one generateContent request. Gemini has no system
// role; the coding-assistant instruction rides in the systemInstruction
// field and history turns use the vendor role "model" for the assistant.
func (p *Provider) GenerateResponse(ctx context.Context, prompt string, history []types.Message, options types.RequestOptions) (string, *types.ResponseMetadata, error) {
	requestBody, err := p.buildRequest(prompt, history, options)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		p.config.BaseURL, options.Model, url.QueryEscape(p.config.APIKey))

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewReader(requestBody))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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

	var apiResponse GenerateResponse
	if err := json.Unmarshal(responseData, &apiResponse); err != nil {
		return "", nil, &llm.ProviderError{
			Provider: displayName,
			Message:  fmt.Sprintf("failed to unmarshal response: %v", err),
		}
	}

	if len(apiResponse.Candidates) == 0 || len(apiResponse.Candidates[0].Content.Parts) == 0 {
		return "", nil, &llm.ProviderError{
			Provider: displayName,
			Message:  "no content in response",
		}
	}

	metadata := &types.ResponseMetadata{
		Provider: "gemini",
		Model:    options.Model,
		TokenUsage: types.TokenUsage{
			PromptTokens:     apiResponse.UsageMetadata.PromptTokenCount,
			CompletionTokens: apiResponse.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      apiResponse.UsageMetadata.TotalTokenCount,
		},
		Duration: time.Since(startTime),
	}

	return apiResponse.Candidates[0].Content.Parts[0].Text, metadata, nil
}

// buildRequest builds the Gemini API request: truncated history plus the
// new prompt as the final user turn of the contents array.
func (p *Provider) buildRequest(prompt string, history []types.Message, options types.RequestOptions) ([]byte, error) {
	window := llm.TruncateHistory(history, llm.HistoryWindow)

	contents := make([]Content, 0, len(window)+1)
	for _, msg := range window {
		role := "user"
		if msg.Role == types.RoleAssistant {
			role = "model"
		}
		contents = append(contents, Content{
			Role:  role,
			Parts: []Part{{Text: msg.Content}},
		})
	}
	contents = append(contents, Content{
		Role:  "user",
		Parts: []Part{{Text: prompt}},
	})

	request := GenerateRequest{
		SystemInstruction: &Content{Parts: []Part{{Text: prompts.SystemPrompt}}},
		Contents:          contents,
		GenerationConfig: GenerationConfig{
			Temperature:     options.Temperature,
			MaxOutputTokens: options.MaxTokens,
		},
	}

	return json.Marshal(request)
}

// Gemini API types
type GenerateRequest struct {
	SystemInstruction *Content         `json:"systemInstruction,omitempty"`
	Contents          []Content        `json:"contents"`
	GenerationConfig  GenerationConfig `json:"generationConfig"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type GenerateResponse struct {
	Candidates []struct {
		Content Content `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}
