// Package providers wires the LLM adapters into a single dispatch facade
// exposing the normalized send contract used by the CLI and the web server.
package providers

import (
	"context"
	"strings"

	"github.com/agentcoder/agentcoder/pkg/parser"
	"github.com/agentcoder/agentcoder/pkg/providers/llm"
	"github.com/agentcoder/agentcoder/pkg/providers/llm/claude"
	"github.com/agentcoder/agentcoder/pkg/providers/llm/gemini"
	"github.com/agentcoder/agentcoder/pkg/providers/llm/openai"
	"github.com/agentcoder/agentcoder/pkg/types"
)

// SendRequest is the normalized request the dispatcher accepts. The API key
// is caller-supplied per call and is never cached, logged, or persisted by
// this layer.
type SendRequest struct {
	Prompt   string
	History  []types.Message
	Provider string
	Model    string
	APIKey   string
}

// Dispatcher routes normalized requests to the adapter registered for the
// requested provider. There is no fallback, no retry, and no fan-out: a
// provider identifier resolves to exactly one adapter or fails.
type Dispatcher struct {
	registry *llm.Registry
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *llm.Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// NewDefaultDispatcher creates a dispatcher over the default registry.
func NewDefaultDispatcher() *Dispatcher {
	return NewDispatcher(NewDefaultRegistry())
}

// NewDefaultRegistry registers the closed set of supported providers.
// Anything else, including providers the UI advertises without a backing
// adapter, fails at dispatch time with ErrUnsupportedProvider.
func NewDefaultRegistry() *llm.Registry {
	registry := llm.NewRegistry()
	for _, factory := range []llm.ProviderFactory{
		&openai.Factory{},
		&gemini.Factory{},
		&claude.Factory{},
	} {
		// Registration over a fresh registry cannot collide.
		_ = registry.Register(factory)
	}
	return registry
}

// Send resolves the provider, issues the single underlying vendor call, and
// returns the normalized result with code blocks extracted from the reply.
func (d *Dispatcher) Send(ctx context.Context, req SendRequest) (*types.AIResponse, error) {
	factory, err := d.registry.Lookup(strings.ToLower(req.Provider))
	if err != nil {
		return nil, err
	}

	// A fresh provider instance per call keeps credentials out of any
	// process-wide state.
	provider, err := factory.Create(&types.ProviderConfig{
		Name:    factory.GetName(),
		Model:   req.Model,
		APIKey:  req.APIKey,
		Enabled: true,
	})
	if err != nil {
		return nil, err
	}

	options := llm.ApplyDefaults(types.RequestOptions{Model: req.Model})

	content, metadata, err := provider.GenerateResponse(ctx, req.Prompt, req.History, options)
	if err != nil {
		return nil, err
	}

	return &types.AIResponse{
		Content:    content,
		CodeBlocks: parser.ExtractCodeBlocks(content),
		Metadata:   metadata,
	}, nil
}

// AvailableModels returns the provider -> model-name map advertised by the
// registered adapters.
func (d *Dispatcher) AvailableModels() map[string][]string {
	models := make(map[string][]string)
	for _, factory := range d.registry.Factories() {
		names := make([]string, 0, len(factory.Models()))
		for _, info := range factory.Models() {
			names = append(names, info.Name)
		}
		models[factory.GetName()] = names
	}
	return models
}

// Providers returns the registered provider identifiers, sorted.
func (d *Dispatcher) Providers() []string {
	return d.registry.ListProviders()
}
