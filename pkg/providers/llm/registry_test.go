package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcoder/agentcoder/pkg/types"
)

type stubFactory struct {
	name string
}

func (f *stubFactory) GetName() string { return f.name }

func (f *stubFactory) Create(config *types.ProviderConfig) (Provider, error) {
	return nil, errors.New("stub factory cannot create providers")
}

func (f *stubFactory) Validate(config *types.ProviderConfig) error { return nil }

func (f *stubFactory) Models() []types.ModelInfo { return nil }

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(&stubFactory{name: "openai"})
	require.NoError(t, err)

	// Duplicate registration is rejected
	err = registry.Register(&stubFactory{name: "openai"})
	assert.Error(t, err)

	// Empty names are rejected
	err = registry.Register(&stubFactory{name: ""})
	assert.Error(t, err)
}

func TestRegistry_Lookup(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&stubFactory{name: "claude"}))

	factory, err := registry.Lookup("claude")
	require.NoError(t, err)
	assert.Equal(t, "claude", factory.GetName())

	_, err = registry.Lookup("deepseek")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
	assert.Contains(t, err.Error(), "deepseek")
}

func TestRegistry_ListProviders(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&stubFactory{name: "openai"}))
	require.NoError(t, registry.Register(&stubFactory{name: "gemini"}))
	require.NoError(t, registry.Register(&stubFactory{name: "claude"}))

	assert.Equal(t, []string{"claude", "gemini", "openai"}, registry.ListProviders())
}

func TestTruncateHistory(t *testing.T) {
	history := make([]types.Message, 15)
	for i := range history {
		history[i] = types.Message{Role: types.RoleUser, Content: string(rune('a' + i))}
	}

	window := TruncateHistory(history, HistoryWindow)
	require.Len(t, window, HistoryWindow)
	// Most recent entries are kept
	assert.Equal(t, history[5], window[0])
	assert.Equal(t, history[14], window[9])

	// The caller's slice is untouched
	assert.Len(t, history, 15)

	// Short histories pass through as-is
	short := history[:3]
	assert.Equal(t, short, TruncateHistory(short, HistoryWindow))
}

func TestApplyDefaults(t *testing.T) {
	options := ApplyDefaults(types.RequestOptions{Model: "gpt-4"})
	assert.Equal(t, "gpt-4", options.Model)
	assert.Equal(t, DefaultTemperature, options.Temperature)
	assert.Equal(t, DefaultMaxTokens, options.MaxTokens)

	// Explicit values survive
	options = ApplyDefaults(types.RequestOptions{Model: "gpt-4", Temperature: 0.2, MaxTokens: 100})
	assert.Equal(t, 0.2, options.Temperature)
	assert.Equal(t, 100, options.MaxTokens)
}

// compile-time check that the stub satisfies the factory contract
var _ ProviderFactory = (*stubFactory)(nil)
