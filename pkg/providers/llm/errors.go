package llm

import (
	"errors"
	"fmt"
)

// ErrUnsupportedProvider is returned when a provider identifier does not
// resolve to a registered adapter. It is raised before any network activity.
var ErrUnsupportedProvider = errors.New("unsupported provider")

// ErrInvalidConfig wraps factory validation failures (missing API key or
// model). Like ErrUnsupportedProvider it marks a caller mistake, raised
// before any network activity.
var ErrInvalidConfig = errors.New("invalid provider configuration")

// ProviderError indicates the vendor responded with a non-success status or
// a payload the adapter could not parse. The message embeds the vendor's
// status and body verbatim to aid caller-side diagnosis.
type ProviderError struct {
	Provider   string // display name, e.g. "OpenAI"
	StatusCode int    // zero when the failure was not an HTTP status
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

// TransportError indicates the HTTP call could not complete at all.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
