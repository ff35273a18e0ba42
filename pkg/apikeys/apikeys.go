// Package apikeys resolves provider API keys for the CLI and server wiring.
// The dispatch layer itself takes the key per call and never persists it;
// this package is the caller-side convenience around env vars, the key file,
// and an optional interactive prompt.
package apikeys

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/term"
)

const apiKeysFile = ".agentcoder/api_keys.json"

// Environment variables checked per provider, in order. The generic
// <PROVIDER>_API_KEY form is tried last.
var envVarNames = map[string][]string{
	"openai": {"OPENAI_API_KEY"},
	"gemini": {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"claude": {"CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
}

var (
	apiKeys     map[string]string
	apiKeysOnce sync.Once
	apiKeysMu   sync.Mutex
)

// GetAPIKey retrieves the API key for the specified provider. It first
// checks the in-memory cache, then the key file, then environment variables,
// and finally prompts the user if not found and interactive mode is enabled.
func GetAPIKey(provider string, interactive bool) (string, error) {
	apiKeysOnce.Do(func() {
		apiKeys = make(map[string]string)
		loadedKeys, err := loadAPIKeys()
		if err == nil {
			apiKeysMu.Lock()
			for k, v := range loadedKeys {
				apiKeys[k] = v
			}
			apiKeysMu.Unlock()
		} else {
			fmt.Fprintf(os.Stderr, "Warning: could not load API keys from file: %v\n", err)
		}
	})

	apiKeysMu.Lock()
	key, ok := apiKeys[provider]
	apiKeysMu.Unlock()

	if ok && key != "" {
		return key, nil
	}

	if key = lookupEnv(provider); key != "" {
		apiKeysMu.Lock()
		apiKeys[provider] = key
		apiKeysMu.Unlock()
		return key, nil
	}

	if interactive {
		key = promptForAPIKey(provider)
		if key != "" {
			// Snapshot under the lock; saveAPIKeys marshals outside it
			// while other goroutines may still be writing the live map.
			apiKeysMu.Lock()
			apiKeys[provider] = key
			snapshot := make(map[string]string, len(apiKeys))
			for k, v := range apiKeys {
				snapshot[k] = v
			}
			apiKeysMu.Unlock()
			if err := saveAPIKeys(snapshot); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not save API key: %v\n", err)
			}
			return key, nil
		}
	}

	return "", fmt.Errorf("API key for %s not found and not provided", provider)
}

func lookupEnv(provider string) string {
	for _, name := range envVarNames[provider] {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return os.Getenv(strings.ToUpper(provider) + "_API_KEY")
}

// promptForAPIKey reads the key from the terminal without echoing it.
func promptForAPIKey(provider string) string {
	fmt.Printf("Enter API key for %s: ", provider)
	key, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(key))
}

// loadAPIKeys loads the API keys from the key file.
func loadAPIKeys() (map[string]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not get user home directory: %w", err)
	}
	filePath := filepath.Join(homeDir, apiKeysFile)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("could not read API keys file: %w", err)
	}

	var keys map[string]string
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("could not unmarshal API keys: %w", err)
	}
	return keys, nil
}

// saveAPIKeys saves the API keys to the key file.
func saveAPIKeys(keys map[string]string) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("could not get user home directory: %w", err)
	}
	filePath := filepath.Join(homeDir, apiKeysFile)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal API keys: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("could not write API keys file: %w", err)
	}
	return nil
}
