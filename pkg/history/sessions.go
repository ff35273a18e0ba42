// Package history persists CLI chat sessions as JSON files so a
// conversation can continue across invocations. The full session is always
// stored; the fixed transmission window is applied by the provider layer.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/agentcoder/agentcoder/pkg/types"
)

const sessionsDir = ".agentcoder/sessions"

// Session is one persisted conversation.
type Session struct {
	ID        string          `json:"id"`
	Messages  []types.Message `json:"messages"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Append records one user/assistant exchange.
func (s *Session) Append(role, content string) {
	s.Messages = append(s.Messages, types.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	s.UpdatedAt = time.Now()
}

// Store reads and writes sessions under a base directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at the user's home directory.
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not get user home directory: %w", err)
	}
	return NewStoreAt(filepath.Join(homeDir, sessionsDir)), nil
}

// NewStoreAt creates a store rooted at an explicit directory.
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

// LoadOrCreate returns the session with the given id, or a fresh one if it
// has not been saved yet.
func (st *Store) LoadOrCreate(id string) (*Session, error) {
	data, err := os.ReadFile(st.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			now := time.Now()
			return &Session{ID: id, CreatedAt: now, UpdatedAt: now}, nil
		}
		return nil, fmt.Errorf("could not read session %s: %w", id, err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("could not unmarshal session %s: %w", id, err)
	}
	return &session, nil
}

// Save writes the session to disk.
func (st *Store) Save(session *Session) error {
	if session.ID == "" {
		return fmt.Errorf("session id is required")
	}

	if err := os.MkdirAll(st.dir, 0755); err != nil {
		return fmt.Errorf("could not create sessions directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal session %s: %w", session.ID, err)
	}

	if err := os.WriteFile(st.path(session.ID), data, 0644); err != nil {
		return fmt.Errorf("could not write session %s: %w", session.ID, err)
	}
	return nil
}

// List returns the ids of all saved sessions, sorted.
func (st *Store) List() ([]string, error) {
	entries, err := os.ReadDir(st.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read sessions directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func (st *Store) path(id string) string {
	return filepath.Join(st.dir, id+".json")
}
