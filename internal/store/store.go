// Package store persists promptfan state as a single JSON record: the
// destination list, the query history, and user settings. Reads merge
// defaults over whatever subset is on disk; writes replace the record
// wholesale. Read-then-write is not transactional - concurrent writers can
// race, which is an accepted limitation of the local state file.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"promptfan/internal/logging"
	"promptfan/internal/registry"
)

const stateFileName = "state.json"

// DefaultMaxHistoryItems caps the query history unless settings override it.
const DefaultMaxHistoryItems = 20

// Settings holds user preferences.
type Settings struct {
	MaxHistoryItems       int    `json:"max_history_items"`
	KeyboardShortcutLabel string `json:"keyboard_shortcut_label"`
	DefaultLayout         string `json:"default_layout"`
}

// DefaultSettings returns the settings used when the record has none.
func DefaultSettings() Settings {
	return Settings{
		MaxHistoryItems:       DefaultMaxHistoryItems,
		KeyboardShortcutLabel: "Ctrl+Shift+Space",
		DefaultLayout:         "grid",
	}
}

// State is the persisted record.
type State struct {
	Destinations []registry.Destination `json:"destinations"`
	History      []string               `json:"history"`
	Settings     Settings               `json:"settings"`
}

// Store reads and writes the state file.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New returns a store rooted at the given state directory.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the state file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, stateFileName)
}

// Load reads the full record, filling missing fields from defaults. A
// missing file yields the default record rather than an error.
func (s *Store) Load() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (State, error) {
	var state State

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if !os.IsNotExist(err) {
			return State{}, fmt.Errorf("read state: %w", err)
		}
	} else if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("parse state: %w", err)
	}

	mergeDefaults(&state)
	return state, nil
}

// Save replaces the record on disk.
func (s *Store) Save(state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(state)
}

func (s *Store) saveLocked(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	logging.Store("state saved: %d destinations, %d history entries", len(state.Destinations), len(state.History))
	return nil
}

// Update applies fn to the current record and persists the result.
func (s *Store) Update(fn func(*State)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked()
	if err != nil {
		return State{}, err
	}
	fn(&state)
	mergeDefaults(&state)
	if err := s.saveLocked(state); err != nil {
		return State{}, err
	}
	return state, nil
}

// mergeDefaults fills absent fields so callers never see a partial record.
func mergeDefaults(state *State) {
	if len(state.Destinations) == 0 {
		state.Destinations = registry.Defaults()
	}
	if state.History == nil {
		state.History = []string{}
	}

	def := DefaultSettings()
	if state.Settings.MaxHistoryItems <= 0 {
		state.Settings.MaxHistoryItems = def.MaxHistoryItems
	}
	if state.Settings.KeyboardShortcutLabel == "" {
		state.Settings.KeyboardShortcutLabel = def.KeyboardShortcutLabel
	}
	if state.Settings.DefaultLayout == "" {
		state.Settings.DefaultLayout = def.DefaultLayout
	}
}

// PushHistory prepends a submitted query: whitespace-only queries are a
// no-op, an existing entry moves to the front instead of duplicating, and
// the list is trimmed to the configured cap, oldest first.
func (s *Store) PushHistory(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil
	}

	_, err := s.Update(func(state *State) {
		state.History = pushFront(state.History, trimmed, state.Settings.MaxHistoryItems)
	})
	return err
}

func pushFront(history []string, entry string, max int) []string {
	out := make([]string, 0, len(history)+1)
	out = append(out, entry)
	for _, h := range history {
		if h != entry {
			out = append(out, h)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// ClearHistory removes all history entries.
func (s *Store) ClearHistory() error {
	_, err := s.Update(func(state *State) {
		state.History = []string{}
	})
	return err
}

// SetDestinations validates and replaces the destination list.
func (s *Store) SetDestinations(dests []registry.Destination) error {
	if err := registry.ValidateList(dests); err != nil {
		return err
	}
	_, err := s.Update(func(state *State) {
		state.Destinations = dests
	})
	return err
}

// SetDestinationEnabled toggles one destination's enabled flag.
func (s *Store) SetDestinationEnabled(id string, enabled bool) error {
	var found bool
	_, err := s.Update(func(state *State) {
		found = registry.SetEnabled(state.Destinations, id, enabled)
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("unknown destination: %s", id)
	}
	return nil
}

// ReorderDestinations rearranges the list to match the given id order.
func (s *Store) ReorderDestinations(order []string) error {
	_, err := s.Update(func(state *State) {
		state.Destinations = registry.Reorder(state.Destinations, order)
	})
	return err
}

// MergeSettings applies a partial settings update; zero-valued fields keep
// their current value.
func (s *Store) MergeSettings(partial Settings) (Settings, error) {
	state, err := s.Update(func(state *State) {
		if partial.MaxHistoryItems > 0 {
			state.Settings.MaxHistoryItems = partial.MaxHistoryItems
		}
		if partial.KeyboardShortcutLabel != "" {
			state.Settings.KeyboardShortcutLabel = partial.KeyboardShortcutLabel
		}
		if partial.DefaultLayout != "" {
			state.Settings.DefaultLayout = partial.DefaultLayout
		}
	})
	if err != nil {
		return Settings{}, err
	}
	return state.Settings, nil
}
