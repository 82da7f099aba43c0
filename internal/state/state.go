package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Entry records a notebook as it was left by the last write
type Entry struct {
	MTime      int64     `json:"mtime"`
	Hash       string    `json:"hash"`
	ResolvedAt time.Time `json:"resolved_at"`
	RunID      string    `json:"run_id"`
}

// State is the ledger of notebooks nbxref has written, keyed by absolute path
type State struct {
	Notebooks map[string]*Entry `json:"notebooks"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Notebooks: make(map[string]*Entry),
	}
}

// Load reads state from the state file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	if state.Notebooks == nil {
		state.Notebooks = make(map[string]*Entry)
	}

	return &state, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// AlreadyResolved reports whether path still holds exactly what nbxref last
// wrote there. Only the content hash decides; a notebook regenerated within
// the same second keeps its mtime but not its hash.
func (s *State) AlreadyResolved(path string) (bool, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}

	entry, exists := s.Notebooks[key]
	if !exists {
		return false, nil
	}

	hash, err := ComputeHash(key)
	if err != nil {
		return false, err
	}

	return hash == entry.Hash, nil
}

// Record stores the current content of path as written by run runID
func (s *State) Record(path, runID string) error {
	key, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(key)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(key)
	if err != nil {
		return err
	}

	s.Notebooks[key] = &Entry{
		MTime:      info.ModTime().Unix(),
		Hash:       hash,
		ResolvedAt: time.Now().UTC(),
		RunID:      runID,
	}

	return nil
}
