package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewState(t *testing.T) {
	s := NewState()

	if s.Notebooks == nil {
		t.Error("Notebooks map should be initialized")
	}
	if len(s.Notebooks) != 0 {
		t.Error("Notebooks map should be empty")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	statePath := filepath.Join(tmpDir, "nested", "state.json")

	resolvedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	state := NewState()
	state.Notebooks["/books/ch1.ipynb"] = &Entry{
		MTime:      123456789,
		Hash:       "sha256:abc123",
		ResolvedAt: resolvedAt,
		RunID:      "run-1",
	}

	if err := state.Save(statePath); err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	loaded, err := Load(statePath)
	if err != nil {
		t.Fatalf("Failed to load state: %v", err)
	}

	entry := loaded.Notebooks["/books/ch1.ipynb"]
	if entry == nil {
		t.Fatal("Notebook entry not found")
	}
	if entry.MTime != 123456789 {
		t.Errorf("MTime mismatch: got %d, want 123456789", entry.MTime)
	}
	if entry.Hash != "sha256:abc123" {
		t.Errorf("Hash mismatch: got %s, want sha256:abc123", entry.Hash)
	}
	if !entry.ResolvedAt.Equal(resolvedAt) {
		t.Errorf("ResolvedAt mismatch: got %v, want %v", entry.ResolvedAt, resolvedAt)
	}
	if entry.RunID != "run-1" {
		t.Errorf("RunID mismatch: got %s, want run-1", entry.RunID)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tmpDir := t.TempDir()
	statePath := filepath.Join(tmpDir, "nonexistent.json")

	// Should return empty state, not error
	state, err := Load(statePath)
	if err != nil {
		t.Fatalf("Load should not error on missing file: %v", err)
	}

	if state == nil {
		t.Fatal("State should not be nil")
	}
	if len(state.Notebooks) != 0 {
		t.Error("State should be empty")
	}
}

func TestLoadCorrupt(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(statePath, []byte("{"), 0644); err != nil {
		t.Fatalf("Failed to write state: %v", err)
	}

	if _, err := Load(statePath); err == nil {
		t.Error("expected error for corrupt state file")
	}
}

func TestComputeHash(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")

	if err := os.WriteFile(testFile, []byte("Hello, World!"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	hash, err := ComputeHash(testFile)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}

	want := "sha256:dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f"
	if hash != want {
		t.Errorf("Hash mismatch: got %s, want %s", hash, want)
	}

	if _, err := ComputeHash(filepath.Join(tmpDir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRecordAndAlreadyResolved(t *testing.T) {
	tmpDir := t.TempDir()
	nb := filepath.Join(tmpDir, "book.ipynb")
	if err := os.WriteFile(nb, []byte(`{"cells": []}`), 0644); err != nil {
		t.Fatalf("Failed to create notebook: %v", err)
	}

	s := NewState()

	resolved, err := s.AlreadyResolved(nb)
	if err != nil {
		t.Fatalf("AlreadyResolved failed: %v", err)
	}
	if resolved {
		t.Error("unknown notebook should not count as resolved")
	}

	if err := s.Record(nb, "run-42"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	resolved, err = s.AlreadyResolved(nb)
	if err != nil {
		t.Fatalf("AlreadyResolved failed: %v", err)
	}
	if !resolved {
		t.Error("recorded notebook should count as resolved")
	}

	abs, _ := filepath.Abs(nb)
	if s.Notebooks[abs].RunID != "run-42" {
		t.Errorf("RunID mismatch: got %s", s.Notebooks[abs].RunID)
	}
}

func TestAlreadyResolvedDetectsEdits(t *testing.T) {
	tmpDir := t.TempDir()
	nb := filepath.Join(tmpDir, "book.ipynb")
	if err := os.WriteFile(nb, []byte(`{"cells": []}`), 0644); err != nil {
		t.Fatalf("Failed to create notebook: %v", err)
	}

	s := NewState()
	if err := s.Record(nb, "run-1"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// Edit content and move mtime
	if err := os.WriteFile(nb, []byte(`{"cells": [], "nbformat": 4}`), 0644); err != nil {
		t.Fatalf("Failed to edit notebook: %v", err)
	}
	later := time.Now().Add(2 * time.Hour)
	if err := os.Chtimes(nb, later, later); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}

	resolved, err := s.AlreadyResolved(nb)
	if err != nil {
		t.Fatalf("AlreadyResolved failed: %v", err)
	}
	if resolved {
		t.Error("edited notebook should not count as resolved")
	}
}

func TestAlreadyResolvedTouchedButUnchanged(t *testing.T) {
	tmpDir := t.TempDir()
	nb := filepath.Join(tmpDir, "book.ipynb")
	if err := os.WriteFile(nb, []byte(`{"cells": []}`), 0644); err != nil {
		t.Fatalf("Failed to create notebook: %v", err)
	}

	s := NewState()
	if err := s.Record(nb, "run-1"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	later := time.Now().Add(2 * time.Hour)
	if err := os.Chtimes(nb, later, later); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}

	resolved, err := s.AlreadyResolved(nb)
	if err != nil {
		t.Fatalf("AlreadyResolved failed: %v", err)
	}
	if !resolved {
		t.Error("same content with a new mtime should still count as resolved")
	}
}

func TestAlreadyResolvedIgnoresMatchingMTime(t *testing.T) {
	tmpDir := t.TempDir()
	nb := filepath.Join(tmpDir, "book.ipynb")
	if err := os.WriteFile(nb, []byte(`{"cells": []}`), 0644); err != nil {
		t.Fatalf("Failed to create notebook: %v", err)
	}

	s := NewState()
	if err := s.Record(nb, "run-1"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	abs, _ := filepath.Abs(nb)
	recorded := time.Unix(s.Notebooks[abs].MTime, 0)

	// Regenerated within the same second: new content, old mtime
	if err := os.WriteFile(nb, []byte(`{"cells": [{"cell_type": "markdown", "source": "?@sec-quarto"}]}`), 0644); err != nil {
		t.Fatalf("Failed to edit notebook: %v", err)
	}
	if err := os.Chtimes(nb, recorded, recorded); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}

	resolved, err := s.AlreadyResolved(nb)
	if err != nil {
		t.Fatalf("AlreadyResolved failed: %v", err)
	}
	if resolved {
		t.Error("new content with the recorded mtime should not count as resolved")
	}
}
