package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gerunddev/nbxref/internal/crossref"
	"gopkg.in/yaml.v3"
)

// Report is the machine-readable summary of one run
type Report struct {
	Notebook     string       `yaml:"notebook"`
	RunID        string       `yaml:"run_id"`
	Written      string       `yaml:"written,omitempty"`
	Skipped      bool         `yaml:"skipped,omitempty"`
	CellsScanned int          `yaml:"cells_scanned"`
	CellsChanged int          `yaml:"cells_changed"`
	Resolved     []Resolved   `yaml:"resolved"`
	Unresolved   []Unresolved `yaml:"unresolved"`
}

// Resolved is one identifier that had a title
type Resolved struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Count int    `yaml:"count"`
}

// Unresolved is one identifier without a title
type Unresolved struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// FromResult builds a report. written is the output path, empty for a dry run.
func FromResult(result *crossref.Result, runID, written string) *Report {
	r := &Report{
		Notebook:     result.Notebook,
		RunID:        runID,
		Written:      written,
		CellsScanned: result.CellsScanned,
		CellsChanged: result.CellsChanged(),
		Resolved:     []Resolved{},
		Unresolved:   []Unresolved{},
	}

	for _, res := range result.Resolved {
		r.Resolved = append(r.Resolved, Resolved{ID: res.ID, Title: res.Title, Count: res.Count})
	}
	for _, u := range result.Unresolved {
		r.Unresolved = append(r.Unresolved, Unresolved{ID: u.ID, Count: u.Count})
	}

	return r
}

// Skip builds the report for a notebook that was not processed
func Skip(notebook, runID string) *Report {
	return &Report{
		Notebook:   notebook,
		RunID:      runID,
		Skipped:    true,
		Resolved:   []Resolved{},
		Unresolved: []Unresolved{},
	}
}

// Save writes the report as YAML
func (r *Report) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
