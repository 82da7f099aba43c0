package crossref

import "fmt"

// CellChange records the text of a markdown cell before and after resolution
type CellChange struct {
	Index  int
	Before string
	After  string
}

// Resolution counts how often an identifier was resolved
type Resolution struct {
	ID    string
	Title string
	Count int
}

// Unresolved counts how often an identifier had no mapping
type Unresolved struct {
	ID    string
	Count int
}

// Result summarises one resolution pass over a notebook.
// Resolved and Unresolved keep first-discovery order.
type Result struct {
	Notebook     string
	CellsScanned int
	Changes      []CellChange
	Resolved     []Resolution
	Unresolved   []Unresolved

	resolvedIdx   map[string]int
	unresolvedIdx map[string]int
}

func newResult(path string) *Result {
	return &Result{
		Notebook:      path,
		resolvedIdx:   make(map[string]int),
		unresolvedIdx: make(map[string]int),
	}
}

func (r *Result) addResolved(id, title string) {
	if i, ok := r.resolvedIdx[id]; ok {
		r.Resolved[i].Count++
		return
	}
	r.resolvedIdx[id] = len(r.Resolved)
	r.Resolved = append(r.Resolved, Resolution{ID: id, Title: title, Count: 1})
}

func (r *Result) addUnresolved(id string) {
	if i, ok := r.unresolvedIdx[id]; ok {
		r.Unresolved[i].Count++
		return
	}
	r.unresolvedIdx[id] = len(r.Unresolved)
	r.Unresolved = append(r.Unresolved, Unresolved{ID: id, Count: 1})
}

// CellsChanged returns the number of markdown cells whose text changed
func (r *Result) CellsChanged() int {
	return len(r.Changes)
}

// ResolvedCount returns the total number of resolved markers
func (r *Result) ResolvedCount() int {
	n := 0
	for _, res := range r.Resolved {
		n += res.Count
	}
	return n
}

// UnresolvedCount returns the total number of unresolved markers
func (r *Result) UnresolvedCount() int {
	n := 0
	for _, u := range r.Unresolved {
		n += u.Count
	}
	return n
}

// String returns a human-readable summary of the result
func (r *Result) String() string {
	return fmt.Sprintf(
		"Resolved %d references in %d of %d markdown cells, %d unresolved",
		r.ResolvedCount(),
		r.CellsChanged(),
		r.CellsScanned,
		r.UnresolvedCount(),
	)
}
