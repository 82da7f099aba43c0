package crossref

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/gerunddev/nbxref/internal/logger"
	"github.com/gerunddev/nbxref/internal/notebook"
)

// markerPattern matches ?@sec-<identifier>; group 1 is the identifier
var markerPattern = regexp.MustCompile(`\?@sec-([a-zA-Z0-9_-]+)`)

// Token is one marker found in a cell, in discovery order
type Token struct {
	ID       string
	Title    string
	Resolved bool
}

// ResolveText rewrites every marker identifier in text that has a title in m.
// Each resolved identifier is replaced everywhere it occurs in the text, not
// only inside the marker, and the ?@sec- prefix is left in place.
func ResolveText(text string, m Mapping) (string, []Token) {
	matches := markerPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	tokens := make([]Token, 0, len(matches))
	for _, match := range matches {
		id := match[1]
		title, ok := m.Lookup(id)
		if ok {
			text = strings.ReplaceAll(text, id, title)
		}
		tokens = append(tokens, Token{ID: id, Title: title, Resolved: ok})
	}

	return text, tokens
}

// Resolver rewrites cross-reference markers in notebook markdown cells
type Resolver struct {
	mapping  Mapping
	warnings io.Writer
	log      *logger.Logger
}

// NewResolver creates a resolver using mapping. Unresolved identifiers are
// reported on warnings.
func NewResolver(mapping Mapping, warnings io.Writer) *Resolver {
	if warnings == nil {
		warnings = io.Discard
	}
	return &Resolver{
		mapping:  mapping,
		warnings: warnings,
		log:      logger.Discard(),
	}
}

// SetLogger sets the structured logger
func (r *Resolver) SetLogger(l *logger.Logger) {
	r.log = l
}

// Resolve rewrites the markdown cells of doc in place. path is only used in
// diagnostics. Code and other cells are never touched.
func (r *Resolver) Resolve(doc *notebook.Document, path string) *Result {
	result := newResult(path)

	for i, cell := range doc.Cells {
		if cell.Type != notebook.TypeMarkdown {
			continue
		}
		result.CellsScanned++

		before := cell.Text()
		after, tokens := ResolveText(before, r.mapping)

		for _, tok := range tokens {
			if tok.Resolved {
				result.addResolved(tok.ID, tok.Title)
				r.log.ReferenceResolved(path, i, tok.ID, tok.Title)
				continue
			}
			result.addUnresolved(tok.ID)
			fmt.Fprintf(r.warnings, "Warning: No mapping found for %s in %s\n", tok.ID, path)
			r.log.ReferenceUnresolved(path, i, tok.ID)
		}

		cell.SetText(after)

		if after != before {
			result.Changes = append(result.Changes, CellChange{
				Index:  i,
				Before: before,
				After:  after,
			})
		}
	}

	return result
}
