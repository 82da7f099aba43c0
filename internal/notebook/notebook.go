package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Cell types understood by nbxref. Any other value is carried through untouched.
const (
	TypeMarkdown = "markdown"
	TypeCode     = "code"
)

// ErrMalformed is returned when a notebook does not have the expected shape
var ErrMalformed = errors.New("malformed notebook")

// Cell is a single notebook cell. Only Type and the source text are
// interpreted; every other field is preserved as raw JSON.
type Cell struct {
	Type string

	source []string
	fields map[string]json.RawMessage
	dirty  bool
}

// Text returns the cell source as one string, fragments joined in order
func (c *Cell) Text() string {
	return strings.Join(c.source, "")
}

// Fragments returns a copy of the source fragments as stored in the file
func (c *Cell) Fragments() []string {
	out := make([]string, len(c.source))
	copy(out, c.source)
	return out
}

// SetText replaces the cell source with a single fragment
func (c *Cell) SetText(text string) {
	c.source = []string{text}
	c.dirty = true
}

// Document is a parsed notebook. Cells keep their file order.
type Document struct {
	Cells []*Cell

	fields   map[string]json.RawMessage
	hasCells bool
}

// Load reads and parses the notebook at path
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read notebook: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notebook %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes notebook JSON. A missing cells field yields an empty document.
func Parse(data []byte) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformed)
	}

	doc := &Document{fields: top}

	rawCells, ok := top["cells"]
	if !ok {
		return doc, nil
	}
	delete(top, "cells")
	doc.hasCells = true

	var cells []json.RawMessage
	if err := json.Unmarshal(rawCells, &cells); err != nil {
		return nil, fmt.Errorf("%w: cells is not an array", ErrMalformed)
	}

	for i, raw := range cells {
		cell, err := parseCell(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d: %v", ErrMalformed, i, err)
		}
		doc.Cells = append(doc.Cells, cell)
	}

	return doc, nil
}

func parseCell(raw json.RawMessage) (*Cell, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, errors.New("cell is not an object")
	}

	cell := &Cell{fields: fields}

	// A non-string cell_type is just not markdown
	if t, ok := fields["cell_type"]; ok {
		_ = json.Unmarshal(t, &cell.Type)
	}

	src, ok := fields["source"]
	if !ok {
		return cell, nil
	}

	source, err := parseSource(src)
	if err != nil {
		// Only markdown source is rewritten; other cells keep theirs as raw JSON
		if cell.Type == TypeMarkdown {
			return nil, err
		}
		return cell, nil
	}
	cell.source = source

	return cell, nil
}

// parseSource accepts both forms nbformat allows: a string or a list of strings
func parseSource(raw json.RawMessage) ([]string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}, nil
	}

	var parts []string
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, errors.New("source must be a string or a list of strings")
	}
	return parts, nil
}

// Encode serialises the document the way Jupyter does: sorted keys,
// one-space indent, no HTML escaping and a trailing newline.
func Encode(doc *Document) ([]byte, error) {
	top := make(map[string]json.RawMessage, len(doc.fields)+1)
	for k, v := range doc.fields {
		top[k] = v
	}

	if doc.hasCells || len(doc.Cells) > 0 {
		cells := make([]map[string]json.RawMessage, 0, len(doc.Cells))
		for i, cell := range doc.Cells {
			fields, err := cell.encodeFields()
			if err != nil {
				return nil, fmt.Errorf("failed to encode cell %d: %w", i, err)
			}
			cells = append(cells, fields)
		}

		raw, err := marshal(cells)
		if err != nil {
			return nil, fmt.Errorf("failed to encode cells: %w", err)
		}
		top["cells"] = raw
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	if err := enc.Encode(top); err != nil {
		return nil, fmt.Errorf("failed to marshal notebook: %w", err)
	}

	return buf.Bytes(), nil
}

func (c *Cell) encodeFields() (map[string]json.RawMessage, error) {
	fields := make(map[string]json.RawMessage, len(c.fields))
	for k, v := range c.fields {
		fields[k] = v
	}

	if c.dirty {
		raw, err := marshal(c.source)
		if err != nil {
			return nil, err
		}
		fields["source"] = raw
	}

	return fields, nil
}

func marshal(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Write persists the document to path. The file is replaced atomically and
// keeps its permissions when it already exists.
func Write(doc *Document, path string) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".nbxref-*.ipynb")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write notebook: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set notebook permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write notebook: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace notebook: %w", err)
	}

	return nil
}
