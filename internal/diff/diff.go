package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/gerunddev/nbxref/internal/crossref"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Unified returns a unified diff of every changed cell, labelled cell[N]
func Unified(changes []crossref.CellChange) string {
	var b strings.Builder

	for _, change := range changes {
		label := fmt.Sprintf("cell[%d]", change.Index)
		before := withTrailingNewline(change.Before)
		after := withTrailingNewline(change.After)

		edits := myers.ComputeEdits(span.URIFromPath(label), before, after)
		b.WriteString(fmt.Sprint(gotextdiff.ToUnified("a/"+label, "b/"+label, before, edits)))
	}

	return b.String()
}

// Render wraps the unified diff in a diff code fence and renders it with
// Glamour. The plain fence is returned if rendering fails.
func Render(changes []crossref.CellChange, width int) string {
	if len(changes) == 0 {
		return ""
	}

	fenced := fmt.Sprintf("```diff\n%s```\n", Unified(changes))

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fenced
	}

	rendered, err := renderer.Render(fenced)
	if err != nil {
		return fenced
	}

	return rendered
}

func withTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
