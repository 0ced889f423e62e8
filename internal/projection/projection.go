// Package projection derives the read-only views the UI renders: the
// prefix-filtered task list, its display rows, and the control state implied
// by the current selection.
package projection

import (
	"strings"

	"github.com/Tiliavir/trivial-todo/internal/model"
)

const (
	// GlyphDone marks a completed task.
	GlyphDone = "✅"
	// GlyphOpen marks a task that is not done yet.
	GlyphOpen = "❌"
)

// Header is the fixed first row of every rendered list.
var Header = Row{Description: "DESCRIPTION", CreatedAt: "DATETIME", Glyph: "COMPLETED", Header: true}

// Row is one displayed line of the task list.
type Row struct {
	ID          string
	Description string
	CreatedAt   string
	Glyph       string
	Header      bool
}

// String joins the row's cells with tabs.
func (r Row) String() string {
	return r.Description + "\t" + r.CreatedAt + "\t" + r.Glyph
}

// Filter returns the tasks whose description starts with prefix, ignoring
// case. Order is preserved and an empty prefix matches everything.
func Filter(list []model.Task, prefix string) []model.Task {
	out := make([]model.Task, 0, len(list))
	if prefix == "" {
		return append(out, list...)
	}
	p := strings.ToLower(prefix)
	for _, t := range list {
		if strings.HasPrefix(strings.ToLower(t.Description), p) {
			out = append(out, t)
		}
	}
	return out
}

// Glyph returns the completion marker for a task.
func Glyph(completed bool) string {
	if completed {
		return GlyphDone
	}
	return GlyphOpen
}

// Rows builds the header row followed by one row per task.
func Rows(list []model.Task) []Row {
	rows := make([]Row, 0, len(list)+1)
	rows = append(rows, Header)
	for _, t := range list {
		rows = append(rows, Row{
			ID:          t.ID,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
			Glyph:       Glyph(t.Completed),
		})
	}
	return rows
}
