package projection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tiliavir/trivial-todo/internal/model"
	"github.com/Tiliavir/trivial-todo/internal/projection"
)

var sample = []model.Task{
	{ID: "1", Description: "Buy Milk", CreatedAt: "27-02-2026 • 09:00:03"},
	{ID: "2", Description: "call mom", CreatedAt: "27-02-2026 • 09:00:02", Completed: true},
	{ID: "3", Description: "Buyback plan", CreatedAt: "27-02-2026 • 09:00:01"},
	{ID: "4", Description: "Read book about buying", CreatedAt: "27-02-2026 • 09:00:00"},
}

func ids(list []model.Task) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterEmptyPrefixIsIdentity(t *testing.T) {
	assert.Equal(t, sample, projection.Filter(sample, ""))
}

func TestFilterCaseInsensitivePrefix(t *testing.T) {
	tests := []struct {
		prefix string
		want   []string
	}{
		{"buy", []string{"1", "3"}},
		{"BUY", []string{"1", "3"}},
		{"Buy ", []string{"1"}},
		{"CALL", []string{"2"}},
		{"milk", []string{}},
		{"about", []string{}},
	}
	for _, tt := range tests {
		got := projection.Filter(sample, tt.prefix)
		assert.Equal(t, tt.want, ids(got), "Filter(%q)", tt.prefix)
	}
}

func TestFilterDoesNotAliasInput(t *testing.T) {
	list := []model.Task{{ID: "1", Description: "a"}}
	got := projection.Filter(list, "")
	got[0].Description = "changed"
	assert.Equal(t, "a", list[0].Description)
}

func TestRows(t *testing.T) {
	rows := projection.Rows(sample[:2])

	assert.Len(t, rows, 3)
	assert.True(t, rows[0].Header)
	assert.Equal(t, "DESCRIPTION\tDATETIME\tCOMPLETED", rows[0].String())
	assert.Equal(t, "Buy Milk\t27-02-2026 • 09:00:03\t❌", rows[1].String())
	assert.Equal(t, "call mom\t27-02-2026 • 09:00:02\t✅", rows[2].String())
	assert.Equal(t, "2", rows[2].ID)
}

func TestRowsEmpty(t *testing.T) {
	rows := projection.Rows(nil)
	assert.Equal(t, []projection.Row{projection.Header}, rows)
}

func TestSelection(t *testing.T) {
	assert.True(t, projection.None().IsNone())
	assert.True(t, projection.Some("").IsNone())

	id, ok := projection.Some("x").ID()
	assert.True(t, ok)
	assert.Equal(t, "x", id)
}

func TestSelectionStateNothingSelected(t *testing.T) {
	want := projection.UIState{EditingEnabled: true, Selected: projection.None()}

	assert.Equal(t, want, projection.SelectionState(projection.None(), sample))
	assert.Equal(t, want, projection.SelectionState(projection.Some("missing"), sample))
	assert.Equal(t, want, projection.SelectionState(projection.Some("1"), nil))
}

func TestSelectionStateTaskSelected(t *testing.T) {
	got := projection.SelectionState(projection.Some("2"), sample)

	assert.Equal(t, projection.UIState{
		EditingEnabled:       false,
		UpdateEnabled:        true,
		DeleteEnabled:        true,
		CompletedEnabled:     true,
		DisplayedDescription: "call mom",
		DisplayedCompleted:   true,
		Selected:             projection.Some("2"),
	}, got)
}
