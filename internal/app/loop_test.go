package app_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-todo/internal/app"
	"github.com/Tiliavir/trivial-todo/internal/logging"
	"github.com/Tiliavir/trivial-todo/internal/model"
	"github.com/Tiliavir/trivial-todo/internal/projection"
	"github.com/Tiliavir/trivial-todo/internal/storage"
	"github.com/Tiliavir/trivial-todo/internal/tasks"
)

type recorder struct {
	views []app.View
}

func (r *recorder) Render(v app.View) { r.views = append(r.views, v) }

type failingPersister struct{ err error }

func (p failingPersister) Save([]model.Task) error { return p.err }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func clock() func() time.Time {
	return func() time.Time { return time.Date(2026, 2, 27, 9, 30, 0, 0, time.UTC) }
}

func newLoop(t *testing.T, initial []model.Task, p tasks.Persister) (*app.Loop, *recorder) {
	t.Helper()
	store := tasks.NewStore(initial, p, tasks.WithIDGenerator(sequentialIDs()), tasks.WithClock(clock()))
	r := &recorder{}
	return app.New(store, app.WithRenderer(r)), r
}

func rowStrings(v app.View) []string {
	out := make([]string, 0, len(v.Rows))
	for _, row := range v.Rows {
		out = append(out, row.String())
	}
	return out
}

const header = "DESCRIPTION\tDATETIME\tCOMPLETED"

func TestEndToEndScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.msgpack")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	file := storage.NewFile(path)

	list, err := file.Load()
	require.NoError(t, err)
	store := tasks.NewStore(list, file, tasks.WithIDGenerator(sequentialIDs()), tasks.WithClock(clock()))
	loop := app.New(store)

	v := loop.Start()
	assert.Equal(t, []string{header}, rowStrings(v))
	assert.True(t, v.State.EditingEnabled)

	v = loop.Dispatch(app.Create{Description: "Write report"})
	assert.Equal(t, []string{header, "Write report\t27-02-2026 • 09:30:00\t❌"}, rowStrings(v))
	assert.True(t, v.ClearDescription)

	id := v.Rows[1].ID
	v = loop.Dispatch(app.Select{Selection: projection.Some(id)})
	assert.False(t, v.State.EditingEnabled)
	assert.Equal(t, "Write report", v.State.DisplayedDescription)

	v = loop.Dispatch(app.Update{ID: id, Completed: true})
	assert.Equal(t, []string{header, "Write report\t27-02-2026 • 09:30:00\t✅"}, rowStrings(v))
	assert.True(t, v.State.DisplayedCompleted)

	v = loop.Dispatch(app.Delete{ID: id})
	assert.Equal(t, []string{header}, rowStrings(v))
	assert.True(t, v.State.EditingEnabled)

	persisted, err := storage.Load(path)
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestStartRendersHeaderOnly(t *testing.T) {
	loop, r := newLoop(t, nil, nil)

	loop.Start()

	require.Len(t, r.views, 1)
	assert.Equal(t, []string{header}, rowStrings(r.views[0]))
	assert.Equal(t, projection.UIState{EditingEnabled: true, Selected: projection.None()}, r.views[0].State)
}

func TestCreatePrependsAndRefilters(t *testing.T) {
	loop, _ := newLoop(t, nil, nil)
	loop.Start()

	loop.Dispatch(app.Create{Description: "A"})
	v := loop.Dispatch(app.Create{Description: "B"})

	require.Len(t, v.Visible, 2)
	assert.Equal(t, "B", v.Visible[0].Description)
	assert.Equal(t, "A", v.Visible[1].Description)
}

func TestCreateWhitespaceIsSilentNoop(t *testing.T) {
	var saves int
	p := persistFunc(func([]model.Task) error { saves++; return nil })
	loop, _ := newLoop(t, nil, p)
	loop.Start()

	v := loop.Dispatch(app.Create{Description: "   "})

	assert.Empty(t, v.Visible)
	assert.Empty(t, v.Notice)
	assert.True(t, v.ClearDescription)
	assert.Equal(t, 1, saves)
}

func TestClearDescriptionOnlyForCreate(t *testing.T) {
	loop, _ := newLoop(t, nil, nil)
	loop.Start()

	v := loop.Dispatch(app.Create{Description: "A"})
	assert.True(t, v.ClearDescription)

	v = loop.Dispatch(app.Filter{Prefix: "a"})
	assert.False(t, v.ClearDescription)
}

func TestDeleteThenSelectClearsSelection(t *testing.T) {
	loop, r := newLoop(t, []model.Task{
		{ID: "A", Description: "A"},
		{ID: "B", Description: "B"},
	}, nil)
	loop.Start()
	loop.Dispatch(app.Select{Selection: projection.Some("A")})
	r.views = nil

	v := loop.Dispatch(app.Delete{ID: "A"})

	require.Len(t, v.Visible, 1)
	assert.Equal(t, "B", v.Visible[0].ID)
	assert.True(t, v.State.EditingEnabled)
	assert.False(t, v.State.UpdateEnabled)
	assert.False(t, v.State.DeleteEnabled)
	assert.True(t, loop.Selection().IsNone())
	// Filter emits Select, and Delete emits its own Select afterwards.
	assert.Len(t, r.views, 2)
}

func TestDeleteOtherTaskKeepsSelection(t *testing.T) {
	loop, _ := newLoop(t, []model.Task{
		{ID: "A", Description: "A"},
		{ID: "B", Description: "B"},
	}, nil)
	loop.Start()
	loop.Dispatch(app.Select{Selection: projection.Some("A")})

	v := loop.Dispatch(app.Delete{ID: "B"})

	assert.Equal(t, projection.Some("A"), v.State.Selected)
	assert.False(t, v.State.EditingEnabled)
}

func TestUpdateFlipsOnlyTarget(t *testing.T) {
	loop, _ := newLoop(t, []model.Task{
		{ID: "A", Description: "A"},
		{ID: "B", Description: "B"},
	}, nil)
	loop.Start()

	v := loop.Dispatch(app.Update{ID: "B", Completed: true})

	assert.False(t, v.Visible[0].Completed)
	assert.True(t, v.Visible[1].Completed)
	assert.Equal(t, projection.GlyphOpen, v.Rows[1].Glyph)
	assert.Equal(t, projection.GlyphDone, v.Rows[2].Glyph)
}

func TestLookupMissIsReported(t *testing.T) {
	initial := []model.Task{{ID: "A", Description: "A"}}
	loop, _ := newLoop(t, initial, nil)
	loop.Start()

	v := loop.Dispatch(app.Update{ID: "gone", Completed: true})
	assert.Equal(t, "that task no longer exists", v.Notice)
	assert.Equal(t, initial, v.Visible)

	v = loop.Dispatch(app.Delete{ID: "gone"})
	assert.Equal(t, "that task no longer exists", v.Notice)
	assert.Equal(t, initial, loop.Store().Tasks())

	v = loop.Dispatch(app.Filter{Prefix: ""})
	assert.Empty(t, v.Notice, "notices last for a single dispatch")
}

func TestSaveFailureIsNoticeNotFatal(t *testing.T) {
	var logs bytes.Buffer
	store := tasks.NewStore(nil, failingPersister{err: errors.New("disk full")})
	loop := app.New(store, app.WithLogger(logging.NewFromConfig(&logs, "info", "logfmt")))
	loop.Start()

	v := loop.Dispatch(app.Create{Description: "A"})

	assert.Contains(t, v.Notice, "could not save tasks")
	assert.Contains(t, v.Notice, "disk full")
	assert.Len(t, v.Visible, 1, "memory stays authoritative")
	assert.Contains(t, logs.String(), "could not save tasks")
}

func TestFilterSelectionDegradesWhenHidden(t *testing.T) {
	loop, _ := newLoop(t, []model.Task{
		{ID: "A", Description: "Buy Milk"},
		{ID: "B", Description: "Call mom"},
	}, nil)
	loop.Start()
	loop.Dispatch(app.Select{Selection: projection.Some("B")})

	v := loop.Dispatch(app.Filter{Prefix: "buy"})
	assert.Equal(t, "buy", v.Prefix)
	require.Len(t, v.Visible, 1)
	assert.True(t, v.State.EditingEnabled)

	v = loop.Dispatch(app.Filter{Prefix: ""})
	assert.True(t, v.State.Selected.IsNone(), "hidden selection is not restored")
}

func TestFilterKeepsVisibleSelection(t *testing.T) {
	loop, _ := newLoop(t, []model.Task{
		{ID: "A", Description: "Buy Milk"},
		{ID: "B", Description: "Call mom"},
	}, nil)
	loop.Start()
	loop.Dispatch(app.Select{Selection: projection.Some("A")})

	v := loop.Dispatch(app.Filter{Prefix: "BUY"})

	assert.Equal(t, projection.Some("A"), v.State.Selected)
	assert.Equal(t, "Buy Milk", v.State.DisplayedDescription)
}

func TestCreateUsesCurrentPrefix(t *testing.T) {
	loop, _ := newLoop(t, nil, nil)
	loop.Start()
	loop.Dispatch(app.Filter{Prefix: "buy"})

	v := loop.Dispatch(app.Create{Description: "Call mom"})
	assert.Empty(t, v.Visible)
	assert.Equal(t, 1, loop.Store().Len())

	v = loop.Dispatch(app.Create{Description: "Buy bread"})
	assert.Len(t, v.Visible, 1)
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.msgpack")
	require.NoError(t, os.WriteFile(path, []byte("{bad"), 0o600))

	loop := app.Open(storage.NewFile(path))
	v := loop.Start()

	assert.Contains(t, v.Notice, path+".corrupt")
	assert.Empty(t, v.Visible)
	assert.FileExists(t, path+".corrupt")

	v = loop.Dispatch(app.Create{Description: "fresh"})
	assert.Empty(t, v.Notice)
	list, err := storage.Load(path)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "fresh", list[0].Description)
}

func TestOpenUnreadableFileIsNotOverwritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.msgpack")
	require.NoError(t, os.Mkdir(path, 0o700))

	loop := app.Open(storage.NewFile(path))
	v := loop.Start()
	assert.Contains(t, v.Notice, "could not load tasks")

	v = loop.Dispatch(app.Create{Description: "fresh"})
	assert.Contains(t, v.Notice, "could not save tasks")
	assert.Len(t, v.Visible, 1)
	assert.DirExists(t, path)
	assert.NoFileExists(t, path+".tmp")
}

func TestOpenPersistsEveryMutation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.msgpack")
	loop := app.Open(storage.NewFile(path))
	loop.Start()

	loop.Dispatch(app.Create{Description: "one"})
	v := loop.Dispatch(app.Create{Description: "two"})

	list, err := storage.Load(path)
	require.NoError(t, err)
	assert.Equal(t, v.Visible, list)
}

func TestRunProcessesInOrder(t *testing.T) {
	loop, r := newLoop(t, nil, nil)
	events := make(chan app.Event, 3)
	events <- app.Create{Description: "A"}
	events <- app.Create{Description: "B"}
	events <- app.Filter{Prefix: "a"}
	close(events)

	require.NoError(t, loop.Run(context.Background(), events))

	last := r.views[len(r.views)-1]
	require.Len(t, last.Visible, 1)
	assert.Equal(t, "A", last.Visible[0].Description)
	assert.Equal(t, 2, loop.Store().Len())
}

func TestRunStopsOnCancel(t *testing.T) {
	loop, _ := newLoop(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := loop.Run(ctx, make(chan app.Event))
	assert.ErrorIs(t, err, context.Canceled)
}

type persistFunc func([]model.Task) error

func (f persistFunc) Save(list []model.Task) error { return f(list) }
