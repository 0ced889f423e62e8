// Package app implements the single-threaded dispatch loop that applies user
// intents to the task store, flushes them, and pushes fresh projections to
// the UI.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/Tiliavir/trivial-todo/internal/logging"
	"github.com/Tiliavir/trivial-todo/internal/model"
	"github.com/Tiliavir/trivial-todo/internal/projection"
	"github.com/Tiliavir/trivial-todo/internal/storage"
	"github.com/Tiliavir/trivial-todo/internal/tasks"
)

// View is everything the UI needs to draw after an event.
type View struct {
	Rows    []projection.Row
	Visible []model.Task
	State   projection.UIState
	Prefix  string
	// ClearDescription asks the UI to empty its description input.
	ClearDescription bool
	// Notice is a non-fatal message for the user, e.g. a failed save.
	Notice string
}

// Renderer receives every view the loop produces.
type Renderer interface {
	Render(View)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(View)

// Render calls f(v).
func (f RenderFunc) Render(v View) { f(v) }

// Option configures a Loop.
type Option func(*Loop)

// WithRenderer sets the renderer that receives views.
func WithRenderer(r Renderer) Option {
	return func(l *Loop) {
		l.renderer = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// Loop owns the task store and processes one event at a time. Events emitted
// while handling an event are queued and processed, in order, before Dispatch
// returns. A Loop is not safe for concurrent use.
type Loop struct {
	store    *tasks.Store
	renderer Renderer
	logger   *log.Logger

	prefix    string
	selection projection.Selection
	visible   []model.Task
	rows      []projection.Row

	queue            []Event
	clearDescription bool
	notice           string
	last             View
}

// New returns a Loop driving store.
func New(store *tasks.Store, opts ...Option) *Loop {
	l := &Loop{
		store:     store,
		logger:    logging.Discard(),
		selection: projection.None(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open loads the task file and returns a Loop whose store flushes back to it.
// An unreadable file is logged and reported in the first view; the loop then
// starts with an empty list.
func Open(file *storage.File, opts ...Option) *Loop {
	list, err := file.Load()
	l := New(nil, opts...)
	l.store = tasks.NewStore(list, file)
	if err != nil {
		l.logger.Warn("starting with an empty task list", "path", file.Path, "err", err)
		var readErr *storage.ReadError
		if errors.As(err, &readErr) && readErr.BackupPath != "" {
			l.notice = fmt.Sprintf("task file was unreadable and has been moved to %s", readErr.BackupPath)
		} else {
			l.notice = fmt.Sprintf("could not load tasks: %v", err)
		}
	} else {
		l.logger.Debug("loaded tasks", "path", file.Path, "count", len(list))
	}
	return l
}

// Store returns the underlying task store.
func (l *Loop) Store() *tasks.Store { return l.store }

// Selection returns the current selection.
func (l *Loop) Selection() projection.Selection { return l.selection }

// Prefix returns the current filter prefix.
func (l *Loop) Prefix() string { return l.prefix }

// View returns the most recently rendered view.
func (l *Loop) View() View { return l.last }

// Start dispatches the initial Filter so the view is populated before the
// first paint.
func (l *Loop) Start() View {
	return l.Dispatch(Filter{Prefix: l.prefix})
}

// Dispatch processes ev and every event it emits, then returns the last view.
func (l *Loop) Dispatch(ev Event) View {
	l.queue = append(l.queue, ev)
	for len(l.queue) > 0 {
		next := l.queue[0]
		l.queue = l.queue[1:]
		l.handle(next)
	}
	view := l.last
	l.clearDescription = false
	l.notice = ""
	return view
}

// Run dispatches the initial Filter, then processes events until ctx is done
// or events is closed.
func (l *Loop) Run(ctx context.Context, events <-chan Event) error {
	l.Start()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			l.Dispatch(ev)
		}
	}
}

func (l *Loop) emit(ev Event) {
	l.queue = append(l.queue, ev)
}

func (l *Loop) handle(ev Event) {
	switch ev := ev.(type) {
	case Create:
		task, applied, err := l.store.Create(ev.Description)
		if applied {
			l.logger.Debug("created task", "id", task.ID)
		}
		l.report("create", err)
		l.clearDescription = true
		l.emit(Filter{Prefix: l.prefix})

	case Update:
		err := l.store.UpdateCompleted(ev.ID, ev.Completed)
		if err == nil {
			l.logger.Debug("updated task", "id", ev.ID, "completed", ev.Completed)
		}
		l.report("update", err)
		l.emit(Filter{Prefix: l.prefix})

	case Delete:
		err := l.store.Delete(ev.ID)
		if err == nil {
			l.logger.Debug("deleted task", "id", ev.ID)
		}
		l.report("delete", err)
		if id, ok := l.selection.ID(); ok && id == ev.ID {
			l.selection = projection.None()
		}
		l.emit(Filter{Prefix: l.prefix})
		l.emit(Select{Selection: l.selection})

	case Select:
		l.selection = ev.Selection
		l.render()

	case Filter:
		l.prefix = ev.Prefix
		l.visible = projection.Filter(l.store.Tasks(), l.prefix)
		l.rows = projection.Rows(l.visible)
		l.emit(Select{Selection: l.selection})

	default:
		l.logger.Error("unknown event", "type", fmt.Sprintf("%T", ev))
	}
}

// render resolves the selection against the visible list and pushes a view.
// A selection that is no longer visible is dropped.
func (l *Loop) render() {
	state := projection.SelectionState(l.selection, l.visible)
	l.selection = state.Selected

	l.last = View{
		Rows:             l.rows,
		Visible:          l.visible,
		State:            state,
		Prefix:           l.prefix,
		ClearDescription: l.clearDescription,
		Notice:           l.notice,
	}
	if l.renderer != nil {
		l.renderer.Render(l.last)
	}
}

// report logs err and turns it into a user-facing notice. Errors never leave
// the event that caused them.
func (l *Loop) report(op string, err error) {
	if err == nil {
		return
	}
	var miss *tasks.LookupMissError
	if errors.As(err, &miss) {
		l.logger.Warn("task not found", "op", op, "id", miss.ID)
		l.notice = "that task no longer exists"
		return
	}
	l.logger.Error("could not save tasks", "op", op, "err", err)
	l.notice = fmt.Sprintf("could not save tasks: %v", err)
}
