package projection

import "github.com/Tiliavir/trivial-todo/internal/model"

// Selection is an optional task ID.
type Selection struct {
	id string
	ok bool
}

// None is the empty selection.
func None() Selection { return Selection{} }

// Some selects the task with the given ID. An empty ID yields None.
func Some(id string) Selection {
	if id == "" {
		return None()
	}
	return Selection{id: id, ok: true}
}

// ID returns the selected task ID and whether a task is selected.
func (s Selection) ID() (string, bool) { return s.id, s.ok }

// IsNone reports whether nothing is selected.
func (s Selection) IsNone() bool { return !s.ok }

// UIState is the enable/disable and display state of the editing controls.
type UIState struct {
	EditingEnabled       bool
	UpdateEnabled        bool
	DeleteEnabled        bool
	CompletedEnabled     bool
	DisplayedDescription string
	DisplayedCompleted   bool
	// Selected is the selection that was actually resolved against the
	// visible list; it is None when the requested task is not visible.
	Selected Selection
}

// SelectionState computes the UI state for sel against the visible tasks.
// A selection that does not resolve to a visible task is treated as none.
func SelectionState(sel Selection, visible []model.Task) UIState {
	id, ok := sel.ID()
	if ok {
		for _, t := range visible {
			if t.ID != id {
				continue
			}
			return UIState{
				EditingEnabled:       false,
				UpdateEnabled:        true,
				DeleteEnabled:        true,
				CompletedEnabled:     true,
				DisplayedDescription: t.Description,
				DisplayedCompleted:   t.Completed,
				Selected:             sel,
			}
		}
	}
	return UIState{
		EditingEnabled: true,
		Selected:       None(),
	}
}
