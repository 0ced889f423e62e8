package app

import "github.com/Tiliavir/trivial-todo/internal/projection"

// Event is a user intent delivered to the Loop. The set is closed: Create,
// Update, Delete, Select and Filter.
type Event interface {
	event()
}

// Create adds a task with the given description.
type Create struct {
	Description string
}

// Update sets the completed flag of the task with ID.
type Update struct {
	ID        string
	Completed bool
}

// Delete removes the task with ID.
type Delete struct {
	ID string
}

// Select changes the current selection.
type Select struct {
	Selection projection.Selection
}

// Filter changes the filter prefix.
type Filter struct {
	Prefix string
}

func (Create) event() {}
func (Update) event() {}
func (Delete) event() {}
func (Select) event() {}
func (Filter) event() {}
