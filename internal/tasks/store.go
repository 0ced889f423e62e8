// Package tasks holds the in-memory task list and the mutations applied to it.
package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-todo/internal/model"
	"github.com/Tiliavir/trivial-todo/internal/timecalc"
)

// Persister flushes the full task list.
type Persister interface {
	Save(list []model.Task) error
}

// LookupMissError reports an operation that targeted an ID not in the list.
type LookupMissError struct {
	Op string
	ID string
}

func (e *LookupMissError) Error() string {
	return fmt.Sprintf("%s: no task with id %q", e.Op, e.ID)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides the ID generator used by Create.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// Store is the ordered, in-memory task list. Every mutation is followed by a
// synchronous flush through the Persister. A Store is not safe for concurrent
// use; it is owned by a single dispatch loop.
type Store struct {
	list  []model.Task
	p     Persister
	now   func() time.Time
	newID func() string
}

// NewStore returns a Store seeded with initial, flushing through p.
func NewStore(initial []model.Task, p Persister, opts ...Option) *Store {
	s := &Store{
		list:  append([]model.Task(nil), initial...),
		p:     p,
		now:   time.Now,
		newID: timecalc.GenerateID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tasks returns a copy of the current list.
func (s *Store) Tasks() []model.Task {
	return append([]model.Task(nil), s.list...)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.list)
}

// Find returns the task with the given ID.
func (s *Store) Find(id string) (model.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.list[i], true
}

// Create prepends a new task. A description that is empty after trimming is
// rejected: nothing is inserted and applied is false, but the list is still
// flushed. The returned error is only ever a flush failure.
func (s *Store) Create(description string) (model.Task, bool, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return model.Task{}, false, s.flush()
	}

	task := model.Task{
		ID:          s.newID(),
		Completed:   false,
		Description: description,
		CreatedAt:   timecalc.FormatCreatedAt(s.now()),
	}
	s.list = append([]model.Task{task}, s.list...)
	return task, true, s.flush()
}

// Insert appends an existing task unless its ID is already present. A task
// without an ID gets a fresh one, and one without a datetime is stamped now.
func (s *Store) Insert(task model.Task) (bool, error) {
	if task.ID == "" {
		task.ID = s.newID()
	}
	if task.CreatedAt == "" {
		task.CreatedAt = timecalc.FormatCreatedAt(s.now())
	}
	if s.index(task.ID) >= 0 {
		return false, nil
	}
	s.list = append(s.list, task)
	return true, s.flush()
}

// UpdateCompleted sets the completed flag of the task with the given ID.
func (s *Store) UpdateCompleted(id string, completed bool) error {
	i := s.index(id)
	if i < 0 {
		return &LookupMissError{Op: "update", ID: id}
	}
	s.list[i].Completed = completed
	return s.flush()
}

// Delete removes the task with the given ID.
func (s *Store) Delete(id string) error {
	i := s.index(id)
	if i < 0 {
		return &LookupMissError{Op: "delete", ID: id}
	}
	s.list = append(s.list[:i], s.list[i+1:]...)
	return s.flush()
}

func (s *Store) index(id string) int {
	for i, t := range s.list {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) flush() error {
	if s.p == nil {
		return nil
	}
	return s.p.Save(s.Tasks())
}
