package tasks

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no task ID matches a prefix.
	ErrNotFound = errors.New("no matching task")
	// ErrAmbiguous is returned when more than one task ID matches a prefix.
	ErrAmbiguous = errors.New("ambiguous task id")
)

// Resolve expands an abbreviated task ID to the full ID of the single task
// whose ID starts with prefix. An exact match always wins.
func (s *Store) Resolve(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("empty id: %w", ErrNotFound)
	}
	if s.index(prefix) >= 0 {
		return prefix, nil
	}

	var match string
	for _, t := range s.list {
		if !strings.HasPrefix(t.ID, prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%q: %w", prefix, ErrAmbiguous)
		}
		match = t.ID
	}
	if match == "" {
		return "", fmt.Errorf("%q: %w", prefix, ErrNotFound)
	}
	return match, nil
}
