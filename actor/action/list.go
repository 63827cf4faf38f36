package action

import (
	"context"
	"sync"

	"github.com/phuhao00/odin/actor"
)

// Policy governs how a List handles a member failing mid-run.
type Policy int

const (
	// FailFast stops at the first failing action and returns immediately.
	FailFast Policy = iota
	// ContinueOnError runs every action regardless of earlier failures and
	// summarizes at the end.
	ContinueOnError
)

// List is an ordered collection of dynamic actions sharing payload type
// T — spec.md's "heterogeneous action list", e.g. every subscriber to an
// event regardless of what context each one closed over at subscribe
// time.
type List[T any] struct {
	mu      sync.Mutex
	actions []DynDataAction[T]
}

// NewList returns an empty action list.
func NewList[T any]() *List[T] {
	return &List[T]{}
}

// Append adds a to the end of the list (push order is execution order).
func (l *List[T]) Append(a DynDataAction[T]) {
	l.mu.Lock()
	l.actions = append(l.actions, a)
	l.mu.Unlock()
}

// Len reports the number of registered actions.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.actions)
}

// Execute runs every action against payload in push order. Under
// FailFast it returns an IterOpFailed (one failure out of the list's
// total) as soon as one action fails; under ContinueOnError it always
// runs the full list and returns an IterOpFailed summary if any failed.
func (l *List[T]) Execute(ctx context.Context, payload T, policy Policy) error {
	l.mu.Lock()
	snapshot := append([]DynDataAction[T](nil), l.actions...)
	l.mu.Unlock()

	all := len(snapshot)
	failed := 0
	for _, a := range snapshot {
		if err := a.Execute(ctx, payload); err != nil {
			failed++
			if policy == FailFast {
				return actor.ErrIterOpFailed("action_list", all, failed)
			}
		}
	}
	if failed > 0 {
		return actor.ErrIterOpFailed("action_list", all, failed)
	}
	return nil
}
