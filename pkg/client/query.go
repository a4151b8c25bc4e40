package client

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/catalog/pkg/apierror"
)

// State is what a view should render for a query.
type State int

const (
	StateLoading State = iota
	StateError
	StateSuccess
	// StateEmpty is a successful fetch with nothing to show.
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateError:
		return "error"
	case StateSuccess:
		return "success"
	case StateEmpty:
		return "empty"
	default:
		return "loading"
	}
}

// Query tracks one fetch and its outcome. It starts out Loading.
type Query[T any] struct {
	fetch   func(ctx context.Context) (T, error)
	isEmpty func(T) bool

	mu    sync.RWMutex
	state State
	data  T
	err   *apierror.Error
}

// NewQuery wraps fetch. isEmpty may be nil when a result is never empty.
func NewQuery[T any](fetch func(ctx context.Context) (T, error), isEmpty func(T) bool) *Query[T] {
	return &Query[T]{fetch: fetch, isEmpty: isEmpty}
}

// Run fetches and records the outcome. Data from an earlier success is kept
// while loading and after an error.
func (q *Query[T]) Run(ctx context.Context) State {
	q.mu.Lock()
	q.state = StateLoading
	q.err = nil
	q.mu.Unlock()

	data, err := q.fetch(ctx)

	q.mu.Lock()
	defer q.mu.Unlock()
	switch {
	case err != nil:
		q.state = StateError
		q.err = apierror.From(err)
	case q.isEmpty != nil && q.isEmpty(data):
		q.state, q.data = StateEmpty, data
	default:
		q.state, q.data = StateSuccess, data
	}
	return q.state
}

// Retry runs the query again after an error.
func (q *Query[T]) Retry(ctx context.Context) State { return q.Run(ctx) }

func (q *Query[T]) State() State {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.state
}

func (q *Query[T]) Data() T {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.data
}

// Err is set only in StateError.
func (q *Query[T]) Err() *apierror.Error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.err
}

// ListQuery is the query behind the product table.
func (c *Client) ListQuery(p ListParams) *Query[ProductPage] {
	return NewQuery(func(ctx context.Context) (ProductPage, error) {
		return c.List(ctx, p)
	}, ProductPage.Empty)
}

// AuditsQuery is the query behind the history dialog.
func (c *Client) AuditsQuery(id uint) *Query[[]Audit] {
	return NewQuery(func(ctx context.Context) ([]Audit, error) {
		return c.Audits(ctx, id)
	}, func(a []Audit) bool { return len(a) == 0 })
}
