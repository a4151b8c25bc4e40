package client

import (
	"strings"
	"sync"
	"time"
)

// Table holds the state of a product table: the page being shown and the
// filters applied. Any filter change sends the table back to page 1.
// Typed search text reaches the query only after the debounce delay.
type Table struct {
	debounce *Debouncer

	mu       sync.Mutex
	params   ListParams
	search   string
	onChange func(ListParams)
}

// NewTable starts at page 1 with the default page size. A zero debounce
// uses SearchDebounce.
func NewTable(perPage int, debounce time.Duration) *Table {
	if debounce <= 0 {
		debounce = SearchDebounce
	}
	if perPage <= 0 {
		perPage = 10
	}
	return &Table{
		debounce: NewDebouncer(debounce),
		params:   ListParams{Page: 1, PerPage: perPage},
	}
}

// OnChange registers fn to be called with the new params after every
// effective change.
func (t *Table) OnChange(fn func(ListParams)) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// Params is what the table should currently query.
func (t *Table) Params() ListParams {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.params
}

// Search is the text as typed, which may be ahead of Params().Q.
func (t *Table) Search() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.search
}

// SetSearch records typed text and commits it after the debounce delay.
func (t *Table) SetSearch(text string) {
	t.mu.Lock()
	t.search = text
	t.mu.Unlock()

	t.debounce.Trigger(func() {
		t.update(func(p *ListParams) bool {
			q := strings.TrimSpace(text)
			if q == p.Q {
				return false
			}
			p.Q = q
			return true
		})
	})
}

// SetActive switches between all (nil), active and inactive products.
func (t *Table) SetActive(active *bool) {
	t.update(func(p *ListParams) bool {
		if equalBool(p.Active, active) {
			return false
		}
		if active != nil {
			v := *active
			active = &v
		}
		p.Active = active
		return true
	})
}

func (t *Table) SetPerPage(n int) {
	t.update(func(p *ListParams) bool {
		if n <= 0 || n == p.PerPage {
			return false
		}
		p.PerPage = n
		return true
	})
}

// SetPage moves to page n without touching the filters.
func (t *Table) SetPage(n int) {
	t.mu.Lock()
	if n < 1 || n == t.params.Page {
		t.mu.Unlock()
		return
	}
	t.params.Page = n
	params, fn := t.params, t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(params)
	}
}

// Close cancels a pending search commit.
func (t *Table) Close() { t.debounce.Stop() }

// update applies a filter change and resets the page.
func (t *Table) update(change func(p *ListParams) bool) {
	t.mu.Lock()
	if !change(&t.params) {
		t.mu.Unlock()
		return
	}
	t.params.Page = 1
	params, fn := t.params, t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(params)
	}
}

func equalBool(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
