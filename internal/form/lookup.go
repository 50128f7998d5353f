package form

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"time"

	"github.com/noah-isme/guardforce-admin/internal/models"
	"github.com/noah-isme/guardforce-admin/internal/store"
	"github.com/noah-isme/guardforce-admin/pkg/debounce"
)

// ErrSearchCancelled is delivered to pending searches dropped by Reset or SearchNow.
var ErrSearchCancelled = errors.New("search cancelled")

// Lister is the related container a lookup reads from. Search must not
// change what the container refreshes.
type Lister[E models.Identifiable] interface {
	Search(ctx context.Context, params models.ListParams) ([]E, models.Pagination, error)
}

// LookupOptions tunes a lookup.
type LookupOptions struct {
	Debounce     time.Duration
	PageSize     int
	OpenPageSize int
	// Context bounds debounced searches. Defaults to context.Background.
	Context context.Context
}

// Result is the outcome of one debounced search.
type Result[E models.Identifiable] struct {
	Text  string
	Items []E
	Err   error
}

// Lookup is a typeahead over a related entity's container.
type Lookup[E models.Identifiable] struct {
	source   Lister[E]
	debounce *debounce.Debouncer
	pageSize int
	openSize int
	base     context.Context

	mu      sync.Mutex
	text    string
	scope   map[string]string
	options []E
	waiters []chan Result[E]
}

// NewLookup returns a lookup over source.
func NewLookup[E models.Identifiable](source Lister[E], opts LookupOptions) *Lookup[E] {
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.OpenPageSize <= 0 {
		opts.OpenPageSize = 100
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	return &Lookup[E]{
		source:   source,
		debounce: debounce.New(opts.Debounce),
		pageSize: opts.PageSize,
		openSize: opts.OpenPageSize,
		base:     opts.Context,
		scope:    map[string]string{},
	}
}

// Open loads the first page shown when the dialog opens: open page size, no search text.
func (l *Lookup[E]) Open(ctx context.Context) ([]E, error) {
	l.mu.Lock()
	l.text = ""
	scope := copyMap(l.scope)
	l.mu.Unlock()
	return l.fetch(ctx, "", scope, l.openSize)
}

// Search records text and schedules a single fetch once typing pauses for the
// debounce window. Every caller in the window receives that fetch's result.
func (l *Lookup[E]) Search(text string) <-chan Result[E] {
	ch := make(chan Result[E], 1)
	l.mu.Lock()
	l.text = text
	l.waiters = append(l.waiters, ch)
	l.mu.Unlock()

	l.debounce.Trigger(l.fire)
	return ch
}

// SearchNow drops any pending search and fetches text immediately.
func (l *Lookup[E]) SearchNow(ctx context.Context, text string) ([]E, error) {
	l.debounce.Cancel()
	l.mu.Lock()
	l.text = text
	scope := copyMap(l.scope)
	waiters := l.takeWaitersLocked()
	l.mu.Unlock()

	items, err := l.fetch(ctx, text, scope, l.pageSize)
	deliver(waiters, Result[E]{Text: text, Items: items, Err: err})
	return items, err
}

// Scope filters the lookup by key=value (an empty value removes the filter),
// clears the search text and re-fetches the open page.
func (l *Lookup[E]) Scope(ctx context.Context, key, value string) ([]E, error) {
	l.debounce.Cancel()
	l.mu.Lock()
	if value == "" {
		delete(l.scope, key)
	} else {
		l.scope[key] = value
	}
	l.text = ""
	l.options = nil
	scope := copyMap(l.scope)
	waiters := l.takeWaitersLocked()
	l.mu.Unlock()

	deliver(waiters, Result[E]{Err: ErrSearchCancelled})
	return l.fetch(ctx, "", scope, l.openSize)
}

// Rescope replaces every scope filter without fetching. It reports whether the scope changed.
func (l *Lookup[E]) Rescope(scope map[string]string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := map[string]string{}
	for k, v := range scope {
		if v != "" {
			next[k] = v
		}
	}
	if reflect.DeepEqual(next, l.scope) {
		return false
	}
	l.scope = next
	l.options = nil
	return true
}

// Reset drops pending searches, search text, scope and options.
func (l *Lookup[E]) Reset() {
	l.debounce.Cancel()
	l.mu.Lock()
	l.text = ""
	l.scope = map[string]string{}
	l.options = nil
	waiters := l.takeWaitersLocked()
	l.mu.Unlock()

	deliver(waiters, Result[E]{Err: ErrSearchCancelled})
}

// Text returns the current search text.
func (l *Lookup[E]) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

// Scoped returns the active scope filters.
func (l *Lookup[E]) Scoped() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return copyMap(l.scope)
}

// Options returns the last fetched options.
func (l *Lookup[E]) Options() []E {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]E(nil), l.options...)
}

func (l *Lookup[E]) fire() {
	l.mu.Lock()
	text := l.text
	scope := copyMap(l.scope)
	waiters := l.takeWaitersLocked()
	l.mu.Unlock()

	items, err := l.fetch(l.base, text, scope, l.pageSize)
	deliver(waiters, Result[E]{Text: text, Items: items, Err: err})
}

func (l *Lookup[E]) fetch(ctx context.Context, text string, scope map[string]string, size int) ([]E, error) {
	params := models.ListParams{Page: 1, PerPage: size, Search: text}
	if len(scope) > 0 {
		params.Filters = scope
	}
	items, _, err := l.source.Search(ctx, params)
	if err != nil {
		if errors.Is(err, store.ErrStale) {
			return l.Options(), nil
		}
		return nil, err
	}
	l.mu.Lock()
	l.options = items
	l.mu.Unlock()
	return items, nil
}

func (l *Lookup[E]) takeWaitersLocked() []chan Result[E] {
	w := l.waiters
	l.waiters = nil
	return w
}

func deliver[E models.Identifiable](waiters []chan Result[E], r Result[E]) {
	for _, ch := range waiters {
		ch <- r
	}
}
