// Package store holds the generic entity state container: one in-memory list,
// a focused record, pagination and loading/error flags per entity type.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/guardforce-admin/internal/models"
	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
)

// ErrStale is returned to the caller of a list or get whose response settled
// after a newer request of the same kind had already been applied.
var ErrStale = errors.New("stale response discarded")

// Gateway is the data-access surface a container drives. Implementations return
// *errors.Error values for every failure.
type Gateway[E models.Identifiable, C any, U any] interface {
	List(ctx context.Context, params models.ListParams) ([]E, models.Pagination, error)
	Get(ctx context.Context, id int64, include []string) (E, error)
	Create(ctx context.Context, payload C) (E, error)
	Update(ctx context.Context, id int64, payload U) (E, error)
	Delete(ctx context.Context, id int64) error
	Transition(ctx context.Context, id int64, action string, payload map[string]interface{}) (E, error)
}

// Operation names a container operation kind.
type Operation string

const (
	OpList       Operation = "list"
	OpGet        Operation = "get"
	OpCreate     Operation = "create"
	OpUpdate     Operation = "update"
	OpDelete     Operation = "delete"
	OpTransition Operation = "transition"
)

// Outcome is how an operation settled.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailure   Outcome = "failure"
	OutcomeStale     Outcome = "stale"
	OutcomeCancelled Outcome = "cancelled"
)

// Observer receives one call per settled operation.
type Observer interface {
	ObserveOperation(entity string, op Operation, outcome Outcome, elapsed time.Duration)
}

// State is a point-in-time copy of a container.
type State[E models.Identifiable] struct {
	Items      []E               `json:"items"`
	Current    *E                `json:"current"`
	Pagination models.Pagination `json:"pagination"`
	IsLoading  bool              `json:"is_loading"`
	Error      string            `json:"error,omitempty"`
}

// Options configures a container.
type Options struct {
	// Entity is the singular human label, e.g. "expense".
	Entity string
	// Plural defaults to Entity + "s".
	Plural   string
	Logger   *zap.Logger
	Observer Observer
}

// Container owns one entity type's list, current record, pagination and flags.
// It is safe for concurrent use.
type Container[E models.Identifiable, C any, U any] struct {
	gateway  Gateway[E, C, U]
	entity   string
	plural   string
	logger   *zap.Logger
	observer Observer

	mu         sync.Mutex
	items      []E
	current    *E
	pagination models.Pagination
	inflight   int
	lastError  string
	issued     map[Operation]uint64
	applied    map[Operation]uint64
	lastParams *models.ListParams
}

// New constructs a container over gateway.
func New[E models.Identifiable, C any, U any](gateway Gateway[E, C, U], opts Options) *Container[E, C, U] {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Entity == "" {
		opts.Entity = "record"
	}
	if opts.Plural == "" {
		opts.Plural = opts.Entity + "s"
	}
	return &Container[E, C, U]{
		gateway:    gateway,
		entity:     opts.Entity,
		plural:     opts.Plural,
		logger:     opts.Logger.With(zap.String("entity", opts.Entity)),
		observer:   opts.Observer,
		items:      []E{},
		pagination: models.Pagination{CurrentPage: 1, LastPage: 1, PerPage: models.DefaultPerPage},
		issued:     make(map[Operation]uint64),
		applied:    make(map[Operation]uint64),
	}
}

// Entity returns the singular label.
func (c *Container[E, C, U]) Entity() string { return c.entity }

// Plural returns the plural label.
func (c *Container[E, C, U]) Plural() string { return c.plural }

// State returns a copy of the container state.
func (c *Container[E, C, U]) State() State[E] {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := State[E]{
		Items:      append(make([]E, 0, len(c.items)), c.items...),
		Pagination: c.pagination,
		IsLoading:  c.inflight > 0,
		Error:      c.lastError,
	}
	if c.current != nil {
		cur := *c.current
		out.Current = &cur
	}
	return out
}

// LastParams returns the params of the last list call, if any.
func (c *Container[E, C, U]) LastParams() (models.ListParams, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastParams == nil {
		return models.ListParams{}, false
	}
	return c.lastParams.Clone(), true
}

// ClearError drops the recorded error message.
func (c *Container[E, C, U]) ClearError() {
	c.mu.Lock()
	c.lastError = ""
	c.mu.Unlock()
}

// ClearCurrent drops the focused record.
func (c *Container[E, C, U]) ClearCurrent() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

// List fetches a page and replaces items and pagination wholesale. The params
// become the query Refresh repeats once the list succeeds.
func (c *Container[E, C, U]) List(ctx context.Context, params models.ListParams) ([]E, models.Pagination, error) {
	return c.list(ctx, params, true)
}

// Search lists like List but never becomes the query Refresh repeats.
func (c *Container[E, C, U]) Search(ctx context.Context, params models.ListParams) ([]E, models.Pagination, error) {
	return c.list(ctx, params, false)
}

func (c *Container[E, C, U]) list(ctx context.Context, params models.ListParams, remember bool) ([]E, models.Pagination, error) {
	params = params.Normalized()
	seq, start := c.begin(OpList)
	items, page, err := c.gateway.List(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	if stale := c.settleFenced(OpList, seq, start); stale {
		return nil, models.Pagination{}, ErrStale
	}
	if err != nil {
		return nil, models.Pagination{}, c.fail(OpList, start, err, c.fallback("fetch %s", c.plural))
	}
	if items == nil {
		items = []E{}
	}
	c.items = append(make([]E, 0, len(items)), items...)
	c.pagination = page
	if remember {
		p := params.Clone()
		c.lastParams = &p
	}
	c.succeed(OpList, start)
	return items, page, nil
}

// Refresh re-issues the last list call, or the first page when none was made.
func (c *Container[E, C, U]) Refresh(ctx context.Context) ([]E, models.Pagination, error) {
	params, _ := c.LastParams()
	return c.List(ctx, params)
}

// Get fetches one record and focuses it. A failure leaves the prior current untouched.
func (c *Container[E, C, U]) Get(ctx context.Context, id int64, include ...string) (E, error) {
	var zero E
	seq, start := c.begin(OpGet)
	rec, err := c.gateway.Get(ctx, id, include)

	c.mu.Lock()
	defer c.mu.Unlock()
	if stale := c.settleFenced(OpGet, seq, start); stale {
		return zero, ErrStale
	}
	if err != nil {
		return zero, c.fail(OpGet, start, err, c.fallback("fetch %s details", c.entity))
	}
	c.current = &rec
	c.succeed(OpGet, start)
	return rec, nil
}

// Fetch reads one record without focusing it. It is not fenced against Get.
func (c *Container[E, C, U]) Fetch(ctx context.Context, id int64, include ...string) (E, error) {
	var zero E
	_, start := c.begin(OpGet)
	rec, err := c.gateway.Get(ctx, id, include)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.settle()
	if err != nil {
		return zero, c.fail(OpGet, start, err, c.fallback("fetch %s details", c.entity))
	}
	c.succeed(OpGet, start)
	return rec, nil
}

// Create stores a new record, unshifts it to the front of items and focuses it.
func (c *Container[E, C, U]) Create(ctx context.Context, payload C) (E, error) {
	var zero E
	_, start := c.begin(OpCreate)
	rec, err := c.gateway.Create(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.settle()
	if err != nil {
		return zero, c.fail(OpCreate, start, err, c.fallback("create %s", c.entity))
	}
	items := make([]E, 0, len(c.items)+1)
	items = append(items, rec)
	for _, it := range c.items {
		if it.EntityID() != rec.EntityID() {
			items = append(items, it)
		}
	}
	c.items = items
	c.current = &rec
	c.pagination.Total++
	c.succeed(OpCreate, start)
	return rec, nil
}

// Update replaces the matching record in items and current.
func (c *Container[E, C, U]) Update(ctx context.Context, id int64, payload U) (E, error) {
	var zero E
	_, start := c.begin(OpUpdate)
	rec, err := c.gateway.Update(ctx, id, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.settle()
	if err != nil {
		return zero, c.fail(OpUpdate, start, err, c.fallback("update %s", c.entity))
	}
	c.replace(id, rec)
	c.succeed(OpUpdate, start)
	return rec, nil
}

// Delete removes the record from items, decrements the total and clears current if it matched.
func (c *Container[E, C, U]) Delete(ctx context.Context, id int64) error {
	_, start := c.begin(OpDelete)
	err := c.gateway.Delete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.settle()
	if err != nil {
		return c.fail(OpDelete, start, err, c.fallback("delete %s", c.entity))
	}
	kept := make([]E, 0, len(c.items))
	for _, it := range c.items {
		if it.EntityID() != id {
			kept = append(kept, it)
		}
	}
	c.items = kept
	if c.current != nil && (*c.current).EntityID() == id {
		c.current = nil
	}
	if c.pagination.Total > 0 {
		c.pagination.Total--
	}
	c.succeed(OpDelete, start)
	return nil
}

// Transition applies a domain action (status toggle, check-in, ...) and replaces the record like Update.
func (c *Container[E, C, U]) Transition(ctx context.Context, id int64, action string, payload map[string]interface{}) (E, error) {
	var zero E
	_, start := c.begin(OpTransition)
	rec, err := c.gateway.Transition(ctx, id, action, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.settle()
	if err != nil {
		return zero, c.fail(OpTransition, start, err, c.fallback("update %s status", c.entity))
	}
	c.replace(id, rec)
	c.succeed(OpTransition, start)
	return rec, nil
}

// begin marks an operation in flight, clears the last error and issues a sequence number.
func (c *Container[E, C, U]) begin(op Operation) (uint64, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight++
	c.lastError = ""
	c.issued[op]++
	return c.issued[op], time.Now()
}

// settle must be called with mu held.
func (c *Container[E, C, U]) settle() {
	if c.inflight > 0 {
		c.inflight--
	}
}

// settleFenced must be called with mu held. It reports true when seq is not newer
// than the last applied response of the same kind.
func (c *Container[E, C, U]) settleFenced(op Operation, seq uint64, start time.Time) bool {
	c.settle()
	if seq <= c.applied[op] {
		c.logger.Debug("discarding stale response",
			zap.String("operation", string(op)),
			zap.Uint64("seq", seq),
			zap.Uint64("applied", c.applied[op]),
		)
		c.observe(op, OutcomeStale, start)
		return true
	}
	c.applied[op] = seq
	return false
}

func (c *Container[E, C, U]) replace(id int64, rec E) {
	for i := range c.items {
		if c.items[i].EntityID() == id {
			c.items[i] = rec
			break
		}
	}
	if c.current != nil && (*c.current).EntityID() == id {
		c.current = &rec
	}
}

func (c *Container[E, C, U]) succeed(op Operation, start time.Time) {
	c.observe(op, OutcomeSuccess, start)
}

func (c *Container[E, C, U]) fail(op Operation, start time.Time, err error, fallback string) error {
	if errors.Is(err, context.Canceled) {
		c.observe(op, OutcomeCancelled, start)
		return err
	}
	c.lastError = appErrors.Message(err, fallback)
	c.logger.Warn("operation failed",
		zap.String("operation", string(op)),
		zap.String("message", c.lastError),
		zap.Error(err),
	)
	c.observe(op, OutcomeFailure, start)
	var typed *appErrors.Error
	if errors.As(err, &typed) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, c.lastError)
}

func (c *Container[E, C, U]) observe(op Operation, outcome Outcome, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveOperation(c.entity, op, outcome, time.Since(start))
	}
}

func (c *Container[E, C, U]) fallback(format, subject string) string {
	return "Failed to " + fmt.Sprintf(format, subject) + ". Please try again."
}
