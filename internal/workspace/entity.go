package workspace

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/guardforce-admin/internal/dto"
	"github.com/noah-isme/guardforce-admin/internal/form"
	"github.com/noah-isme/guardforce-admin/internal/models"
	"github.com/noah-isme/guardforce-admin/internal/notify"
	"github.com/noah-isme/guardforce-admin/internal/store"
	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
)

// Entity is the type-erased surface the HTTP layer drives for one entity type.
type Entity interface {
	// Name is the resource path segment, e.g. "duty-attendances".
	Name() string
	Label() string
	Actions() []string
	State() interface{}
	Items() interface{}
	List(ctx context.Context, params models.ListParams) (interface{}, models.Pagination, error)
	Refresh(ctx context.Context) error
	Get(ctx context.Context, id int64, include []string) (interface{}, error)
	Delete(ctx context.Context, id int64) error
	Transition(ctx context.Context, id int64, action string, payload map[string]interface{}) (interface{}, error)
	// Submit runs the create form (id 0) or the edit form for id. bind fills the
	// form values, a pointer to the entity's input struct.
	Submit(ctx context.Context, id int64, bind func(values interface{}) error, n notify.Notifier) (interface{}, error)
	Lookup(ctx context.Context, q string, scope map[string]string) (interface{}, error)
	ClearError()
}

// Binding ties one entity container to its form spec, transition rules and lookup.
type Binding[E models.Identifiable, P any] struct {
	name      string
	container *store.Container[E, P, P]
	spec      form.Spec[E, P]
	rules     map[string]dto.TransitionRule
	lookup    *form.Lookup[E]
	validate  *validator.Validate
	logger    *zap.Logger
	// setup wires dependencies and related lookups into each new form.
	setup func(*form.Form[E, P])
}

func (b *Binding[E, P]) Name() string  { return b.name }
func (b *Binding[E, P]) Label() string { return b.container.Entity() }

func (b *Binding[E, P]) Actions() []string {
	out := make([]string, 0, len(b.rules))
	for action := range b.rules {
		out = append(out, action)
	}
	sort.Strings(out)
	return out
}

func (b *Binding[E, P]) State() interface{} { return b.container.State() }
func (b *Binding[E, P]) Items() interface{} { return b.container.State().Items }
func (b *Binding[E, P]) ClearError()        { b.container.ClearError() }

// Container exposes the typed container.
func (b *Binding[E, P]) Container() *store.Container[E, P, P] { return b.container }

func (b *Binding[E, P]) List(ctx context.Context, params models.ListParams) (interface{}, models.Pagination, error) {
	items, page, err := b.container.List(ctx, params)
	if items == nil {
		items = []E{}
	}
	return items, page, err
}

func (b *Binding[E, P]) Refresh(ctx context.Context) error {
	_, _, err := b.container.Refresh(ctx)
	return err
}

func (b *Binding[E, P]) Get(ctx context.Context, id int64, include []string) (interface{}, error) {
	return b.container.Get(ctx, id, include...)
}

func (b *Binding[E, P]) Delete(ctx context.Context, id int64) error {
	return b.container.Delete(ctx, id)
}

func (b *Binding[E, P]) Transition(ctx context.Context, id int64, action string, payload map[string]interface{}) (interface{}, error) {
	rule, ok := b.rules[action]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupported, fmt.Sprintf("Action %q is not available for %s.", action, b.container.Entity()))
	}
	clean, err := rule.Validate(payload)
	if err != nil {
		return nil, err
	}
	return b.container.Transition(ctx, id, action, clean)
}

// NewForm builds a form over the container, wired with the entity's dependencies.
func (b *Binding[E, P]) NewForm(n notify.Notifier) *form.Form[E, P] {
	f := form.New(b.spec, form.Target[E, P](b.container), n, b.validate, form.Options[E]{Logger: b.logger})
	if b.setup != nil {
		b.setup(f)
	}
	return f
}

func (b *Binding[E, P]) Submit(ctx context.Context, id int64, bind func(values interface{}) error, n notify.Notifier) (interface{}, error) {
	f := b.NewForm(n)
	if id == 0 {
		f.OpenCreate()
	} else {
		rec, err := b.container.Fetch(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := f.OpenRecord(rec); err != nil {
			return nil, err
		}
	}

	values := f.Values()
	if err := bind(&values); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, "Invalid form payload.")
	}
	f.Apply(values)
	return f.Submit(ctx)
}

func (b *Binding[E, P]) Lookup(ctx context.Context, q string, scope map[string]string) (interface{}, error) {
	b.lookup.Rescope(scope)

	var (
		items []E
		err   error
	)
	if strings.TrimSpace(q) == "" {
		items, err = b.lookup.Open(ctx)
	} else {
		select {
		case res := <-b.lookup.Search(strings.TrimSpace(q)):
			items, err = res.Items, res.Err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if errors.Is(err, form.ErrSearchCancelled) {
		err = nil
	}
	if items == nil {
		items = []E{}
	}
	return items, err
}

// Typeahead exposes the entity's lookup.
func (b *Binding[E, P]) Typeahead() *form.Lookup[E] { return b.lookup }
