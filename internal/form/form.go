package form

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/guardforce-admin/internal/dto"
	"github.com/noah-isme/guardforce-admin/internal/models"
	"github.com/noah-isme/guardforce-admin/internal/notify"
	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
)

var (
	// ErrClosed is returned when a closed form is submitted.
	ErrClosed = errors.New("form is not open")
	// ErrBusy is returned when a submit is already in flight.
	ErrBusy = errors.New("form submission in progress")
)

// Mode tells whether the form creates or edits a record.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Options configures a form.
type Options[E models.Identifiable] struct {
	Logger *zap.Logger
	// OnSuccess runs after a successful submit, before the form closes.
	OnSuccess func(E)
}

// Form holds one dialog's values, errors and open/closed state.
type Form[E models.Identifiable, P any] struct {
	spec      Spec[E, P]
	target    Target[E, P]
	notifier  notify.Notifier
	validate  *validator.Validate
	logger    *zap.Logger
	onSuccess func(E)

	mu         sync.Mutex
	open       bool
	mode       Mode
	editID     int64
	initial    P
	values     P
	errors     map[string]string
	touched    map[string]bool
	submitting bool
	deps       []Dependency[P]
	lookups    []Resetter
}

// New builds a closed form over target.
func New[E models.Identifiable, P any](spec Spec[E, P], target Target[E, P], notifier notify.Notifier, validate *validator.Validate, opts Options[E]) *Form[E, P] {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if validate == nil {
		validate = dto.NewValidator()
	}
	f := &Form[E, P]{
		spec:      spec,
		target:    target,
		notifier:  notifier,
		validate:  validate,
		logger:    opts.Logger.With(zap.String("form", spec.Entity)),
		onSuccess: opts.OnSuccess,
		errors:    map[string]string{},
		touched:   map[string]bool{},
	}
	f.initial = spec.defaults()
	f.values = spec.defaults()
	return f
}

// Depend registers a dependent-field reset.
func (f *Form[E, P]) Depend(d Dependency[P]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deps = append(f.deps, d)
}

// Attach registers lookups whose search state is reset after a successful submit or close.
func (f *Form[E, P]) Attach(lookups ...Resetter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, lookups...)
}

// OpenCreate opens the form with default values.
func (f *Form[E, P]) OpenCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked(ModeCreate, 0, f.spec.defaults())
	f.open = true
}

// OpenEdit opens the form bound to an existing record.
func (f *Form[E, P]) OpenEdit(id int64, values P) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked(ModeEdit, id, values)
	f.open = true
}

// OpenRecord opens the form for editing rec through the spec binder.
func (f *Form[E, P]) OpenRecord(rec E) error {
	if f.spec.FromEntity == nil {
		return fmt.Errorf("%s form cannot bind records", f.spec.Entity)
	}
	f.OpenEdit(rec.EntityID(), f.spec.FromEntity(rec))
	return nil
}

// Apply replaces every value at once. A dependency whose parent changed is
// reset unless values also changed its dependent fields. Lookups are not re-scoped.
func (f *Form[E, P]) Apply(values P) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev := f.values
	f.values = values
	for _, d := range f.deps {
		if d.Reset == nil || reflect.DeepEqual(fieldValue(prev, d.Parent), fieldValue(values, d.Parent)) {
			continue
		}
		kept := true
		for _, k := range d.Fields {
			if !reflect.DeepEqual(fieldValue(prev, k), fieldValue(values, k)) {
				kept = false
				break
			}
		}
		if kept {
			d.Reset(&f.values)
		}
	}
}

// Change mutates one field. When the value differs, dependent fields are reset
// and their lookups re-scoped; a touched field is re-validated.
func (f *Form[E, P]) Change(ctx context.Context, field string, mutate func(*P)) error {
	f.mu.Lock()
	before := fieldValue(f.values, field)
	mutate(&f.values)
	after := fieldValue(f.values, field)

	var refetch []func(context.Context, P) error
	if !reflect.DeepEqual(before, after) {
		for _, d := range f.deps {
			if d.Parent != field {
				continue
			}
			if d.Reset != nil {
				d.Reset(&f.values)
			}
			if d.Refetch != nil {
				refetch = append(refetch, d.Refetch)
			}
		}
	}
	if f.touched[field] {
		f.validateFieldLocked(field)
	}
	snapshot := f.values
	f.mu.Unlock()

	for _, fn := range refetch {
		if err := fn(ctx, snapshot); err != nil {
			return err
		}
	}
	return nil
}

// Blur marks a field touched and validates it.
func (f *Form[E, P]) Blur(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched[field] = true
	f.validateFieldLocked(field)
	return f.errors[field]
}

// Validate checks every field and returns the per-field messages.
func (f *Form[E, P]) Validate() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, fields := f.checkLocked()
	f.errors = fields
	for k := range fields {
		f.touched[k] = true
	}
	return copyMap(fields)
}

// Submit validates, normalizes and dispatches the create or update. Validation
// failures return *ValidationError without reaching the target.
func (f *Form[E, P]) Submit(ctx context.Context) (E, error) {
	var zero E

	f.mu.Lock()
	if !f.open {
		f.mu.Unlock()
		return zero, ErrClosed
	}
	if f.submitting {
		f.mu.Unlock()
		return zero, ErrBusy
	}
	payload, fields := f.checkLocked()
	if len(fields) > 0 {
		f.errors = fields
		for k := range fields {
			f.touched[k] = true
		}
		f.mu.Unlock()
		return zero, &ValidationError{Fields: copyMap(fields)}
	}
	f.errors = map[string]string{}
	f.submitting = true
	mode, id := f.mode, f.editID
	f.mu.Unlock()

	var (
		rec E
		err error
	)
	if mode == ModeEdit {
		rec, err = f.target.Update(ctx, id, payload)
	} else {
		rec, err = f.target.Create(ctx, payload)
	}

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) && len(typed.Fields) > 0 {
			for k, v := range typed.Fields {
				f.errors[k] = v
			}
		}
		f.mu.Unlock()
		msg := appErrors.Message(err, f.failureFallback(mode))
		f.logger.Debug("form submit failed", zap.String("mode", string(mode)), zap.Error(err))
		f.notify(func(n notify.Notifier) { n.Error(ctx, "Error", msg) })
		return zero, err
	}
	lookups := append([]Resetter(nil), f.lookups...)
	f.resetLocked(ModeCreate, 0, f.spec.defaults())
	f.mu.Unlock()

	f.notify(func(n notify.Notifier) { n.Success(ctx, "Success", f.successMessage(mode)) })
	for _, l := range lookups {
		l.Reset()
	}
	if f.onSuccess != nil {
		f.onSuccess(rec)
	}

	f.mu.Lock()
	f.open = false
	f.mu.Unlock()
	return rec, nil
}

// RequestClose closes the form, asking for confirmation first when values have
// unsaved changes. It reports whether the form closed.
func (f *Form[E, P]) RequestClose(ctx context.Context) (bool, error) {
	if f.Dirty() && f.notifier != nil {
		ok, err := f.notifier.Confirm(ctx, notify.Confirmation{
			Title:        "Discard changes?",
			Message:      "You have unsaved changes. Are you sure you want to close?",
			ConfirmLabel: "Yes, discard",
			CancelLabel:  "Keep editing",
		})
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	f.mu.Lock()
	lookups := append([]Resetter(nil), f.lookups...)
	f.resetLocked(ModeCreate, 0, f.spec.defaults())
	f.open = false
	f.mu.Unlock()

	for _, l := range lookups {
		l.Reset()
	}
	return true, nil
}

// Dirty reports whether any tracked field differs from the values the form opened with.
func (f *Form[E, P]) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := f.spec.Tracked
	if len(keys) == 0 {
		keys = jsonKeys(f.values)
	}
	for _, k := range keys {
		if !reflect.DeepEqual(fieldValue(f.initial, k), fieldValue(f.values, k)) {
			return true
		}
	}
	return false
}

// Values returns the current values.
func (f *Form[E, P]) Values() P {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Errors returns the current per-field messages.
func (f *Form[E, P]) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyMap(f.errors)
}

// IsOpen reports whether the dialog is open.
func (f *Form[E, P]) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Mode reports the current mode and, when editing, the record id.
func (f *Form[E, P]) Mode() (Mode, int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode, f.editID
}

func (f *Form[E, P]) resetLocked(mode Mode, id int64, values P) {
	f.mode = mode
	f.editID = id
	f.initial = values
	f.values = values
	f.errors = map[string]string{}
	f.touched = map[string]bool{}
}

// checkLocked returns the normalized payload and any validation messages.
func (f *Form[E, P]) checkLocked() (P, map[string]string) {
	payload := f.values
	dto.Normalize(&payload)
	if err := f.validate.Struct(payload); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return payload, nil
		}
		return payload, fieldMessages(err, f.spec.label)
	}
	return payload, map[string]string{}
}

func (f *Form[E, P]) validateFieldLocked(field string) {
	_, fields := f.checkLocked()
	if msg, ok := fields[field]; ok {
		f.errors[field] = msg
		return
	}
	delete(f.errors, field)
}

func (f *Form[E, P]) notify(fn func(notify.Notifier)) {
	if f.notifier != nil {
		fn(f.notifier)
	}
}

func (f *Form[E, P]) successMessage(mode Mode) string {
	verb := "created"
	if mode == ModeEdit {
		verb = "updated"
	}
	return fmt.Sprintf("%s %s successfully", capitalize(f.spec.Entity), verb)
}

func (f *Form[E, P]) failureFallback(mode Mode) string {
	verb := "create"
	if mode == ModeEdit {
		verb = "update"
	}
	return fmt.Sprintf("Failed to %s %s. Please try again.", verb, f.spec.Entity)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
