// Package workspace owns the operator's entity state containers and builds
// their forms and lookups. Every container has exactly one owner: the Workspace.
package workspace

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/guardforce-admin/internal/dto"
	"github.com/noah-isme/guardforce-admin/internal/form"
	"github.com/noah-isme/guardforce-admin/internal/models"
	"github.com/noah-isme/guardforce-admin/internal/repository"
	"github.com/noah-isme/guardforce-admin/internal/store"
	"github.com/noah-isme/guardforce-admin/internal/upstream"
)

// Options configures a workspace.
type Options struct {
	Logger   *zap.Logger
	Observer store.Observer
	Validate *validator.Validate

	SearchDebounce     time.Duration
	LookupPageSize     int
	LookupOpenPageSize int
	// Context bounds debounced lookup searches.
	Context context.Context
}

// Workspace is the registry of one operator's containers.
type Workspace struct {
	opts     Options
	entities map[string]Entity

	GuardTypes        *Binding[models.GuardType, dto.GuardTypeInput]
	Guards            *Binding[models.Guard, dto.GuardInput]
	Clients           *Binding[models.Client, dto.ClientInput]
	Contacts          *Binding[models.Contact, dto.ContactInput]
	Sites             *Binding[models.Site, dto.SiteInput]
	SiteLocations     *Binding[models.SiteLocation, dto.SiteLocationInput]
	DutyTimeTypes     *Binding[models.DutyTimeType, dto.DutyTimeTypeInput]
	Duties            *Binding[models.Duty, dto.DutyInput]
	GuardAssignments  *Binding[models.GuardAssignment, dto.GuardAssignmentInput]
	DutyAttendances   *Binding[models.DutyAttendance, dto.DutyAttendanceInput]
	DutyStatusReports *Binding[models.DutyStatusReport, dto.DutyStatusReportInput]
	Complaints        *Binding[models.Complaint, dto.ComplaintInput]
	ExpenseCategories *Binding[models.ExpenseCategory, dto.ExpenseCategoryInput]
	Expenses          *Binding[models.Expense, dto.ExpenseInput]
	ExpenseReviews    *Binding[models.ExpenseReview, dto.ExpenseReviewInput]
	Leaves            *Binding[models.Leave, dto.LeaveInput]
}

// source picks the data-access backend for every entity.
type source struct {
	client upstream.Doer
	db     *sqlx.DB
	logger *zap.Logger
}

func gateway[E models.Identifiable, P any](src source, path string, table repository.TableSpec) store.Gateway[E, P, P] {
	if src.db != nil {
		return repository.NewTable[E, P, P](src.db, table, src.logger)
	}
	return upstream.NewResource[E, P, P](src.client, path)
}

// NewREST builds a workspace backed by the external REST API.
func NewREST(client upstream.Doer, opts Options) *Workspace {
	return build(source{client: client, logger: opts.Logger}, opts)
}

// NewPostgres builds a workspace reading the database directly.
func NewPostgres(db *sqlx.DB, opts Options) *Workspace {
	return build(source{db: db, logger: opts.Logger}, opts)
}

// Entity returns the entity registered under a resource name.
func (w *Workspace) Entity(name string) (Entity, bool) {
	e, ok := w.entities[name]
	return e, ok
}

// Entities returns every entity sorted by name.
func (w *Workspace) Entities() []Entity {
	out := make([]Entity, 0, len(w.entities))
	for _, e := range w.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func (w *Workspace) add(e Entity) {
	w.entities[e.Name()] = e
}

type entityDef[E models.Identifiable, P any] struct {
	name   string
	label  string
	plural string
	table  repository.TableSpec
	spec   form.Spec[E, P]
	rules  []dto.TransitionRule
}

func register[E models.Identifiable, P any](w *Workspace, src source, def entityDef[E, P]) *Binding[E, P] {
	logger := w.opts.Logger.Named(def.name)
	container := store.New[E, P, P](gateway[E, P](src, def.name, def.table), store.Options{
		Entity:   def.label,
		Plural:   def.plural,
		Logger:   logger,
		Observer: w.opts.Observer,
	})
	rules := make(map[string]dto.TransitionRule, len(def.rules))
	for _, r := range def.rules {
		rules[r.Action] = r
	}
	def.spec.Entity = def.label
	b := &Binding[E, P]{
		name:      def.name,
		container: container,
		spec:      def.spec,
		rules:     rules,
		lookup: form.NewLookup[E](container, form.LookupOptions{
			Debounce:     w.opts.SearchDebounce,
			PageSize:     w.opts.LookupPageSize,
			OpenPageSize: w.opts.LookupOpenPageSize,
			Context:      w.opts.Context,
		}),
		validate: w.opts.Validate,
		logger:   logger,
	}
	w.add(b)
	return b
}
