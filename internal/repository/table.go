package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/guardforce-admin/internal/dto"
	"github.com/noah-isme/guardforce-admin/internal/models"
	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
)

// Transition describes how a domain action maps onto columns.
type Transition struct {
	// Columns are set from payload keys of the same name.
	Columns []string
	// Exprs are set to fixed SQL expressions, e.g. check_in_at = NOW().
	Exprs map[string]string
}

// TableSpec describes how one entity is stored.
type TableSpec struct {
	Table  string
	Entity string
	// Columns are selected in order; each must match a db tag on the entity.
	Columns []string
	// Casts replace a column in SELECT/RETURNING lists so DATE and TIME values scan into strings.
	Casts map[string]string
	// Writable columns are taken from the payload by json key on create and update.
	Writable []string
	Search   []string
	// Filters maps list filter keys onto columns.
	Filters     map[string]string
	Sorts       []string
	DefaultSort string
	Transitions map[string]Transition
}

func (s TableSpec) selectList() string {
	parts := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		if expr, ok := s.Casts[col]; ok {
			parts[i] = fmt.Sprintf("%s AS %s", expr, col)
			continue
		}
		parts[i] = col
	}
	return strings.Join(parts, ", ")
}

// Table is the PostgreSQL gateway for one entity.
type Table[E models.Identifiable, C any, U any] struct {
	db     *sqlx.DB
	spec   TableSpec
	logger *zap.Logger
}

// NewTable constructs a table gateway.
func NewTable[E models.Identifiable, C any, U any](db *sqlx.DB, spec TableSpec, logger *zap.Logger) *Table[E, C, U] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if spec.DefaultSort == "" {
		spec.DefaultSort = "created_at"
	}
	return &Table[E, C, U]{db: db, spec: spec, logger: logger.With(zap.String("table", spec.Table))}
}

// List returns a page of rows. Related-resource includes are not joined.
func (t *Table[E, C, U]) List(ctx context.Context, params models.ListParams) ([]E, models.Pagination, error) {
	params = params.Normalized()
	args := []interface{}{}
	conditions := []string{"1=1"}

	if params.Search != "" && len(t.spec.Search) > 0 {
		args = append(args, "%"+strings.ToLower(params.Search)+"%")
		likes := make([]string, len(t.spec.Search))
		for i, col := range t.spec.Search {
			likes[i] = fmt.Sprintf("LOWER(%s) LIKE $%d", col, len(args))
		}
		conditions = append(conditions, "("+strings.Join(likes, " OR ")+")")
	}

	keys := make([]string, 0, len(params.Filters))
	for k := range params.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		column, ok := t.spec.Filters[key]
		if !ok || params.Filters[key] == "" {
			continue
		}
		args = append(args, params.Filters[key])
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	where := strings.Join(conditions, " AND ")
	column := t.spec.DefaultSort
	for _, allowed := range t.spec.Sorts {
		if allowed == params.Sort {
			column = allowed
			break
		}
	}
	order := strings.ToUpper(params.Order)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	offset := (params.Page - 1) * params.PerPage

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s %s, id DESC LIMIT %d OFFSET %d",
		t.spec.selectList(), t.spec.Table, where, column, order, params.PerPage, offset)
	items := []E{}
	if err := t.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, models.Pagination{}, t.translate("list", err)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", t.spec.Table, where)
	if err := t.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, models.Pagination{}, t.translate("count", err)
	}
	return items, models.NewPagination(params.Page, params.PerPage, total), nil
}

// Get returns one row by id.
func (t *Table[E, C, U]) Get(ctx context.Context, id int64, _ []string) (E, error) {
	var rec E
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", t.spec.selectList(), t.spec.Table)
	if err := t.db.GetContext(ctx, &rec, query, id); err != nil {
		return rec, t.translate("get", err)
	}
	return rec, nil
}

// Create inserts a row built from the payload's writable fields. Absent optionals
// are left to column defaults.
func (t *Table[E, C, U]) Create(ctx context.Context, payload C) (E, error) {
	var rec E
	values := payloadValues(payload)
	cols := make([]string, 0, len(t.spec.Writable))
	marks := make([]string, 0, len(t.spec.Writable))
	args := make([]interface{}, 0, len(t.spec.Writable))
	for _, col := range t.spec.Writable {
		v, ok := values[col]
		if !ok || v == nil {
			continue
		}
		args = append(args, v)
		cols = append(cols, col)
		marks = append(marks, fmt.Sprintf("$%d", len(args)))
	}
	query := fmt.Sprintf("INSERT INTO %s (%s, created_at, updated_at) VALUES (%s, NOW(), NOW()) RETURNING %s",
		t.spec.Table, strings.Join(cols, ", "), strings.Join(marks, ", "), t.spec.selectList())
	if err := t.db.GetContext(ctx, &rec, query, args...); err != nil {
		return rec, t.translate("create", err)
	}
	return rec, nil
}

// Update overwrites the writable columns of a row.
func (t *Table[E, C, U]) Update(ctx context.Context, id int64, payload U) (E, error) {
	values := payloadValues(payload)
	sets := make(map[string]interface{}, len(t.spec.Writable))
	for _, col := range t.spec.Writable {
		if v, ok := values[col]; ok {
			sets[col] = v
		}
	}
	return t.updateColumns(ctx, "update", id, t.spec.Writable, sets, nil)
}

// Delete removes a row.
func (t *Table[E, C, U]) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.spec.Table)
	res, err := t.db.ExecContext(ctx, query, id)
	if err != nil {
		return t.translate("delete", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return t.translate("delete", sql.ErrNoRows)
	}
	return nil
}

// Transition applies a declared action.
func (t *Table[E, C, U]) Transition(ctx context.Context, id int64, action string, payload map[string]interface{}) (E, error) {
	var zero E
	tr, ok := t.spec.Transitions[action]
	if !ok {
		return zero, appErrors.Clone(appErrors.ErrUnsupported, fmt.Sprintf("Action %q is not available for %s.", action, t.spec.Entity))
	}
	sets := make(map[string]interface{}, len(tr.Columns))
	for _, col := range tr.Columns {
		if v, ok := payload[col]; ok {
			sets[col] = v
		}
	}
	if len(sets) == 0 && len(tr.Exprs) == 0 {
		return zero, appErrors.Clone(appErrors.ErrValidation, "Nothing to update.")
	}
	return t.updateColumns(ctx, action, id, tr.Columns, sets, tr.Exprs)
}

func (t *Table[E, C, U]) updateColumns(ctx context.Context, op string, id int64, order []string, sets map[string]interface{}, exprs map[string]string) (E, error) {
	var rec E
	args := []interface{}{}
	assignments := []string{}
	for _, col := range order {
		v, ok := sets[col]
		if !ok {
			continue
		}
		args = append(args, v)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	exprCols := make([]string, 0, len(exprs))
	for col := range exprs {
		exprCols = append(exprCols, col)
	}
	sort.Strings(exprCols)
	for _, col := range exprCols {
		assignments = append(assignments, fmt.Sprintf("%s = %s", col, exprs[col]))
	}
	assignments = append(assignments, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		t.spec.Table, strings.Join(assignments, ", "), len(args), t.spec.selectList())
	if err := t.db.GetContext(ctx, &rec, query, args...); err != nil {
		return rec, t.translate(op, err)
	}
	return rec, nil
}

// translate maps driver errors onto typed errors the container can present.
func (t *Table[E, C, U]) translate(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found.", dto.Label(t.spec.Entity)))
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("A %s with the same details already exists.", t.spec.Entity))
		case "23503":
			if op == "delete" {
				return appErrors.Clone(appErrors.ErrConflict, "In use")
			}
			return appErrors.Clone(appErrors.ErrValidation, "A referenced record does not exist.")
		case "23502", "23514", "22P02", "22007", "22008":
			return appErrors.Clone(appErrors.ErrValidation, "The submitted values were rejected by the database.")
		}
	}
	t.logger.Error("query failed", zap.String("operation", op), zap.Error(err))
	// no message: callers fall back to their per-operation text
	return &appErrors.Error{Code: appErrors.ErrInternal.Code, Status: appErrors.ErrInternal.Status}
}

// payloadValues reads a payload struct into a json-key map, dereferencing pointers.
func payloadValues(payload interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	rv := reflect.ValueOf(payload)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return out
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return out
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name := dto.JSONName(f)
		if name == "" {
			continue
		}
		v := rv.Field(i)
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				out[name] = nil
				continue
			}
			v = v.Elem()
		}
		out[name] = v.Interface()
	}
	return out
}
