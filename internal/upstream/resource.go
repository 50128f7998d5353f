// Package upstream implements data-access gateways over the external guarding REST API.
package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/noah-isme/guardforce-admin/internal/models"
)

// Doer issues one API request and returns the raw 2xx body.
type Doer interface {
	Do(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error)
}

// Resource is the REST gateway for one entity collection, e.g. /guards.
type Resource[E models.Identifiable, C any, U any] struct {
	client Doer
	path   string
}

// NewResource returns a gateway rooted at /{path}.
func NewResource[E models.Identifiable, C any, U any](client Doer, path string) *Resource[E, C, U] {
	return &Resource[E, C, U]{client: client, path: "/" + strings.Trim(path, "/")}
}

// Path returns the collection path.
func (r *Resource[E, C, U]) Path() string { return r.path }

func (r *Resource[E, C, U]) member(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

// List fetches one page of the collection.
func (r *Resource[E, C, U]) List(ctx context.Context, params models.ListParams) ([]E, models.Pagination, error) {
	body, err := r.client.Do(ctx, http.MethodGet, r.path, listQuery(params), nil)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return decodeList[E](body, params)
}

// Get fetches a record, optionally with related resources.
func (r *Resource[E, C, U]) Get(ctx context.Context, id int64, include []string) (E, error) {
	var query url.Values
	if len(include) > 0 {
		query = url.Values{"include": {strings.Join(include, ",")}}
	}
	body, err := r.client.Do(ctx, http.MethodGet, r.member(id), query, nil)
	if err != nil {
		var zero E
		return zero, err
	}
	return decodeRecord[E](body)
}

// Create posts a new record.
func (r *Resource[E, C, U]) Create(ctx context.Context, payload C) (E, error) {
	body, err := r.client.Do(ctx, http.MethodPost, r.path, nil, payload)
	if err != nil {
		var zero E
		return zero, err
	}
	return decodeRecord[E](body)
}

// Update replaces a record.
func (r *Resource[E, C, U]) Update(ctx context.Context, id int64, payload U) (E, error) {
	body, err := r.client.Do(ctx, http.MethodPut, r.member(id), nil, payload)
	if err != nil {
		var zero E
		return zero, err
	}
	return decodeRecord[E](body)
}

// Delete removes a record.
func (r *Resource[E, C, U]) Delete(ctx context.Context, id int64) error {
	_, err := r.client.Do(ctx, http.MethodDelete, r.member(id), nil, nil)
	return err
}

// Transition posts a domain action to /{path}/{id}/{action}.
func (r *Resource[E, C, U]) Transition(ctx context.Context, id int64, action string, payload map[string]interface{}) (E, error) {
	var zero E
	action = strings.Trim(action, "/")
	if action == "" || strings.Contains(action, "/") {
		return zero, fmt.Errorf("invalid action %q", action)
	}
	if payload == nil {
		payload = map[string]interface{}{}
	}
	body, err := r.client.Do(ctx, http.MethodPost, r.member(id)+"/"+action, nil, payload)
	if err != nil {
		return zero, err
	}
	return decodeRecord[E](body)
}

func listQuery(params models.ListParams) url.Values {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.Sort != "" {
		q.Set("sort", params.Sort)
	}
	if params.Order != "" {
		q.Set("order", params.Order)
	}
	if len(params.Include) > 0 {
		q.Set("include", strings.Join(params.Include, ","))
	}
	for k, v := range params.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}
