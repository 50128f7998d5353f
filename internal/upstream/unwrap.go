package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/guardforce-admin/internal/models"
	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
)

// The guarding API is inconsistent about envelopes. Lists arrive as a bare array,
// {data: [...]} with pagination at the top level or under pagination/meta, or a
// paginator object nested under data. Single records arrive bare or under data.

type pageFields struct {
	CurrentPage *int `json:"current_page"`
	LastPage    *int `json:"last_page"`
	Total       *int `json:"total"`
	PerPage     *int `json:"per_page"`
}

func (p pageFields) present() bool {
	return p.CurrentPage != nil || p.LastPage != nil || p.Total != nil || p.PerPage != nil
}

func (p pageFields) pagination(fallback models.Pagination) models.Pagination {
	out := fallback
	if p.CurrentPage != nil {
		out.CurrentPage = *p.CurrentPage
	}
	if p.LastPage != nil {
		out.LastPage = *p.LastPage
	}
	if p.Total != nil {
		out.Total = *p.Total
	}
	if p.PerPage != nil {
		out.PerPage = *p.PerPage
	}
	return out
}

type listEnvelope struct {
	pageFields
	Data       json.RawMessage `json:"data"`
	Pagination *pageFields     `json:"pagination"`
	Meta       *pageFields     `json:"meta"`
}

func malformed(err error) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Unexpected response from server.")
}

func isArray(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// decodeList extracts items and pagination from any supported list shape.
func decodeList[E any](body []byte, params models.ListParams) ([]E, models.Pagination, error) {
	var items []E
	if isArray(body) {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, models.Pagination{}, malformed(err)
		}
		return items, models.NewPagination(params.Page, params.PerPage, len(items)), nil
	}

	var env listEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, models.Pagination{}, malformed(err)
	}

	page := pageFields{}
	switch {
	case isArray(env.Data):
		if err := json.Unmarshal(env.Data, &items); err != nil {
			return nil, models.Pagination{}, malformed(err)
		}
		page = env.pageFields
	case isObject(env.Data):
		var inner listEnvelope
		if err := json.Unmarshal(env.Data, &inner); err != nil {
			return nil, models.Pagination{}, malformed(err)
		}
		if !isArray(inner.Data) {
			return nil, models.Pagination{}, malformed(fmt.Errorf("list payload has no data array"))
		}
		if err := json.Unmarshal(inner.Data, &items); err != nil {
			return nil, models.Pagination{}, malformed(err)
		}
		page = inner.pageFields
	default:
		return nil, models.Pagination{}, malformed(fmt.Errorf("list payload has no data array"))
	}

	if !page.present() {
		switch {
		case env.Pagination != nil && env.Pagination.present():
			page = *env.Pagination
		case env.Meta != nil && env.Meta.present():
			page = *env.Meta
		}
	}
	if items == nil {
		items = []E{}
	}
	return items, page.pagination(models.NewPagination(params.Page, params.PerPage, len(items))), nil
}

// decodeRecord extracts one record from a bare or data-wrapped body.
func decodeRecord[E any](body []byte) (E, error) {
	var rec E
	raw := json.RawMessage(body)
	for depth := 0; depth < 2; depth++ {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if !isObject(raw) {
			break
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return rec, malformed(err)
		}
		if !isObject(env.Data) {
			break
		}
		raw = env.Data
	}
	if !isObject(raw) {
		return rec, malformed(fmt.Errorf("record payload is not an object"))
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, malformed(err)
	}
	return rec, nil
}
