package models

import "strings"

// Identifiable is implemented by every entity record kept in a container.
type Identifiable interface {
	EntityID() int64
}

// Pagination describes the page returned by the last list fetch only.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
}

// NewPagination derives the last page from total and page size.
func NewPagination(page, perPage, total int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	last := (total + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}
	return Pagination{CurrentPage: page, LastPage: last, Total: total, PerPage: perPage}
}

const (
	// DefaultPerPage is used when a list call does not specify a page size.
	DefaultPerPage = 20
	// MaxPerPage caps page sizes requested by callers.
	MaxPerPage = 100
)

// ListParams is the free-form filter and pagination bag accepted by list operations.
type ListParams struct {
	Page    int               `json:"page,omitempty"`
	PerPage int               `json:"per_page,omitempty"`
	Search  string            `json:"search,omitempty"`
	Sort    string            `json:"sort,omitempty"`
	Order   string            `json:"order,omitempty"`
	Include []string          `json:"include,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
}

// Clone returns a deep copy so callers can derive params without aliasing maps.
func (p ListParams) Clone() ListParams {
	out := p
	if p.Include != nil {
		out.Include = append([]string(nil), p.Include...)
	}
	if p.Filters != nil {
		out.Filters = make(map[string]string, len(p.Filters))
		for k, v := range p.Filters {
			out.Filters[k] = v
		}
	}
	return out
}

// WithFilter returns a copy carrying the given field filter. An empty value removes it.
func (p ListParams) WithFilter(key, value string) ListParams {
	out := p.Clone()
	if out.Filters == nil {
		out.Filters = make(map[string]string)
	}
	if strings.TrimSpace(value) == "" {
		delete(out.Filters, key)
		return out
	}
	out.Filters[key] = value
	return out
}

// Normalized clamps page and page size to sane bounds.
func (p ListParams) Normalized() ListParams {
	out := p.Clone()
	if out.Page < 1 {
		out.Page = 1
	}
	if out.PerPage <= 0 {
		out.PerPage = DefaultPerPage
	}
	if out.PerPage > MaxPerPage {
		out.PerPage = MaxPerPage
	}
	out.Search = strings.TrimSpace(out.Search)
	return out
}

// GuardSummary is a read-only projection of a guard embedded in other records.
type GuardSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DutySummary is a read-only projection of a duty embedded in other records.
type DutySummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// SiteSummary is a read-only projection of a site.
type SiteSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NamedSummary covers the remaining id/name projections (client, guard type, category, location).
type NamedSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
