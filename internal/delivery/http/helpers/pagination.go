package helpers

import (
	"net/http"
	"strconv"

	"recordpager/internal/domain"
)

// Pagination query parameter names.
const (
	PageParam     = "page"
	PageSizeParam = "page_size"
)

// PageQuery is the page request read from the query string. A field is absent
// when the parameter is missing or not an integer, so the service keeps its default.
type PageQuery struct {
	PageNumber domain.Optional[int]
	PageSize   domain.Optional[int]
}

// ParsePagination reads page and page_size from the request query string.
// Values are passed through unclamped: the page state absorbs out-of-range
// page numbers and rejects page sizes below 1.
func ParsePagination(r *http.Request) PageQuery {
	q := r.URL.Query()
	return PageQuery{
		PageNumber: queryInt(q.Get(PageParam)),
		PageSize:   queryInt(q.Get(PageSizeParam)),
	}
}

func queryInt(s string) domain.Optional[int] {
	if s == "" {
		return domain.Optional[int]{}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return domain.Optional[int]{}
	}
	return domain.Some(v)
}

// PaginationMeta is the pagination metadata included in paginated list responses.
// NextPage and PreviousPage are only set when that page holds records.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page             int    `json:"page"`
	PageSize         int    `json:"page_size"`
	Total            int    `json:"total"`
	FirstPage        int    `json:"first_page"`
	LastPage         int    `json:"last_page"`
	NextPage         *int   `json:"next_page,omitempty"`
	PreviousPage     *int   `json:"previous_page,omitempty"`
	IndexRangeBegin  int    `json:"index_range_begin"`
	IndexRangeEnd    int    `json:"index_range_end"`
	HasPrevious      bool   `json:"has_previous"`
	HasNext          bool   `json:"has_next"`
	HasMultiplePages bool   `json:"has_multiple_pages"`
	Summary          string `json:"summary"`
}

// NewPaginationMeta builds PaginationMeta from a computed page state.
func NewPaginationMeta(state domain.PageState, label string) PaginationMeta {
	meta := PaginationMeta{
		Page:             state.PageNumber(),
		PageSize:         state.PageSize(),
		Total:            state.TotalRecords(),
		FirstPage:        state.FirstPage(),
		LastPage:         state.LastPage(),
		IndexRangeBegin:  state.IndexRangeBegin(),
		IndexRangeEnd:    state.IndexRangeEnd(),
		HasPrevious:      state.HasPreviousPage(),
		HasNext:          state.HasNextPage(),
		HasMultiplePages: state.HasMultiplePages(),
		Summary:          state.Describe(label),
	}
	if meta.HasNext {
		next := state.NextPage()
		meta.NextPage = &next
	}
	if meta.HasPrevious {
		prev := state.PreviousPage()
		meta.PreviousPage = &prev
	}
	return meta
}
