package types

type PaginationQuery struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Offset is the number of rows skipped before the requested page.
func (q PaginationQuery) Offset() int { return (q.Page - 1) * q.PageSize }

type IDParam struct {
	ID string `json:"id"`
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type SearchQuery struct {
	Q         *string   `json:"q,omitempty"`
	SortBy    *string   `json:"sortBy,omitempty"`
	SortOrder SortOrder `json:"sortOrder"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type APIErrorResponse struct {
	StatusCode int           `json:"statusCode"`
	Message    string        `json:"message"`
	Error      string        `json:"error,omitempty"`
	Details    []ErrorDetail `json:"details,omitempty"`
}

// Paginated is the envelope of every list response.
type Paginated[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// NewPaginated builds a page envelope. TotalPages rounds up and is zero for
// an empty result.
func NewPaginated[T any](items []T, total int, q PaginationQuery) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if q.PageSize > 0 {
		pages = (total + q.PageSize - 1) / q.PageSize
	}
	return Paginated[T]{Items: items, Total: total, Page: q.Page, PageSize: q.PageSize, TotalPages: pages}
}
