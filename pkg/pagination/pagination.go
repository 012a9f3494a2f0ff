package pagination

const (
	// DefaultLimit is the page size when none is requested.
	DefaultLimit = 20
	// MaxLimit caps any requested page size.
	MaxLimit = 100
)

// OffsetRequest represents an offset-based pagination request.
type OffsetRequest struct {
	Page  int `json:"page" query:"page"`
	Limit int `json:"limit" query:"limit"`
}

// Normalize clamps page to >= 1 and limit to [1, max]; zero values take defaults.
func (r *OffsetRequest) Normalize(defaultLimit, max int) {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = defaultLimit
	}
	if r.Limit > max {
		r.Limit = max
	}
}

// Offset is the number of rows to skip.
func (r OffsetRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// OffsetResult represents one page of an offset-paginated listing.
type OffsetResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// NewOffsetResult creates a page result; a nil items slice becomes empty.
func NewOffsetResult[T any](items []T, total int64, req OffsetRequest) OffsetResult[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.Limit > 0 {
		pages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}

	return OffsetResult[T]{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: pages,
		HasMore:    req.Page < pages,
	}
}
