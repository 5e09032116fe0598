package shared

// List defaults
const (
	DefaultPageSize = 20
	DefaultOrderBy  = "created_at"
	DefaultOrderDir = "desc"
)

// Filter carries list parameters down to the query layer. Filters holds
// equality conditions keyed by column; repositories whitelist the keys.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// NewFilter fills unset paging and sort parameters with the list defaults
func NewFilter(page, pageSize int, orderBy, orderDir string) Filter {
	f := Filter{
		Page:     max(page, 1),
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Filters:  make(map[string]any),
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.OrderBy == "" {
		f.OrderBy = DefaultOrderBy
	}
	if f.OrderDir == "" {
		f.OrderDir = DefaultOrderDir
	}
	return f
}

// DefaultFilter is the first page, newest first
func DefaultFilter() Filter {
	return NewFilter(0, 0, "", "")
}

func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Paginated is one page of a list plus the size of the whole list
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	p := Paginated[T]{Items: items, Total: total, Page: page, PageSize: pageSize}
	if pageSize > 0 {
		p.TotalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return p
}
