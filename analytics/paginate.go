package analytics

// DefaultPageSize matches the history table's 10 rows per page.
const DefaultPageSize = 10

// maxVisiblePages is the width of the page-number control window.
const maxVisiblePages = 5

// PageState is the pagination cursor a view holds between requests.
type PageState struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
}

// Page is one visible window over a filtered, sorted sequence.
// StartIndex and EndIndex are 1-based inclusive display bounds
// ("Showing 11-20 of 43"); both are zero when the sequence is empty.
// CurrentPage is the clamped page actually rendered, 1 for an empty
// sequence, so renderers can draw controls without redoing the math.
type Page[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"current_page"`
	StartIndex  int `json:"start_index"`
	EndIndex    int `json:"end_index"`
	TotalPages  int `json:"total_pages"`
}

// TotalPages is ceil(totalRecords / pageSize), zero for an empty set.
func TotalPages(totalRecords, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return (totalRecords + pageSize - 1) / pageSize
}

// Paginate slices out the window described by st. A current page outside
// [1, TotalPages] is clamped rather than rejected.
func Paginate[T any](records []T, st PageState) Page[T] {
	size := st.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	total := TotalPages(len(records), size)
	if total == 0 {
		return Page[T]{Items: []T{}, CurrentPage: 1}
	}

	page := st.CurrentPage
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}

	start := (page - 1) * size
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	return Page[T]{
		Items:       records[start:end],
		CurrentPage: page,
		StartIndex:  start + 1,
		EndIndex:    end,
		TotalPages:  total,
	}
}

// GoToPage moves the cursor to page. Navigating outside [1, TotalPages]
// is a silent no-op: the state comes back unchanged, never an error.
func GoToPage(st PageState, totalRecords, page int) PageState {
	total := TotalPages(totalRecords, st.PageSize)
	if page < 1 || page > total {
		return st
	}
	st.CurrentPage = page
	return st
}

// PageWindow describes which page-number controls a renderer should
// show: at most five numbers centered on the current page, plus the
// first and last page (with ellipses) when they fall outside the window.
type PageWindow struct {
	Pages            []int `json:"pages"`
	ShowFirst        bool  `json:"show_first"`
	LeadingEllipsis  bool  `json:"leading_ellipsis"`
	ShowLast         bool  `json:"show_last"`
	TrailingEllipsis bool  `json:"trailing_ellipsis"`
}

// Window computes the visible page-number window for current of total
// pages, so renderers need none of the pagination math themselves.
func Window(current, total int) PageWindow {
	if total < 1 {
		return PageWindow{Pages: []int{}}
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	start := current - maxVisiblePages/2
	if start < 1 {
		start = 1
	}
	end := start + maxVisiblePages - 1
	if end > total {
		end = total
	}
	if end-start+1 < maxVisiblePages {
		start = end - maxVisiblePages + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return PageWindow{
		Pages:            pages,
		ShowFirst:        start > 1,
		LeadingEllipsis:  start > 2,
		ShowLast:         end < total,
		TrailingEllipsis: end < total-1,
	}
}
