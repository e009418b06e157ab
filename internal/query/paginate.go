package query

// PageRef points at an adjacent page in pagination metadata.
type PageRef struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

// Pagination carries the next/prev window references. Absent sides are
// omitted from JSON entirely, never serialized as null.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Paginate computes the [skip, skip+limit) window for the requested page
// and the next/prev metadata against the total match count.
func Paginate(total, page, limit int64) (skip int64, p Pagination) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	skip = (page - 1) * limit
	end := page * limit

	if end < total {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if skip > 0 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return skip, p
}
