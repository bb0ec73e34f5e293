package domain

import "math"

// PageRequest selects a zero-based page of a fixed size.
type PageRequest struct {
	Page int
	Size int
}

// Validate checks the request bounds. The offset must fit in an int.
func (p PageRequest) Validate() error {
	if p.Page < 0 || p.Size <= 0 || p.Page > math.MaxInt/p.Size {
		return ErrInvalidPage
	}
	return nil
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is one page of results together with the request that produced it
// and the total number of matching rows.
type Page[T any] struct {
	Content []T
	Request PageRequest
	Total   int64
}

// TotalPages returns the number of pages needed for Total rows.
func (p *Page[T]) TotalPages() int {
	if p.Request.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Request.Size) - 1) / int64(p.Request.Size))
}

// HasNext reports whether another page follows this one.
func (p *Page[T]) HasNext() bool {
	return p.Request.Page+1 < p.TotalPages()
}

// NewPage builds a page. count is skipped when the total follows from the
// fetched content: the first page was not filled, or a later page came
// back partially filled.
func NewPage[T any](content []T, req PageRequest, count func() (int64, error)) (*Page[T], error) {
	if content == nil {
		content = []T{}
	}

	offset := int64(req.Offset())
	n := int64(len(content))

	switch {
	case offset == 0 && n < int64(req.Size):
		return &Page[T]{Content: content, Request: req, Total: n}, nil
	case n != 0 && n < int64(req.Size):
		return &Page[T]{Content: content, Request: req, Total: offset + n}, nil
	}

	total, err := count()
	if err != nil {
		return nil, err
	}
	return &Page[T]{Content: content, Request: req, Total: total}, nil
}
