package documents

import (
	"math"
	"strconv"
)

const (
	// DefaultPage is used when no page parameter is supplied.
	DefaultPage = 1
	// DefaultPerPage is used when no per_page parameter is supplied.
	DefaultPerPage = 20
	// MaxPerPage caps the page size.
	MaxPerPage = 100
)

// PageRequest is a validated pagination window. Non-numeric and non-positive
// inputs clamp to the defaults; per_page caps at MaxPerPage. The effective
// values are echoed back in listing responses.
type PageRequest struct {
	Page    int
	PerPage int
}

// ParsePageRequest builds a PageRequest from raw query values.
func ParsePageRequest(pageRaw, perPageRaw string) PageRequest {
	page := DefaultPage
	if pageRaw != "" {
		if parsed, err := strconv.Atoi(pageRaw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	perPage := DefaultPerPage
	if perPageRaw != "" {
		if parsed, err := strconv.Atoi(perPageRaw); err == nil && parsed > 0 {
			perPage = parsed
		}
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return PageRequest{Page: page, PerPage: perPage}
}

// Offset returns the number of items preceding the requested window.
// A window whose offset would overflow is past the end of any listing,
// so it saturates instead of wrapping negative.
func (p PageRequest) Offset() int {
	if p.Page <= 1 || p.PerPage <= 0 {
		return 0
	}
	preceding := p.Page - 1
	if preceding > math.MaxInt/p.PerPage {
		return math.MaxInt
	}
	return preceding * p.PerPage
}
