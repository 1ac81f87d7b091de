package services

import "math"

// Page selects a window of a listing. Number starts at 1.
type Page struct {
	Number int
	Limit  int
}

// NewPage clamps the requested page to sane values.
func NewPage(number, limit, defaultLimit, maxLimit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	// keeps Offset and HasNext from overflowing on a huge ?page=
	if limit > 0 && number > math.MaxInt32/limit {
		number = math.MaxInt32 / limit
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// HasNext reports whether items follow this page in a listing of total items.
func (p Page) HasNext(total int64) bool {
	return int64(p.Offset()+p.Limit) < total
}
