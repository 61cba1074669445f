package request

// Booking history pages are capped lower than a generic listing; a page of
// bookings fans out into per-booking seat lookups.
const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=50"`
}

// Limit clamps the requested page size into [1, MaxPageSize], defaulting
// when the client sent nothing.
func (p PaginatedRequest) Limit() int {
	switch {
	case p.PerPage < 1:
		return DefaultPageSize
	case p.PerPage > MaxPageSize:
		return MaxPageSize
	default:
		return p.PerPage
	}
}

func (p PaginatedRequest) Offset() int {
	if p.Page < 2 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}
