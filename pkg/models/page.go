package models

// DefaultPageLimit is applied when a paginated read supplies no limit.
const DefaultPageLimit = 10

// Page describes keyset pagination: records strictly below OffsetID,
// ordered id descending, at most Limit rows.
type Page struct {
	OffsetID *int64
	Limit    int
}

// Normalize fills in the default limit and clamps nonsense values.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	return p
}
