package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 15
	// MaxLimit caps how many rows any listing query can request.
	MaxLimit = 100
)

// Params holds page/limit pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage clamps the page number to 1 or above.
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// Offset converts normalized page/limit into a row offset.
func (p Params) Offset() int {
	return (NormalizePage(p.Page) - 1) * NormalizeLimit(p.Limit)
}

// PerPage returns the normalized page size.
func (p Params) PerPage() int {
	return NormalizeLimit(p.Limit)
}

// PageNumber returns the normalized page number.
func (p Params) PageNumber() int {
	return NormalizePage(p.Page)
}

// LastPage computes the final page number for a total row count.
func LastPage(total int64, limit int) int {
	per := int64(NormalizeLimit(limit))
	if total <= 0 {
		return 1
	}
	last := (total + per - 1) / per
	return int(last)
}
