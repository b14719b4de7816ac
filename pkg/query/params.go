package query

// Default pagination values applied when Params leaves them zero.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Control parameter names that never participate in filtering.
var reservedParams = map[string]struct{}{
	"page":     {},
	"limit":    {},
	"paginate": {},
	"source":   {},
}

// Reserved reports whether name is a control parameter rather than a
// filter key.
func Reserved(name string) bool {
	_, ok := reservedParams[name]
	return ok
}

// Params control filtering and pagination for a single query.
type Params struct {
	// Filters maps column names to case-insensitive substring patterns.
	// A record matches when every pattern occurs in the stringified
	// value of its column. Reserved names are skipped.
	Filters map[string]string

	// Page is the 1-based page number. Zero or negative selects
	// DefaultPage.
	Page int

	// Limit is the page size. Zero or negative selects DefaultLimit.
	Limit int

	// Paginate enables slicing. When false the full filtered set is
	// returned and Page/Limit are ignored.
	Paginate bool
}

// Normalize returns a copy with default page and limit filled in.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	return p
}
