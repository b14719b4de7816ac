package pageplan

import (
	"strconv"
)

// TokenKind discriminates pager tokens.
type TokenKind string

const (
	// TokenPage is a numeric page button.
	TokenPage TokenKind = "page"

	// TokenEllipsis marks a gap of unlisted pages.
	TokenEllipsis TokenKind = "ellipsis"

	// TokenFirst jumps to page 1.
	TokenFirst TokenKind = "first"

	// TokenPrev jumps to the previous page.
	TokenPrev TokenKind = "prev"

	// TokenNext jumps to the next page.
	TokenNext TokenKind = "next"

	// TokenLast jumps to the last page.
	TokenLast TokenKind = "last"
)

// Token is one pager control unit.
type Token struct {
	Kind TokenKind `json:"kind"`

	// Page is the navigation target: the page itself for page tokens, the
	// jump target for controls, zero for ellipsis.
	Page int `json:"page,omitempty"`

	// Current marks the page token for the page being viewed.
	Current bool `json:"current,omitempty"`
}

// String renders the token for logs and plain-text pagers.
func (t Token) String() string {
	switch t.Kind {
	case TokenPage:
		return strconv.Itoa(t.Page)
	case TokenEllipsis:
		return "..."
	default:
		return string(t.Kind)
	}
}

// Plan is the ordered token sequence for one pager state.
type Plan struct {
	Tokens []Token `json:"tokens"`
}

// Pages returns the numeric pages in plan order (for tests and renderers).
func (p Plan) Pages() []int {
	var pages []int
	for _, tok := range p.Tokens {
		if tok.Kind == TokenPage {
			pages = append(pages, tok.Page)
		}
	}
	return pages
}

// Options controls the pager shape. The zero value is the minimal pager: no
// edge pages, no ellipsis, no controls, just the current window. Zero and
// false are explicit choices here, never coerced back to defaults.
type Options struct {
	// OnEachSide is the number of pages shown on each side of the current
	// page.
	OnEachSide int

	// OnEnds is the number of pages shown at each end of the full range.
	OnEnds int

	// Ellipsis emits a gap marker between the edges and the central window.
	Ellipsis bool

	// FirstLast enables the first/last jump controls.
	FirstLast bool

	// PrevNext enables the prev/next step controls.
	PrevNext bool
}

// DefaultOptions returns the standard pager shape.
func DefaultOptions() Options {
	return Options{
		OnEachSide: 1,
		OnEnds:     1,
		Ellipsis:   true,
		FirstLast:  true,
		PrevNext:   true,
	}
}

// Build computes the pager token sequence for one position. A total of one
// page or fewer yields an empty plan; current is clamped into [1, total].
//
// The central window [current-OnEachSide, current+OnEachSide] is always
// listed. On each side, the OnEnds edge pages are listed, then the gap to
// the window collapses into one ellipsis when it spans two or more unlisted
// pages; a gap of exactly one page lists that page instead. Controls for a
// boundary direction are omitted at that boundary.
func Build(current, total int, opts Options) Plan {
	if total <= 1 {
		return Plan{}
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	windowStart := max(1, current-opts.OnEachSide)
	windowEnd := min(total, current+opts.OnEachSide)

	var tokens []Token

	if opts.FirstLast && current > 1 {
		tokens = append(tokens, Token{Kind: TokenFirst, Page: 1})
	}
	if opts.PrevNext && current > 1 {
		tokens = append(tokens, Token{Kind: TokenPrev, Page: current - 1})
	}

	// Leading edge. A window starting at 1 or 2 absorbs page 1 directly.
	if windowStart <= 2 {
		windowStart = 1
	} else {
		leadEnd := min(opts.OnEnds, windowStart-1)
		for p := 1; p <= leadEnd; p++ {
			tokens = append(tokens, pageToken(p, current))
		}
		switch gap := windowStart - leadEnd - 1; {
		case gap >= 2:
			if opts.Ellipsis {
				tokens = append(tokens, Token{Kind: TokenEllipsis})
			}
		case gap == 1:
			tokens = append(tokens, pageToken(leadEnd+1, current))
		}
	}

	// Trailing edge, symmetric. A window ending at total or total-1 absorbs
	// the last page directly.
	trailStart := 0
	trailGapPage := 0
	trailEllipsis := false
	if windowEnd >= total-1 {
		windowEnd = total
	} else {
		trailStart = max(total-opts.OnEnds+1, windowEnd+1)
		switch gap := trailStart - windowEnd - 1; {
		case gap >= 2:
			trailEllipsis = true
		case gap == 1:
			trailGapPage = windowEnd + 1
		}
	}

	for p := windowStart; p <= windowEnd; p++ {
		tokens = append(tokens, pageToken(p, current))
	}

	if trailGapPage > 0 {
		tokens = append(tokens, pageToken(trailGapPage, current))
	}
	if trailEllipsis && opts.Ellipsis {
		tokens = append(tokens, Token{Kind: TokenEllipsis})
	}
	for p := trailStart; trailStart > 0 && p <= total; p++ {
		tokens = append(tokens, pageToken(p, current))
	}

	if opts.PrevNext && current < total {
		tokens = append(tokens, Token{Kind: TokenNext, Page: current + 1})
	}
	if opts.FirstLast && current < total {
		tokens = append(tokens, Token{Kind: TokenLast, Page: total})
	}

	return Plan{Tokens: tokens}
}

// PageCount returns the number of pages totalResults spans at the given
// limit. Empty sets and non-positive limits yield zero pages.
func PageCount(totalResults, limit int) int {
	if totalResults <= 0 || limit <= 0 {
		return 0
	}
	return (totalResults + limit - 1) / limit
}

func pageToken(page, current int) Token {
	return Token{Kind: TokenPage, Page: page, Current: page == current}
}
