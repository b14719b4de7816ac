package pageplan

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// planString renders a plan as space-joined tokens for readable assertions.
func planString(p Plan) string {
	parts := make([]string, 0, len(p.Tokens))
	for _, tok := range p.Tokens {
		parts = append(parts, tok.String())
	}
	return strings.Join(parts, " ")
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, 1, opts.OnEachSide)
	assert.Equal(t, 1, opts.OnEnds)
	assert.True(t, opts.Ellipsis)
	assert.True(t, opts.FirstLast)
	assert.True(t, opts.PrevNext)
}

func TestBuildEmptyPlans(t *testing.T) {
	assert.Empty(t, Build(1, 1, DefaultOptions()).Tokens, "single page needs no pager")
	assert.Empty(t, Build(1, 0, DefaultOptions()).Tokens, "empty result set needs no pager")
	assert.Empty(t, Build(3, -1, DefaultOptions()).Tokens)
}

func TestBuildMidRange(t *testing.T) {
	plan := Build(5, 10, DefaultOptions())

	assert.Equal(t, "first prev 1 ... 4 5 6 ... 10 next last", planString(plan))

	// Exactly one token is flagged as the current page.
	var current []int
	for _, tok := range plan.Tokens {
		if tok.Current {
			current = append(current, tok.Page)
		}
	}
	assert.Equal(t, []int{5}, current)
}

func TestBuildSequences(t *testing.T) {
	wide := Options{OnEachSide: 2, OnEnds: 2, Ellipsis: true, FirstLast: true, PrevNext: true}

	tests := []struct {
		name    string
		current int
		total   int
		opts    Options
		want    string
	}{
		{
			name:    "first page",
			current: 1, total: 10, opts: DefaultOptions(),
			want: "1 2 ... 10 next last",
		},
		{
			name:    "last page",
			current: 10, total: 10, opts: DefaultOptions(),
			want: "first prev 1 ... 9 10",
		},
		{
			name:    "gap of one page is listed instead of elided",
			current: 4, total: 10, opts: DefaultOptions(),
			want: "first prev 1 2 3 4 5 ... 10 next last",
		},
		{
			name:    "trailing gap of one page",
			current: 7, total: 10, opts: DefaultOptions(),
			want: "first prev 1 ... 6 7 8 9 10 next last",
		},
		{
			name:    "small range lists everything",
			current: 2, total: 3, opts: DefaultOptions(),
			want: "first prev 1 2 3 next last",
		},
		{
			name:    "two pages",
			current: 1, total: 2, opts: DefaultOptions(),
			want: "1 2 next last",
		},
		{
			name:    "wide options swallow small gaps",
			current: 5, total: 10, opts: wide,
			want: "first prev 1 2 3 4 5 6 7 8 9 10 next last",
		},
		{
			name:    "wide options on long range",
			current: 10, total: 20, opts: wide,
			want: "first prev 1 2 ... 8 9 10 11 12 ... 19 20 next last",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, planString(Build(tt.current, tt.total, tt.opts)))
		})
	}
}

func TestBuildZeroOptionsAreRespected(t *testing.T) {
	// Zero and false are explicit choices, not placeholders for defaults.
	plan := Build(5, 10, Options{OnEachSide: 1})
	assert.Equal(t, "4 5 6", planString(plan))

	plan = Build(5, 10, Options{OnEachSide: 1, OnEnds: 0, Ellipsis: true})
	assert.Equal(t, "... 4 5 6 ...", planString(plan))
}

func TestBuildEllipsisDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.Ellipsis = false

	plan := Build(5, 10, opts)
	assert.Equal(t, "first prev 1 4 5 6 10 next last", planString(plan))
}

func TestBuildClampsCurrent(t *testing.T) {
	assert.Equal(t,
		planString(Build(10, 10, DefaultOptions())),
		planString(Build(99, 10, DefaultOptions())))
	assert.Equal(t,
		planString(Build(1, 10, DefaultOptions())),
		planString(Build(0, 10, DefaultOptions())))
}

func TestBuildInvariants(t *testing.T) {
	variants := []Options{
		DefaultOptions(),
		{OnEachSide: 2, OnEnds: 2, Ellipsis: true, FirstLast: true, PrevNext: true},
		{OnEachSide: 1},
		{OnEachSide: 3, OnEnds: 1, Ellipsis: true},
	}

	for vi, opts := range variants {
		for total := 2; total <= 15; total++ {
			for current := 1; current <= total; current++ {
				name := fmt.Sprintf("variant-%d/total-%d/current-%d", vi, total, current)
				t.Run(name, func(t *testing.T) {
					plan := Build(current, total, opts)

					// Numeric tokens strictly increase, so no duplicates.
					pages := plan.Pages()
					for i := 1; i < len(pages); i++ {
						require.Greater(t, pages[i], pages[i-1],
							"pages must strictly increase: %v", pages)
					}

					// At most one ellipsis per side.
					ellipses := 0
					for _, tok := range plan.Tokens {
						if tok.Kind == TokenEllipsis {
							ellipses++
						}
					}
					require.LessOrEqual(t, ellipses, 2)

					// The central window always lists the current page.
					require.Contains(t, pages, current)

					// Boundary controls are omitted at their boundary.
					for _, tok := range plan.Tokens {
						switch tok.Kind {
						case TokenFirst, TokenPrev:
							require.Greater(t, current, 1)
						case TokenNext, TokenLast:
							require.Less(t, current, total)
						}
					}
				})
			}
		}
	}
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, "7", Token{Kind: TokenPage, Page: 7}.String())
	assert.Equal(t, "...", Token{Kind: TokenEllipsis}.String())
	assert.Equal(t, "first", Token{Kind: TokenFirst, Page: 1}.String())
	assert.Equal(t, "last", Token{Kind: TokenLast, Page: 9}.String())
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total int
		limit int
		want  int
	}{
		{total: 0, limit: 10, want: 0},
		{total: 1, limit: 10, want: 1},
		{total: 10, limit: 10, want: 1},
		{total: 11, limit: 10, want: 2},
		{total: 95, limit: 10, want: 10},
		{total: 5, limit: 0, want: 0},
		{total: -3, limit: 10, want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PageCount(tt.total, tt.limit),
			"PageCount(%d, %d)", tt.total, tt.limit)
	}
}
