// Package pageplan computes pager control sequences for a table UI.
//
// Given the current page, the total page count, and display options, Build
// returns the ordered token sequence a renderer turns into buttons: page
// numbers around the current page, edge pages, at most one ellipsis per
// side, and first/prev/next/last controls that disappear at their boundary.
//
// Example usage:
//
//	plan := pageplan.Build(5, 10, pageplan.DefaultOptions())
//	for _, tok := range plan.Tokens {
//		fmt.Print(tok, " ")
//	}
//	// first prev 1 ... 4 5 6 ... 10 next last
//
// Option zero values are respected as explicit choices: OnEnds 0 emits no
// edge pages and Ellipsis false suppresses gap markers. Defaults come only
// from DefaultOptions.
package pageplan
