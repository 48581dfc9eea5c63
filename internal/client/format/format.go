// Package format turns backend values into terminal text: star ratings,
// prices, page counters and sanitised user-written text.
package format

import (
	"fmt"
	"html"
	"math"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

const maxStars = 5

// Stars renders floor(rating) filled stars followed by empty ones, five in
// total. Ratings outside [0,5] are clamped.
func Stars(rating float64) string {
	switch {
	case math.IsNaN(rating) || rating < 0:
		rating = 0
	case rating > maxStars:
		rating = maxStars
	}
	full := int(math.Floor(rating))
	return strings.Repeat("★", full) + strings.Repeat("☆", maxStars-full)
}

func Currency(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// PageOf renders "page 2 of 3"; an empty listing reads "page 1 of 1".
func PageOf(page, total int) string {
	if total < 1 {
		total = 1
	}
	return fmt.Sprintf("page %d of %d", page, total)
}

// TotalPages is ceil(total/perPage) for endpoints that return an item count
// instead of a page count.
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

var strict = bluemonday.StrictPolicy()

// Plain strips markup from user-written text (reviews, descriptions) and
// drops control characters so it cannot drive the terminal.
func Plain(s string) string {
	s = html.UnescapeString(strict.Sanitize(s))
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
