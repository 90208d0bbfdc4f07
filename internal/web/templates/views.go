// Package templates holds the HTML views and HTMX fragments of the web UI.
// Components are written in components.templ; run `templ generate` after
// editing it.
package templates

import (
	"fmt"
	"strconv"
)

// ResultView is a rendered table: search results or basket contents.
type ResultView struct {
	Title   string
	Count   int
	Columns []string
	Rows    [][]string // at most the rows to display; Count is the full size
}

// BasketView reports the outcome of adding a query to the basket.
type BasketView struct {
	Matched int
	Added   int
	Size    int
	Cleared bool
}

// UploadView summarizes an ingestion pass.
type UploadView struct {
	Mode     string
	Rows     int
	Sources  []string
	Failures []string
	Category string
	Interest string
}

// FilterView carries the selector options for the search form.
type FilterView struct {
	Origins    []string
	Categories []string
}

func basketMessage(v BasketView) string {
	var action string
	switch {
	case v.Cleared:
		action = "Basket cleared."
	case v.Matched == 0:
		action = "No matches to add."
	default:
		action = fmt.Sprintf("Added %d of %d matches.", v.Added, v.Matched)
	}
	return action + " Basket holds " + countLabel(v.Size, "row", "rows") + "."
}

func countLabel(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
