package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestErrorAlert_Escapes(t *testing.T) {
	out := render(t, ErrorAlert("<b>bad</b>", "retry", "FILE001"))

	assert.Contains(t, out, "&lt;b&gt;bad&lt;/b&gt;")
	assert.Contains(t, out, "retry")
	assert.Contains(t, out, "<code>FILE001</code>")
}

func TestErrorAlert_NoAction(t *testing.T) {
	out := render(t, ErrorAlert("oops", "", ""))

	assert.NotContains(t, out, "alert-action")
	assert.NotContains(t, out, "<code>")
}

func TestResultTable(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out := render(t, ResultTable(ResultView{Columns: []string{"Name"}}))
		assert.Contains(t, out, "0 matches")
		assert.NotContains(t, out, "<table>")
	})

	t.Run("rows", func(t *testing.T) {
		out := render(t, ResultTable(ResultView{
			Count:   1,
			Columns: []string{"Name", "Field"},
			Rows:    [][]string{{"Ada", "A&B"}},
		}))
		assert.Contains(t, out, "1 match<")
		assert.Contains(t, out, "<th>Field</th>")
		assert.Contains(t, out, "<td>A&amp;B</td>")
		assert.NotContains(t, out, "truncated")
	})

	t.Run("truncated", func(t *testing.T) {
		out := render(t, ResultTable(ResultView{
			Count:   3,
			Columns: []string{"Name"},
			Rows:    [][]string{{"a"}},
		}))
		assert.Contains(t, out, "Showing first 1 of 3 rows.")
	})
}

func TestBasketSummary(t *testing.T) {
	assert.Contains(t, render(t, BasketSummary(BasketView{})), "No matches to add. Basket holds 0 rows.")
	assert.Contains(t, render(t, BasketSummary(BasketView{Cleared: true})), "Basket cleared. Basket holds 0 rows.")
	assert.Contains(t, render(t, BasketSummary(BasketView{Matched: 3, Added: 2, Size: 1})), "Added 2 of 3 matches. Basket holds 1 row.")
}

func TestUploadSummary(t *testing.T) {
	out := render(t, UploadSummary(UploadView{
		Mode:     "multi",
		Rows:     4,
		Sources:  []string{"a.csv", "b.xlsx"},
		Failures: []string{"Could not read c.pdf: broken"},
		Category: "Research Field",
	}))

	assert.Contains(t, out, "Loaded 4 rows from 2 files (multi mode).")
	assert.Contains(t, out, "<code>Research Field</code>")
	assert.Contains(t, out, "<code>none</code>")
	assert.Contains(t, out, "<li>Could not read c.pdf: broken</li>")
}

func TestFilters(t *testing.T) {
	single := render(t, Filters(FilterView{Origins: []string{"All Databases"}, Categories: []string{"All Categories", "Physics"}}, false))
	assert.NotContains(t, single, `name="origin"`)
	assert.Contains(t, single, `<option value="Physics">Physics</option>`)

	multi := render(t, Filters(FilterView{Origins: []string{"All Databases", "a.csv"}, Categories: []string{"All Categories"}}, true))
	assert.Contains(t, multi, `hx-swap-oob="true"`)
	assert.Contains(t, multi, `name="origin"`)
}

func TestIndex(t *testing.T) {
	out := render(t, Index("PI <Search>"))

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>PI &lt;Search&gt;</title>")
	assert.Contains(t, out, `hx-post="/api/sources"`)
	assert.Contains(t, out, `name="q"`)
	assert.Contains(t, out, `<div id="filters"></div>`)
}

func TestComponents_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := ResultTable(ResultView{Count: 1, Columns: []string{"Name"}, Rows: [][]string{{"Ada"}}}).Render(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}
