package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func facultyTable() Table {
	return table([]string{"Name", "Field", "Interest", OriginColumn},
		[]string{"Ada", "Skin", "DNA repair", "a.csv"},
		[]string{"Bob", "Skin", "Hair growth", "a.csv"},
		[]string{"Cy", "Bone", "dna methylation", "b.csv"},
		[]string{"Di", "", "", "b.csv"},
	)
}

func names(t Table) []string {
	var out []string
	for i := range t.Rows {
		out = append(out, t.Cell(i, 0).Value)
	}
	return out
}

func TestEvaluate(t *testing.T) {
	tbl := facultyTable()
	roles := Roles{Category: "Field", Interest: "Interest"}

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"empty query keeps everything", Query{}, []string{"Ada", "Bob", "Cy", "Di"}},
		{"sentinels keep everything", Query{Origin: AllOrigins, Category: AllCategories}, []string{"Ada", "Bob", "Cy", "Di"}},
		{"category exact", Query{Category: "Skin"}, []string{"Ada", "Bob"}},
		{"category is case sensitive", Query{Category: "skin"}, nil},
		{"category and interest conjunction", Query{Category: "Skin", Interest: "DNA"}, []string{"Ada"}},
		{"interest case insensitive", Query{Interest: "dna"}, []string{"Ada", "Cy"}},
		{"origin", Query{Origin: "b.csv"}, []string{"Cy", "Di"}},
		{"origin and interest", Query{Origin: "b.csv", Interest: "DNA"}, []string{"Cy"}},
		{"general searches every column", Query{General: "BONE"}, []string{"Cy"}},
		{"general matches origin tag", Query{General: "a.csv"}, []string{"Ada", "Bob"}},
		{"no regex", Query{General: "D.A"}, nil},
		{"no matches is empty", Query{Interest: "quantum"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tbl, roles, tt.query)
			assert.Equal(t, tbl.Columns, got.Columns)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestEvaluate_InterestFallback(t *testing.T) {
	tbl := table([]string{"Name", "Research Field", "Notes"},
		[]string{"Ada", "Skin DNA", "likes cats"},
		[]string{"Bob", "Hair", "DNA enthusiast"},
	)

	t.Run("category column stands in for interest", func(t *testing.T) {
		got := Evaluate(tbl, Roles{Category: "Research Field"}, Query{Interest: "dna"})
		assert.Equal(t, []string{"Ada"}, names(got))
	})

	t.Run("every column when no roles", func(t *testing.T) {
		got := Evaluate(tbl, Roles{}, Query{Interest: "dna"})
		assert.Equal(t, []string{"Ada", "Bob"}, names(got))
	})

	t.Run("category selection ignored without a category column", func(t *testing.T) {
		got := Evaluate(tbl, Roles{}, Query{Category: "Skin"})
		assert.Equal(t, []string{"Ada", "Bob"}, names(got))
	})
}

func TestEvaluate_AbsentNeverMatches(t *testing.T) {
	tbl := facultyTable()
	roles := Roles{Category: "Field", Interest: "Interest"}

	got := Evaluate(tbl, roles, Query{Category: ""})
	assert.Len(t, got.Rows, 4)

	got = Evaluate(tbl, roles, Query{Interest: " "})
	assert.Equal(t, []string{"Ada", "Bob", "Cy"}, names(got), "Di has no interest value")
}

func TestEvaluate_OriginIgnoredInSingleSource(t *testing.T) {
	tbl := table([]string{"Name"}, []string{"Ada"})
	got := Evaluate(tbl, Roles{}, Query{Origin: "a.csv"})
	assert.Equal(t, []string{"Ada"}, names(got))
}

func TestEvaluate_ResultIsIndependent(t *testing.T) {
	tbl := facultyTable()
	got := Evaluate(tbl, Roles{}, Query{})
	got.Rows[0][0] = TextCell("changed")
	assert.Equal(t, "Ada", tbl.Cell(0, 0).Value)
}

func TestCategoryOptions(t *testing.T) {
	tbl := facultyTable()

	assert.Equal(t, []string{AllCategories, "Bone", "Skin"}, CategoryOptions(tbl, Roles{Category: "Field"}))
	assert.Equal(t, []string{AllCategories}, CategoryOptions(tbl, Roles{}))
}

func TestOriginOptions(t *testing.T) {
	assert.Equal(t, []string{AllOrigins, "a.csv", "b.csv"}, OriginOptions(facultyTable()))
	assert.Equal(t, []string{AllOrigins}, OriginOptions(table([]string{"Name"}, []string{"Ada"})))
}
