package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Name", "Name"},
		{"  Name  ", "Name"},
		{"Research\nField", "Research Field"},
		{"Research\r\n\r\nField", "Research Field"},
		{"A\n\nB", "A B"},
		{"\nInterest\n", "Interest"},
		{"a  b", "a  b"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHeader(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	raw := table([]string{" Name ", "Research\nField", "Research Field"},
		[]string{"Ada", "Skin", "x"},
		[]string{"", "", ""},
		[]string{"  ", "", ""},
		[]string{"Bob", "", ""},
	)

	t.Run("single source", func(t *testing.T) {
		got := Normalize(raw, "")

		assert.Equal(t, []string{"Name", "Research Field", "Research Field.1"}, got.Columns)
		require.Equal(t, 2, got.Len())
		assert.Equal(t, "Ada", got.Cell(0, 0).Value)
		assert.Equal(t, "Bob", got.Cell(1, 0).Value)
		assert.False(t, got.HasColumn(OriginColumn))
	})

	t.Run("origin stamped", func(t *testing.T) {
		got := Normalize(raw, "faculty.csv")

		require.True(t, got.HasColumn(OriginColumn))
		assert.Equal(t, OriginColumn, got.Columns[len(got.Columns)-1])
		col := got.Index(OriginColumn)
		for i := range got.Rows {
			assert.Equal(t, "faculty.csv", got.Cell(i, col).Value)
		}
		assert.Equal(t, 2, got.Len(), "blank rows are dropped before stamping")
	})

	t.Run("input untouched", func(t *testing.T) {
		before := raw.Clone()
		_ = Normalize(raw, "x")
		assert.Equal(t, before, raw)
	})

	t.Run("existing origin column overwritten", func(t *testing.T) {
		in := table([]string{"a", OriginColumn}, []string{"1", "old"})
		got := Normalize(in, "new")
		assert.Equal(t, []string{"a", OriginColumn}, got.Columns)
		assert.Equal(t, "new", got.Cell(0, 1).Value)
	})
}
