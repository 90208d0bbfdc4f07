package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
)

// ============================================================================
// Source Adapter Benchmarks
// ============================================================================

// BenchmarkReadSource_CSV benchmarks delimited ingestion of a mid-size file.
func BenchmarkReadSource_CSV(b *testing.B) {
	src := Source{Name: "faculty.csv", Data: generateTestCSV(1000)}
	ctx := context.Background()

	b.SetBytes(int64(len(src.Data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ReadSource(ctx, src); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkReadSource_CSV_Large benchmarks ingestion of a large file.
func BenchmarkReadSource_CSV_Large(b *testing.B) {
	src := Source{Name: "faculty.csv", Data: generateTestCSV(50000)}
	ctx := context.Background()

	b.SetBytes(int64(len(src.Data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ReadSource(ctx, src); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkNewTextReader_CP1252 benchmarks the Windows-1252 fallback path.
func BenchmarkNewTextReader_CP1252(b *testing.B) {
	data := bytes.Repeat([]byte("Caf\xe9,R\xe9sum\xe9\n"), 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := NewTextReader(data); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Pipeline Benchmarks
// ============================================================================

// BenchmarkIngest_Multi benchmarks a full pass over several sources.
func BenchmarkIngest_Multi(b *testing.B) {
	sources := make([]Source, 5)
	for i := range sources {
		sources[i] = Source{Name: fmt.Sprintf("db%d.csv", i), Data: generateTestCSV(2000)}
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Ingest(ctx, sources, ModeMulti, nil); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEvaluate benchmarks a compound query over a consolidated table.
func BenchmarkEvaluate(b *testing.B) {
	ws := benchWorkspace(b, 10000)
	q := Query{Category: "Physics", Interest: "optics", General: "ada"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ws.Query(q)
	}
}

// BenchmarkEvaluate_GeneralOnly benchmarks the all-columns scan.
func BenchmarkEvaluate_GeneralOnly(b *testing.B) {
	ws := benchWorkspace(b, 10000)
	q := Query{General: "nomatch"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ws.Query(q)
	}
}

// ============================================================================
// Basket Benchmarks
// ============================================================================

// BenchmarkBasketAdd benchmarks adding a result set that is half duplicates.
func BenchmarkBasketAdd(b *testing.B) {
	ws := benchWorkspace(b, 5000)
	rs := ws.Query(Query{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		basket := NewBasket()
		basket.Add(rs)
		basket.Add(rs)
	}
}

// BenchmarkExport benchmarks workbook generation.
func BenchmarkExport(b *testing.B) {
	ws := benchWorkspace(b, 2000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Export(ws.Table, ModeMulti); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkBasketAddParallel benchmarks concurrent adds to one basket.
func BenchmarkBasketAddParallel(b *testing.B) {
	ws := benchWorkspace(b, 1000)
	rs := ws.Query(Query{})
	basket := NewBasket()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			basket.Add(rs)
		}
	})
}

// ============================================================================
// Helper Functions
// ============================================================================

// generateTestCSV generates faculty-style CSV data with the specified number of rows.
func generateTestCSV(rows int) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"Name", "Research\nField", "Research Interests", "Email", "Office"})

	fields := []string{"Physics", "Biology", "Chemistry", "History"}
	for i := 0; i < rows; i++ {
		w.Write([]string{
			fmt.Sprintf("Ada %d", i),
			fields[i%len(fields)],
			"quantum optics, machine learning",
			fmt.Sprintf("ada%d@example.edu", i),
			"",
		})
	}
	w.Flush()

	return buf.Bytes()
}

func benchWorkspace(b *testing.B, rows int) *Workspace {
	b.Helper()
	ws, err := Ingest(context.Background(), []Source{
		{Name: "a.csv", Data: generateTestCSV(rows / 2)},
		{Name: "b.csv", Data: generateTestCSV(rows - rows/2)},
	}, ModeMulti, nil)
	if err != nil {
		b.Fatal(err)
	}
	return ws
}
