package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ReadFunc converts one source's raw bytes into an unnormalized Table.
type ReadFunc func(ctx context.Context, src Source) (Table, error)

// ReaderDefinition contains everything needed to read one source format.
type ReaderDefinition struct {
	Format     Format
	Label      string   // Display name: "Delimited text"
	Extensions []string // Lowercase extensions including the dot: ".csv"
	Fallback   bool     // Used for any extension no other reader claims
	Read       ReadFunc
}

var (
	readers   = make(map[Format]ReaderDefinition)
	readersMu sync.RWMutex
)

// RegisterReader adds a reader to the registry.
// Panics if a reader for the same format is already registered.
func RegisterReader(def ReaderDefinition) {
	readersMu.Lock()
	defer readersMu.Unlock()

	if _, exists := readers[def.Format]; exists {
		panic(fmt.Sprintf("reader already registered: %s", def.Format))
	}
	for i, ext := range def.Extensions {
		def.Extensions[i] = strings.ToLower(ext)
	}

	readers[def.Format] = def
}

// ReaderFor returns the reader registered for a format.
// Returns false if not found.
func ReaderFor(format Format) (ReaderDefinition, bool) {
	readersMu.RLock()
	defer readersMu.RUnlock()

	def, ok := readers[format]
	return def, ok
}

// Readers returns all registered readers sorted by format.
func Readers() []ReaderDefinition {
	readersMu.RLock()
	defer readersMu.RUnlock()

	result := make([]ReaderDefinition, 0, len(readers))
	for _, def := range readers {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Format < result[j].Format
	})

	return result
}

// formatForExtension looks up the reader claiming ext, falling back to the
// reader marked Fallback.
func formatForExtension(ext string) Format {
	readersMu.RLock()
	defer readersMu.RUnlock()

	var fallback Format
	for _, def := range readers {
		for _, e := range def.Extensions {
			if e == ext {
				return def.Format
			}
		}
		if def.Fallback {
			fallback = def.Format
		}
	}
	return fallback
}
