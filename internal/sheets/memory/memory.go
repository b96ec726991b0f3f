// Package memory is an in-process sheets.Exporter that keeps the last
// exported tables. It backs tests and dry runs.
package memory

import (
	"context"
	"sync"

	ports "erp/internal/sheets"
)

type Exporter struct {
	mu      sync.Mutex
	tables  map[string][][]any
	exports int
}

var _ ports.Exporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{tables: make(map[string][][]any)}
}

func (e *Exporter) Export(ctx context.Context, s ports.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range s.Tables() {
		e.tables[t.Tab] = t.Rows
	}
	e.exports++
	return nil
}

// Rows returns the last rows written to tab.
func (e *Exporter) Rows(tab string) [][]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tables[tab]
}

// Exports counts successful exports.
func (e *Exporter) Exports() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exports
}
