// Package ledger holds the revenue and cost ledgers. A ledger is an
// append/remove collection of dated entries: there is no update in place,
// a wrong entry is removed and added again.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	applog "erp/internal/log"
	"erp/internal/metrics"
	"erp/internal/storage"
)

// Entry is a persisted ledger row.
type Entry interface {
	EntryID() string
}

// Input is the raw user submission for a new entry of type E.
type Input[E Entry] interface {
	Validate() error
	Build(id string, createdAt time.Time) E
}

// Options overrides the ledger's clock and id source.
type Options struct {
	Now   func() time.Time
	NewID func() string
}

// Ledger keeps its entries in insertion order and writes every mutation
// through to its slot before returning.
type Ledger[E Entry] struct {
	mu      sync.RWMutex
	name    string
	slot    *storage.Slot[[]E]
	entries []E
	now     func() time.Time
	newID   func() string
}

// Open loads the ledger stored under name. A missing or unreadable slot
// starts the ledger empty.
func Open[E Entry](ctx context.Context, store storage.Store, name string, opts Options) *Ledger[E] {
	l := &Ledger[E]{
		name:  name,
		slot:  storage.NewSlot[[]E](store, name),
		now:   opts.Now,
		newID: opts.NewID,
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.newID == nil {
		l.newID = uuid.NewString
	}

	l.entries = dedupe(l.slot.Load(ctx, []E{}))
	metrics.LedgerEntries.WithLabelValues(name).Set(float64(len(l.entries)))

	slog.DebugContext(ctx, "Ledger opened",
		applog.FieldComponent, applog.ComponentLedger,
		applog.FieldLedger, name,
		"entries", len(l.entries))
	return l
}

// Name returns the slot the ledger persists to.
func (l *Ledger[E]) Name() string {
	return l.name
}

// Add validates in, assigns it an id and a creation time, appends it and
// persists the ledger. An invalid input leaves the ledger untouched and
// the validation error is returned.
func (l *Ledger[E]) Add(ctx context.Context, in Input[E]) (E, error) {
	var zero E
	if err := in.Validate(); err != nil {
		metrics.ValidationRejections.WithLabelValues(l.name).Inc()
		return zero, fmt.Errorf("add %s entry: %w", l.name, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := in.Build(l.uniqueID(), l.now())
	l.entries = append(l.entries, entry)
	l.persist(ctx, applog.OpAdd)
	return entry, nil
}

// Remove drops the entry with the given id. Unknown ids are ignored; the
// ledger is persisted either way. It reports whether an entry was removed.
func (l *Ledger[E]) Remove(ctx context.Context, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := len(l.entries)
	l.entries = slices.DeleteFunc(l.entries, func(e E) bool {
		return e.EntryID() == id
	})
	removed := len(l.entries) != before
	l.persist(ctx, applog.OpRemove)
	return removed
}

// List returns a copy of the entries in insertion order.
func (l *Ledger[E]) List() []E {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.entries)
}

// Len returns the number of entries.
func (l *Ledger[E]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Get returns the entry with the given id.
func (l *Ledger[E]) Get(id string) (E, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.entries {
		if e.EntryID() == id {
			return e, true
		}
	}
	var zero E
	return zero, false
}

// must hold l.mu
func (l *Ledger[E]) persist(ctx context.Context, op string) {
	l.slot.Save(ctx, l.entries)
	metrics.LedgerMutations.WithLabelValues(l.name, op).Inc()
	metrics.LedgerEntries.WithLabelValues(l.name).Set(float64(len(l.entries)))
}

// must hold l.mu
func (l *Ledger[E]) uniqueID() string {
	for {
		id := l.newID()
		if id == "" {
			continue
		}
		if !slices.ContainsFunc(l.entries, func(e E) bool { return e.EntryID() == id }) {
			return id
		}
	}
}

// dedupe keeps the first entry for every id, so a hand-edited slot cannot
// break id uniqueness.
func dedupe[E Entry](entries []E) []E {
	seen := make(map[string]struct{}, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if _, ok := seen[e.EntryID()]; ok {
			continue
		}
		seen[e.EntryID()] = struct{}{}
		out = append(out, e)
	}
	return out
}
