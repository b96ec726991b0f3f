// Package services wires the ledgers, the reports and the quote drafts
// into the operations exposed by the HTTP dashboard and the CLI.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"erp/internal/cache"
	"erp/internal/core"
	"erp/internal/ledger"
	applog "erp/internal/log"
	"erp/internal/metrics"
	"erp/internal/quote"
	"erp/internal/report"
	"erp/internal/sheets"
	"erp/internal/storage"
)

// ErrExportDisabled is returned by Export when no spreadsheet is configured.
var ErrExportDisabled = errors.New("spreadsheet export not configured")

// Options configures a Dashboard. Zero values fall back to sensible
// defaults.
type Options struct {
	Company       string
	SessionTTL    time.Duration
	MaxSessions   int
	Deliverer     quote.Deliverer
	Exporter      sheets.Exporter
	Logger        *slog.Logger
	LedgerOptions ledger.Options
	QuoteIDs      func() string
	Now           func() time.Time
}

// Dashboard owns both ledgers and the quote drafts of every open session.
type Dashboard struct {
	revenues  *ledger.Revenues
	costs     *ledger.Costs
	sessions  *cache.LRUCache[*quote.Builder]
	quoteOpts quote.Options
	deliverer quote.Deliverer
	exporter  sheets.Exporter
	logger    *slog.Logger
}

// NewDashboard loads both ledgers from store.
func NewDashboard(ctx context.Context, store storage.Store, opts Options) *Dashboard {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 100
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	d := &Dashboard{
		revenues: ledger.OpenRevenues(ctx, store, opts.LedgerOptions),
		costs:    ledger.OpenCosts(ctx, store, opts.LedgerOptions),
		sessions: cache.NewLRUCache[*quote.Builder](opts.MaxSessions, opts.SessionTTL),
		quoteOpts: quote.Options{
			Company: opts.Company,
			Now:     opts.Now,
			NewID:   opts.QuoteIDs,
		},
		deliverer: opts.Deliverer,
		exporter:  opts.Exporter,
		logger:    opts.Logger.With(applog.FieldComponent, applog.ComponentApp),
	}
	d.sessions.OnEvict(func(key string, b *quote.Builder) {
		metrics.QuoteSessions.Dec()
		d.logger.Debug("Quote draft discarded",
			applog.FieldSession, key,
			applog.FieldQuoteItems, len(b.Items()))
	})
	return d
}

// Sessions exposes the draft cache so a cache.Manager can expire it.
func (d *Dashboard) Sessions() cache.Cleaner {
	return d.sessions
}

func (d *Dashboard) Revenues() []core.RevenueEntry {
	return d.revenues.List()
}

func (d *Dashboard) Costs() []core.CostEntry {
	return d.costs.List()
}

func (d *Dashboard) AddRevenue(ctx context.Context, in core.RevenueInput) (core.RevenueEntry, error) {
	e, err := d.revenues.Add(ctx, in)
	if err != nil {
		d.rejected(ctx, ledger.RevenuesKey, err)
		return e, err
	}
	d.recorded(ctx, ledger.RevenuesKey, e.ID, e.Date, e.Amount.String())
	return e, nil
}

func (d *Dashboard) AddCost(ctx context.Context, in core.CostInput) (core.CostEntry, error) {
	e, err := d.costs.Add(ctx, in)
	if err != nil {
		d.rejected(ctx, ledger.CostsKey, err)
		return e, err
	}
	d.recorded(ctx, ledger.CostsKey, e.ID, e.Date, e.Amount.String())
	return e, nil
}

func (d *Dashboard) RemoveRevenue(ctx context.Context, id string) bool {
	return d.remove(ctx, ledger.RevenuesKey, id, d.revenues.Remove)
}

func (d *Dashboard) RemoveCost(ctx context.Context, id string) bool {
	return d.remove(ctx, ledger.CostsKey, id, d.costs.Remove)
}

func (d *Dashboard) remove(ctx context.Context, name, id string, fn func(context.Context, string) bool) bool {
	removed := fn(ctx, id)
	d.logger.InfoContext(ctx, "Ledger entry removed",
		applog.FieldLedger, name,
		applog.FieldOperation, applog.OpRemove,
		applog.FieldEntryID, id,
		"found", removed)
	return removed
}

// Summary recomputes every dashboard figure from the current ledgers.
func (d *Dashboard) Summary() report.Summary {
	return report.Summarize(d.revenues.List(), d.costs.List())
}

// Quote returns the draft of a session, starting an empty one if needed.
func (d *Dashboard) Quote(session string) *quote.Builder {
	b, existed := d.sessions.GetOrSet(session, func() *quote.Builder {
		return quote.NewBuilder(d.quoteOpts)
	})
	if !existed {
		metrics.QuoteSessions.Inc()
	}
	return b
}

// DiscardQuote drops a session's draft.
func (d *Dashboard) DiscardQuote(session string) {
	if _, ok := d.sessions.Get(session); ok {
		d.sessions.Delete(session)
		metrics.QuoteSessions.Dec()
	}
}

// GenerateQuote renders the session's draft and hands the document to the
// configured delivery targets. Delivery failures are logged and do not
// prevent the document from being returned; the draft is kept.
func (d *Dashboard) GenerateQuote(ctx context.Context, session string) (quote.Document, error) {
	return d.generate(ctx, d.Quote(session))
}

func (d *Dashboard) generate(ctx context.Context, b *quote.Builder) (quote.Document, error) {
	doc, err := b.Generate()
	if err != nil {
		metrics.ValidationRejections.WithLabelValues("quote").Inc()
		return quote.Document{}, err
	}
	metrics.QuotesGenerated.Inc()

	d.logger.InfoContext(ctx, "Quote generated",
		applog.FieldOperation, applog.OpGenerate,
		applog.FieldQuoteFile, doc.Filename,
		applog.FieldQuoteItems, len(b.Items()),
		applog.FieldAmount, doc.Total)

	if d.deliverer != nil {
		if err := d.deliverer.Deliver(ctx, doc); err != nil {
			d.logger.WarnContext(ctx, "Quote delivery incomplete",
				applog.FieldOperation, applog.OpDeliver,
				applog.FieldQuoteFile, doc.Filename,
				applog.FieldError, err)
		}
	}
	return doc, nil
}

// NewQuote returns a standalone draft using the dashboard's quote settings.
func (d *Dashboard) NewQuote() *quote.Builder {
	return quote.NewBuilder(d.quoteOpts)
}

// Generate renders a standalone draft and delivers it like GenerateQuote.
func (d *Dashboard) Generate(ctx context.Context, b *quote.Builder) (quote.Document, error) {
	return d.generate(ctx, b)
}

// ExportEnabled reports whether a spreadsheet exporter is configured.
func (d *Dashboard) ExportEnabled() bool {
	return d.exporter != nil
}

// Export writes both ledgers and the monthly breakdown to the spreadsheet.
func (d *Dashboard) Export(ctx context.Context) error {
	if d.exporter == nil {
		return ErrExportDisabled
	}
	snap := sheets.Snapshot{Revenues: d.revenues.List(), Costs: d.costs.List()}
	if err := d.exporter.Export(ctx, snap); err != nil {
		d.logger.ErrorContext(ctx, "Spreadsheet export failed",
			applog.FieldOperation, applog.OpExport,
			applog.FieldError, err)
		return fmt.Errorf("export ledgers: %w", err)
	}
	return nil
}

func (d *Dashboard) recorded(ctx context.Context, name, id, date, amount string) {
	fields := applog.NewFields().
		WithOperation(applog.OpAdd).
		WithEntry(name, id, date, amount)
	d.logger.InfoContext(ctx, "Ledger entry recorded", fields.ToSlice()...)
}

func (d *Dashboard) rejected(ctx context.Context, name string, err error) {
	fields := applog.NewFields().
		WithOperation(applog.OpAdd).
		WithErrorType(applog.ErrorTypeValidation).
		WithError(err)
	fields[applog.FieldLedger] = name
	d.logger.InfoContext(ctx, "Ledger entry rejected", fields.ToSlice()...)
}
