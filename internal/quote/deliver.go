package quote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	applog "erp/internal/log"
	"erp/internal/metrics"
)

// Deliverer hands a generated document to its destination.
type Deliverer interface {
	Deliver(ctx context.Context, doc Document) error
}

// DeliverFunc adapts a function to Deliverer.
type DeliverFunc func(ctx context.Context, doc Document) error

func (f DeliverFunc) Deliver(ctx context.Context, doc Document) error {
	return f(ctx, doc)
}

// DirDeliverer writes documents into a directory, replacing any file of
// the same name.
type DirDeliverer struct {
	Dir string
}

func (d DirDeliverer) Deliver(ctx context.Context, doc Document) error {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return fmt.Errorf("create quote directory: %w", err)
	}
	path := filepath.Join(d.Dir, filepath.Base(doc.Filename))
	if err := os.WriteFile(path, doc.Body, 0644); err != nil {
		return fmt.Errorf("write quote %s: %w", doc.Filename, err)
	}
	slog.InfoContext(ctx, "Quote written",
		applog.FieldComponent, applog.ComponentQuote,
		applog.FieldQuoteFile, path)
	return nil
}

// Target names a deliverer for logs and metrics.
type Target struct {
	Name      string
	Deliverer Deliverer
}

// MultiDeliverer delivers to every target in order. All targets are tried;
// the joined error of the failed ones is returned.
type MultiDeliverer []Target

func (m MultiDeliverer) Deliver(ctx context.Context, doc Document) error {
	var errs []error
	for _, t := range m {
		if t.Deliverer == nil {
			continue
		}
		if err := t.Deliverer.Deliver(ctx, doc); err != nil {
			metrics.QuoteDeliveryFailures.WithLabelValues(t.Name).Inc()
			slog.ErrorContext(ctx, "Quote delivery failed",
				applog.FieldComponent, applog.ComponentQuote,
				applog.FieldOperation, applog.OpDeliver,
				"target", t.Name,
				applog.FieldQuoteFile, doc.Filename,
				applog.FieldError, err)
			errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
		}
	}
	return errors.Join(errs...)
}
