package services

import (
	"context"
	"fmt"
	"log/slog"

	"erp/internal/amqp"
	applog "erp/internal/log"
	"erp/internal/quote"
)

// QuoteArchiver stores quotes received from the queue.
type QuoteArchiver struct {
	target quote.Deliverer
	logger *slog.Logger
}

func NewQuoteArchiver(target quote.Deliverer, logger *slog.Logger) *QuoteArchiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteArchiver{
		target: target,
		logger: logger.With(applog.FieldComponent, applog.ComponentQuote),
	}
}

// Handle writes one queued quote. A failure makes the broker redeliver it.
func (a *QuoteArchiver) Handle(ctx context.Context, msg *amqp.QuoteMessage) error {
	doc := msg.Document()
	if doc.ContentType == "" {
		doc.ContentType = quote.ContentType
	}
	if err := a.target.Deliver(ctx, doc); err != nil {
		return fmt.Errorf("archive quote %s: %w", doc.Filename, err)
	}
	a.logger.InfoContext(ctx, "Quote archived",
		applog.FieldQuoteFile, doc.Filename,
		"client", doc.ClientName,
		"queued_at", msg.Timestamp)
	return nil
}
