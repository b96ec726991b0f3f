// Package google writes exports to a Google Spreadsheet through the
// Sheets v4 API, authenticated with a service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	applog "erp/internal/log"
	ports "erp/internal/sheets"
)

var _ ports.Exporter = (*Exporter)(nil)

// Config selects the spreadsheet and the service account credentials.
// CredentialsJSON wins over CredentialsFile.
type Config struct {
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string
}

type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
}

// New creates an exporter for cfg. Extra client options are appended to
// the credential options.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Exporter, error) {
	id := strings.TrimSpace(cfg.SpreadsheetID)
	if id == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	base, err := credentialOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Exporter{svc: svc, spreadsheetID: id}, nil
}

// NewWithService wraps an existing Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID string) *Exporter {
	return &Exporter{svc: svc, spreadsheetID: spreadsheetID}
}

func credentialOptions(ctx context.Context, cfg Config) ([]goption.ClientOption, error) {
	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		raw, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = raw
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}

	slog.DebugContext(ctx, "Using service account credentials",
		applog.FieldComponent, applog.ComponentSheets,
		"credentials_size", len(credentialsJSON))

	return []goption.ClientOption{
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	}, nil
}

// Export clears and rewrites every tab. Tabs are written concurrently; the
// first failure cancels the others.
func (e *Exporter) Export(ctx context.Context, s ports.Snapshot) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, table := range s.Tables() {
		g.Go(func() error {
			return e.writeTable(gctx, table)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("export to spreadsheet: %w", err)
	}

	slog.InfoContext(ctx, "Spreadsheet export completed",
		applog.FieldComponent, applog.ComponentSheets,
		applog.FieldOperation, applog.OpExport,
		"revenues", len(s.Revenues),
		"costs", len(s.Costs),
		applog.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

func (e *Exporter) writeTable(ctx context.Context, t ports.Table) error {
	rng := quoteTab(t.Tab)

	_, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", t.Tab, err)
	}

	vr := &gsheet.ValueRange{Values: t.Rows}
	_, err = e.svc.Spreadsheets.Values.Update(e.spreadsheetID, rng+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", t.Tab, err)
	}
	return nil
}

// quoteTab wraps a tab name in single quotes for A1 notation.
func quoteTab(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
