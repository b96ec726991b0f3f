// Package cli implements the erp command: the dashboard server and the
// terminal counterparts of its operations. Every command shares the same
// initialization: optional .env file, validated configuration, structured
// logger, storage backend and dashboard.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/joho/godotenv"

	"erp/internal/amqp"
	"erp/internal/backend"
	"erp/internal/config"
	applog "erp/internal/log"
	"erp/internal/quote"
	"erp/internal/services"
	"erp/internal/sheets"
	gsheet "erp/internal/sheets/google"
	"erp/internal/storage"
)

// SetupLogger initializes structured logging at the configured level and
// sets it as the default logger.
func SetupLogger(level string, out io.Writer) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(level),
		Component: applog.ComponentCLI,
		Output:    out,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads an env file for local development. A missing file is
// not an error; variables already set in the environment win.
func LoadEnvFile(path string) {
	if path == "" {
		return
	}
	_ = godotenv.Load(path)
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// wiring selects the optional integrations a command needs.
type wiring struct {
	// publishQuotes makes the dashboard publish generated quotes to AMQP.
	publishQuotes bool
	// export gives the dashboard a spreadsheet exporter.
	export bool
	// strict fails the command when an enabled integration cannot start;
	// otherwise the integration is skipped with a warning.
	strict bool
}

// app is the wiring shared by the commands.
type app struct {
	cfg    *config.Config
	logger *applog.Logger
	store  storage.Store
	dash   *services.Dashboard
	queue  *amqp.Client
}

func newApp(ctx context.Context, opts *rootOptions, errOut io.Writer, w wiring) (*app, error) {
	LoadEnvFile(opts.envFile)

	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}
	logger := SetupLogger(cfg.LogLevel, errOut)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := backend.Open(bcfg, logger.Logger)
	if err != nil {
		logger.Error("Failed to open storage backend",
			applog.FieldBackend, cfg.DataBackend,
			applog.FieldErrorType, applog.ErrorTypeStorage,
			applog.FieldError, err)
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, store: store}
	dopts := services.Options{
		Company:     cfg.CompanyName,
		SessionTTL:  cfg.QuoteSessionTTL,
		MaxSessions: cfg.QuoteSessionMax,
		Logger:      logger.Logger,
	}

	if w.publishQuotes {
		client, err := a.amqpClient()
		if err := a.optional("amqp", err, w.strict); err != nil {
			a.Close()
			return nil, err
		}
		if client != nil {
			dopts.Deliverer = quote.MultiDeliverer{{Name: "amqp", Deliverer: client}}
		}
	}

	if w.export {
		exp, err := a.exporter(ctx)
		if err := a.optional("sheets", err, w.strict); err != nil {
			a.Close()
			return nil, err
		}
		if exp != nil {
			dopts.Exporter = exp
		}
	}

	a.dash = services.NewDashboard(ctx, store, dopts)
	return a, nil
}

// optional decides what a failed integration means for the command.
func (a *app) optional(name string, err error, strict bool) error {
	if err == nil {
		return nil
	}
	if strict {
		return err
	}
	a.logger.Warn("Optional integration disabled",
		"integration", name,
		applog.FieldErrorType, applog.ErrorTypeConfiguration,
		applog.FieldError, err)
	return nil
}

// amqpClient connects on first use. It returns nil when AMQP is not
// configured.
func (a *app) amqpClient() (*amqp.Client, error) {
	if !a.cfg.AMQPEnabled() {
		return nil, nil
	}
	if a.queue == nil {
		client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue)
		if err != nil {
			return nil, fmt.Errorf("connect to AMQP: %w", err)
		}
		a.queue = client
	}
	return a.queue, nil
}

// exporter builds the spreadsheet exporter. It returns nil when no
// spreadsheet is configured.
func (a *app) exporter(ctx context.Context) (sheets.Exporter, error) {
	if !a.cfg.SheetsEnabled() {
		return nil, nil
	}
	exp, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   a.cfg.GoogleSpreadsheetID,
		CredentialsJSON: a.cfg.GoogleServiceAccountJSON,
		CredentialsFile: a.cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize spreadsheet export: %w", err)
	}
	return exp, nil
}

// quoteTargets are the destinations of a quote generated from the
// terminal: the output directory, then the queue when configured.
func (a *app) quoteTargets() quote.MultiDeliverer {
	targets := quote.MultiDeliverer{{Name: "dir", Deliverer: quote.DirDeliverer{Dir: a.cfg.QuoteOutputDir}}}
	client, err := a.amqpClient()
	if err := a.optional("amqp", err, false); err == nil && client != nil {
		targets = append(targets, quote.Target{Name: "amqp", Deliverer: client})
	}
	return targets
}

func (a *app) Close() {
	if a.queue != nil {
		if err := a.queue.Close(); err != nil {
			a.logger.Warn("AMQP close failed", applog.FieldError, err)
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("Storage close failed", applog.FieldError, err)
	}
}
