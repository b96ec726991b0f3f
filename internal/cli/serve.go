package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	apphttp "erp/internal/http"
	applog "erp/internal/log"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Second
	idleTimeout     = 60 * time.Second
	maxHeaderBytes  = 1 << 16
	shutdownTimeout = 30 * time.Second
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Inicia o painel web",
		Long: `Serves the dashboard on localhost:PORT. Generated quotes are published
to AMQP when configured, and the spreadsheet export is enabled when
GOOGLE_SPREADSHEET_ID is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().String("host", "127.0.0.1", "Interface to listen on")
	return cmd
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, opts, cmd.ErrOrStderr(), wiring{publishQuotes: true, export: true})
	if err != nil {
		return err
	}
	defer a.Close()

	host, _ := cmd.Flags().GetString("host")
	addr := net.JoinHostPort(host, a.cfg.Port)

	srv := apphttp.NewServer(addr, a.dash, apphttp.Options{
		Logger:         a.logger.WithComponent(applog.ComponentHTTP),
		Company:        a.cfg.CompanyName,
		SessionTTL:     a.cfg.QuoteSessionTTL,
		MetricsEnabled: a.cfg.MetricsEnabled,
	})
	srv.ReadTimeout = readTimeout
	srv.WriteTimeout = writeTimeout
	srv.IdleTimeout = idleTimeout
	srv.MaxHeaderBytes = maxHeaderBytes

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting erp dashboard",
			"addr", addr,
			applog.FieldBackend, a.cfg.DataBackend,
			"amqp", a.cfg.AMQPEnabled(),
			"export", a.dash.ExportEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutdown signal received, stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	a.logger.Info("Server stopped gracefully")
	return nil
}
