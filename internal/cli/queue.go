package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	applog "erp/internal/log"
	"erp/internal/quote"
	"erp/internal/services"
)

func newQuotesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "Orçamentos publicados na fila",
	}

	consumeCmd := &cobra.Command{
		Use:   "consume",
		Short: "Arquiva os orçamentos recebidos da fila AMQP",
		Long: `Consumes the quotes published by "erp serve" and "erp quote" and
writes each one into a directory. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuotesConsume(cmd, opts)
		},
	}
	consumeCmd.Flags().String("dir", "", "Diretório de destino (padrão: QUOTE_OUTPUT_DIR)")

	cmd.AddCommand(consumeCmd)
	return cmd
}

func runQuotesConsume(cmd *cobra.Command, opts *rootOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, opts, cmd.ErrOrStderr(), wiring{})
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.AMQPEnabled() {
		return errors.New("AMQP_URL is not configured")
	}
	client, err := a.amqpClient()
	if err != nil {
		return err
	}

	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = a.cfg.QuoteOutputDir
	}
	archiver := services.NewQuoteArchiver(quote.DirDeliverer{Dir: dir}, a.logger.Logger)

	a.logger.Info("Consuming quotes",
		applog.FieldComponent, applog.ComponentAMQP,
		"queue", a.cfg.AMQPQueue,
		"dir", dir)
	err = client.ConsumeQuotes(ctx, archiver.Handle)
	if err != nil && !errors.Is(err, ctx.Err()) {
		return err
	}
	a.logger.Info("Quote consumer stopped")
	return nil
}
