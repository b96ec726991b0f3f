package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile string
	plain   bool
	style   string
}

// NewRootCommand assembles the erp command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "erp",
		Short: "Gestão administrativa: faturamento, custos e orçamentos",
		Long: `erp keeps the revenue and cost ledgers of a small business, summarizes
profit by month and cost category, and builds plain-text quotes.

Run "erp serve" for the web dashboard; the other commands work on the same
storage from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Env file loaded before reading configuration")
	root.PersistentFlags().BoolVar(&opts.plain, "plain", false, "Print raw Markdown instead of rendering it")
	root.PersistentFlags().StringVar(&opts.style, "style", "auto", "Glamour style for rendered output (auto, dark, light, notty)")

	root.AddCommand(
		newServeCommand(opts),
		newLedgerCommand(opts, revenueLedger),
		newLedgerCommand(opts, costLedger),
		newSummaryCommand(opts),
		newQuoteCommand(opts),
		newQuotesCommand(opts),
		newExportCommand(opts),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute(ctx context.Context) {
	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
