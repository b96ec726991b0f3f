package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"erp/internal/quote"
)

func newQuoteCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Gera um orçamento em texto",
		Long: `Builds a quote from the given client and items and writes it to
QUOTE_OUTPUT_DIR. When AMQP is configured the quote is also published.

Each --item is "descrição;quantidade;valor unitário", for example
--item "Janela de correr;2;450,00".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuote(cmd, opts)
		},
	}
	cmd.Flags().String("client", "", "Nome do cliente")
	cmd.Flags().String("phone", "", "Telefone do cliente")
	cmd.Flags().StringArray("item", nil, `Item "descrição;quantidade;valor unitário" (repetível)`)
	cmd.Flags().Bool("stdout", false, "Também imprime o orçamento")
	return cmd
}

func runQuote(cmd *cobra.Command, opts *rootOptions) error {
	client, _ := cmd.Flags().GetString("client")
	phone, _ := cmd.Flags().GetString("phone")
	items, _ := cmd.Flags().GetStringArray("item")
	echo, _ := cmd.Flags().GetBool("stdout")

	a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), wiring{})
	if err != nil {
		return err
	}
	defer a.Close()

	b := a.dash.NewQuote()
	b.SetClient(client, phone)
	for i, raw := range items {
		description, quantity, price, err := splitItem(raw)
		if err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
		if _, err := b.AddItem(description, quantity, price); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}

	doc, err := a.dash.Generate(cmd.Context(), b)
	if err != nil {
		var verr *quote.ValidationError
		if errors.As(err, &verr) {
			return errors.New(verr.Message())
		}
		return err
	}

	if err := a.quoteTargets().Deliver(cmd.Context(), doc); err != nil {
		return fmt.Errorf("deliver quote: %w", err)
	}

	out := cmd.OutOrStdout()
	if echo {
		out.Write(doc.Body)
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "✅ Orçamento salvo em %s (total %s)\n",
		filepath.Join(a.cfg.QuoteOutputDir, doc.Filename), doc.Total)
	return nil
}

// splitItem parses "description;quantity;unit price".
func splitItem(raw string) (description, quantity, price string, err error) {
	parts := strings.Split(raw, ";")
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("expected \"descrição;quantidade;valor\", got %q", raw)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]), nil
}
