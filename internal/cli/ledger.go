package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"erp/internal/core"
	"erp/internal/format"
)

// ledgerKind describes one of the two ledgers for the shared commands.
type ledgerKind struct {
	use     string
	short   string
	title   string
	noun    string
	isCosts bool
}

var (
	revenueLedger = ledgerKind{
		use:   "revenue",
		short: "Lançamentos de faturamento",
		title: "Faturamento",
		noun:  "Faturamento",
	}
	costLedger = ledgerKind{
		use:     "cost",
		short:   "Lançamentos de custos",
		title:   "Custos",
		noun:    "Custo",
		isCosts: true,
	}
)

func newLedgerCommand(opts *rootOptions, kind ledgerKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   kind.use,
		Short: kind.short,
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Registra um lançamento",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLedgerAdd(cmd, opts, kind)
		},
	}
	addCmd.Flags().String("date", "", "Data no formato AAAA-MM-DD (padrão: hoje)")
	addCmd.Flags().String("description", "", "Descrição")
	addCmd.Flags().String("amount", "", "Valor, por exemplo 1500,00 ou 1500.00")
	if kind.isCosts {
		addCmd.Flags().String("category", "", "Categoria: material, labor, freight, fixed ou other")
	} else {
		addCmd.Flags().String("client", "", "Cliente")
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Lista os lançamentos",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLedgerList(cmd, opts, kind)
		},
	}

	rmCmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Remove um lançamento",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLedgerRemove(cmd, opts, kind, args[0])
		},
	}

	cmd.AddCommand(addCmd, listCmd, rmCmd)
	return cmd
}

func runLedgerAdd(cmd *cobra.Command, opts *rootOptions, kind ledgerKind) error {
	a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), wiring{})
	if err != nil {
		return err
	}
	defer a.Close()

	date, _ := cmd.Flags().GetString("date")
	description, _ := cmd.Flags().GetString("description")
	amount, _ := cmd.Flags().GetString("amount")
	if strings.TrimSpace(date) == "" {
		date = time.Now().Format(core.DateLayout)
	}

	out := cmd.OutOrStdout()
	if kind.isCosts {
		category, _ := cmd.Flags().GetString("category")
		entry, err := a.dash.AddCost(cmd.Context(), core.CostInput{
			Date:        date,
			Category:    category,
			Description: description,
			Amount:      amount,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✅ %s registrado: %s %s (%s)\n",
			kind.noun, entry.ID, format.Currency(entry.Amount), format.CategoryLabel(entry.Category))
		return nil
	}

	client, _ := cmd.Flags().GetString("client")
	entry, err := a.dash.AddRevenue(cmd.Context(), core.RevenueInput{
		Date:        date,
		Client:      client,
		Description: description,
		Amount:      amount,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✅ %s registrado: %s %s (%s)\n",
		kind.noun, entry.ID, format.Currency(entry.Amount), entry.Client)
	return nil
}

func runLedgerList(cmd *cobra.Command, opts *rootOptions, kind ledgerKind) error {
	a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), wiring{})
	if err != nil {
		return err
	}
	defer a.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", kind.title)
	if kind.isCosts {
		writeCostTable(&b, a.dash.Costs())
	} else {
		writeRevenueTable(&b, a.dash.Revenues())
	}
	return render(cmd, opts, b.String())
}

func writeRevenueTable(b *strings.Builder, entries []core.RevenueEntry) {
	if len(entries) == 0 {
		b.WriteString("Nenhum faturamento registrado.\n")
		return
	}
	b.WriteString("| ID | Data | Cliente | Descrição | Valor |\n")
	b.WriteString("|---|---|---|---|---:|\n")
	for _, e := range entries {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
			e.ID, format.Date(e.Date), cell(e.Client), cell(e.Description), format.Currency(e.Amount))
	}
}

func writeCostTable(b *strings.Builder, entries []core.CostEntry) {
	if len(entries) == 0 {
		b.WriteString("Nenhum custo registrado.\n")
		return
	}
	b.WriteString("| ID | Data | Categoria | Descrição | Valor |\n")
	b.WriteString("|---|---|---|---|---:|\n")
	for _, e := range entries {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
			e.ID, format.Date(e.Date), format.CategoryLabel(e.Category), cell(e.Description), format.Currency(e.Amount))
	}
}

func runLedgerRemove(cmd *cobra.Command, opts *rootOptions, kind ledgerKind, id string) error {
	a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), wiring{})
	if err != nil {
		return err
	}
	defer a.Close()

	var removed bool
	if kind.isCosts {
		removed = a.dash.RemoveCost(cmd.Context(), id)
	} else {
		removed = a.dash.RemoveRevenue(cmd.Context(), id)
	}

	if removed {
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s %s removido.\n", kind.noun, id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Nenhum lançamento com id %s.\n", id)
	}
	return nil
}
