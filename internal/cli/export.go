package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"erp/internal/services"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exporta os lançamentos",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "sheets",
		Short: "Exporta faturamento, custos e lucro mensal para a planilha Google",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), wiring{export: true, strict: true})
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.dash.Export(cmd.Context()); err != nil {
				if errors.Is(err, services.ErrExportDisabled) {
					return errors.New("GOOGLE_SPREADSHEET_ID is not configured")
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %d faturamentos e %d custos exportados para a planilha %s\n",
				len(a.dash.Revenues()), len(a.dash.Costs()), a.cfg.GoogleSpreadsheetID)
			return nil
		},
	})
	return cmd
}
