package cli

import (
	"github.com/spf13/cobra"

	"erp/internal/report"
)

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Resumo financeiro: totais, lucro mensal e distribuição de custos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), wiring{})
			if err != nil {
				return err
			}
			defer a.Close()
			return render(cmd, opts, report.Markdown(a.dash.Summary()))
		},
	}
}
