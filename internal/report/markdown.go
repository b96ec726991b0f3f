package report

import (
	"fmt"
	"strings"

	"erp/internal/format"
)

// Markdown renders a summary as a Markdown document for terminal output.
func Markdown(s Summary) string {
	var b strings.Builder

	b.WriteString("# Resumo Financeiro\n\n")
	b.WriteString("| Faturamento Total | Custos Totais | Lucro |\n")
	b.WriteString("|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %s | %s |\n\n",
		format.Currency(s.Totals.Revenue),
		format.Currency(s.Totals.Cost),
		format.Currency(s.Totals.Profit))

	b.WriteString("## Lucro Mensal\n\n")
	if len(s.Monthly) == 0 {
		b.WriteString("Nenhum lançamento registrado.\n\n")
	} else {
		b.WriteString("| Mês | Faturamento | Custos | Lucro |\n")
		b.WriteString("|---|---:|---:|---:|\n")
		for _, m := range s.Monthly {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				format.MonthLabel(m.Month),
				format.Currency(m.Revenue),
				format.Currency(m.Costs),
				format.Currency(m.Profit))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Distribuição de Custos\n\n")
	if len(s.Categories) == 0 {
		b.WriteString("Nenhum custo registrado.\n")
		return b.String()
	}
	b.WriteString("| Categoria | Total | % |\n")
	b.WriteString("|---|---:|---:|\n")
	for _, c := range s.Categories {
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			format.CategoryLabel(c.Category),
			format.Currency(c.Total),
			format.Percent(c.Share))
	}
	return b.String()
}
