// Package sheets exports the ledgers and the monthly breakdown to a
// spreadsheet. The row layout lives here; adapters only move rows.
package sheets

import (
	"context"

	"erp/internal/core"
	"erp/internal/format"
	"erp/internal/report"
)

// Tab names of the exported spreadsheet.
const (
	RevenuesTab = "Receitas"
	CostsTab    = "Custos"
	MonthlyTab  = "Lucro Mensal"
)

// Ports for outbound adapters.
type (
	// Exporter replaces the content of every tab with the snapshot.
	Exporter interface {
		Export(ctx context.Context, s Snapshot) error
	}

	// Snapshot is the ledger state at export time.
	Snapshot struct {
		Revenues []core.RevenueEntry
		Costs    []core.CostEntry
	}

	// Table is one tab's worth of rows, header first.
	Table struct {
		Tab  string
		Rows [][]any
	}
)

// Tables lays the snapshot out as the three exported tabs.
func (s Snapshot) Tables() []Table {
	return []Table{
		{Tab: RevenuesTab, Rows: RevenueRows(s.Revenues)},
		{Tab: CostsTab, Rows: CostRows(s.Costs)},
		{Tab: MonthlyTab, Rows: MonthlyRows(report.MonthlyBreakdown(s.Revenues, s.Costs))},
	}
}

// RevenueRows renders revenues with a header row. Amounts are exported as
// exact decimal strings so the sheet can do its own math.
func RevenueRows(entries []core.RevenueEntry) [][]any {
	rows := [][]any{{"ID", "Data", "Cliente", "Descrição", "Valor"}}
	for _, e := range entries {
		rows = append(rows, []any{e.ID, format.Date(e.Date), e.Client, e.Description, e.Amount.String()})
	}
	return rows
}

func CostRows(entries []core.CostEntry) [][]any {
	rows := [][]any{{"ID", "Data", "Categoria", "Descrição", "Valor"}}
	for _, e := range entries {
		rows = append(rows, []any{e.ID, format.Date(e.Date), format.CategoryLabel(e.Category), e.Description, e.Amount.String()})
	}
	return rows
}

func MonthlyRows(buckets []report.MonthlyBucket) [][]any {
	rows := [][]any{{"Mês", "Faturamento", "Custos", "Lucro"}}
	for _, b := range buckets {
		rows = append(rows, []any{b.Month, b.Revenue.String(), b.Costs.String(), b.Profit.String()})
	}
	return rows
}
