package http

import (
	"html/template"

	"github.com/shopspring/decimal"

	"erp/internal/core"
	"erp/internal/format"
	"erp/internal/quote"
	"erp/internal/report"
)

var templateFuncs = template.FuncMap{
	"currency": format.Currency,
	"date":     format.Date,
	"day":      format.Day,
	"month":    format.MonthLabel,
	"category": format.CategoryLabel,
	"percent":  format.Percent,
}

type categoryOption struct {
	Value core.Category
	Label string
}

// monthlyBar is one month of the profit chart. Widths are percentages of
// the largest absolute value on the chart.
type monthlyBar struct {
	report.MonthlyBucket
	Label        string
	RevenueWidth int64
	CostsWidth   int64
	ProfitWidth  int64
	Loss         bool
}

type quoteView struct {
	ClientName  string
	ClientPhone string
	Items       []quote.Item
	Total       decimal.Decimal
	Generated   bool
	Error       string
}

// pageData feeds the whole page and every partial rendered from it.
type pageData struct {
	Company     string
	Today       string
	Totals      report.Totals
	ProfitClass string
	Revenues    []core.RevenueEntry
	Costs       []core.CostEntry
	Categories  []categoryOption
	Monthly     []monthlyBar
	Shares      []report.CategoryBucket
	Quote       quoteView
	Export      bool
}

func (s *Server) page(session string) pageData {
	summary := s.dash.Summary()
	data := pageData{
		Company:     s.company,
		Today:       s.now().Format(core.DateLayout),
		Totals:      summary.Totals,
		ProfitClass: profitClass(summary.Totals.Profit),
		Revenues:    s.dash.Revenues(),
		Costs:       s.dash.Costs(),
		Categories:  categoryOptions(),
		Monthly:     monthlyBars(summary.Monthly),
		Shares:      summary.Categories,
		Export:      s.dash.ExportEnabled(),
	}
	if session != "" {
		data.Quote = s.quoteView(session)
	}
	return data
}

func (s *Server) quoteView(session string) quoteView {
	b := s.dash.Quote(session)
	name, phone := b.Client()
	items := b.Items()
	return quoteView{
		ClientName:  name,
		ClientPhone: phone,
		Items:       items,
		Total:       b.Total(),
		Generated:   b.State() == quote.Generated,
	}
}

func profitClass(profit decimal.Decimal) string {
	if profit.IsNegative() {
		return "negative"
	}
	return "positive"
}

func categoryOptions() []categoryOption {
	opts := make([]categoryOption, 0, len(core.Categories))
	for _, c := range core.Categories {
		opts = append(opts, categoryOption{Value: c, Label: format.CategoryLabel(c)})
	}
	return opts
}

func monthlyBars(buckets []report.MonthlyBucket) []monthlyBar {
	peak := decimal.Zero
	for _, b := range buckets {
		peak = decimal.Max(peak, b.Revenue.Abs(), b.Costs.Abs(), b.Profit.Abs())
	}
	bars := make([]monthlyBar, 0, len(buckets))
	for _, b := range buckets {
		bars = append(bars, monthlyBar{
			MonthlyBucket: b,
			Label:         format.MonthLabel(b.Month),
			RevenueWidth:  width(b.Revenue, peak),
			CostsWidth:    width(b.Costs, peak),
			ProfitWidth:   width(b.Profit, peak),
			Loss:          b.Profit.IsNegative(),
		})
	}
	return bars
}

func width(v, peak decimal.Decimal) int64 {
	if peak.IsZero() {
		return 0
	}
	return v.Abs().Mul(decimal.NewFromInt(100)).Div(peak).Round(0).IntPart()
}
