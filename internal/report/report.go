// Package report derives the dashboard figures from ledger snapshots.
// Every function here is pure: callers pass the current entries and get
// freshly computed values back, nothing is cached between calls.
package report

import (
	"slices"

	"github.com/shopspring/decimal"

	"erp/internal/core"
)

// Totals holds the grand totals of both ledgers.
type Totals struct {
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
}

// MonthlyBucket aggregates the entries of one YYYY-MM month.
type MonthlyBucket struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Costs   decimal.Decimal `json:"costs"`
	Profit  decimal.Decimal `json:"profit"`
}

// CategoryBucket is the cost total of one category. Share is the fraction
// of all costs it represents.
type CategoryBucket struct {
	Category core.Category   `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Share    decimal.Decimal `json:"share"`
}

// Summary bundles everything one dashboard render needs.
type Summary struct {
	Totals     Totals           `json:"totals"`
	Monthly    []MonthlyBucket  `json:"monthly"`
	Categories []CategoryBucket `json:"categories"`
}

func ComputeTotals(revenues []core.RevenueEntry, costs []core.CostEntry) Totals {
	t := Totals{Revenue: decimal.Zero, Cost: decimal.Zero}
	for _, r := range revenues {
		t.Revenue = t.Revenue.Add(r.Amount)
	}
	for _, c := range costs {
		t.Cost = t.Cost.Add(c.Amount)
	}
	t.Profit = t.Revenue.Sub(t.Cost)
	return t
}

// MonthKey returns the bucket key of a stored date: its first seven
// characters. Dates are validated when entries are created, so anything
// shorter only comes from a hand-edited store and is used whole.
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// MonthlyBreakdown partitions revenues and costs by month and returns the
// buckets sorted ascending by month key. Months with only costs still
// appear, with zero revenue.
func MonthlyBreakdown(revenues []core.RevenueEntry, costs []core.CostEntry) []MonthlyBucket {
	buckets := make(map[string]*MonthlyBucket)
	bucket := func(date string) *MonthlyBucket {
		key := MonthKey(date)
		b, ok := buckets[key]
		if !ok {
			b = &MonthlyBucket{Month: key, Revenue: decimal.Zero, Costs: decimal.Zero}
			buckets[key] = b
		}
		return b
	}

	for _, r := range revenues {
		b := bucket(r.Date)
		b.Revenue = b.Revenue.Add(r.Amount)
	}
	for _, c := range costs {
		b := bucket(c.Date)
		b.Costs = b.Costs.Add(c.Amount)
	}

	out := make([]MonthlyBucket, 0, len(buckets))
	for _, b := range buckets {
		b.Profit = b.Revenue.Sub(b.Costs)
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b MonthlyBucket) int {
		switch {
		case a.Month < b.Month:
			return -1
		case a.Month > b.Month:
			return 1
		}
		return 0
	})
	return out
}

// CategoryBreakdown sums costs per category in the fixed category order
// and keeps only categories whose total is strictly positive. Entries
// with an unknown category are skipped.
func CategoryBreakdown(costs []core.CostEntry) []CategoryBucket {
	sums := make(map[core.Category]decimal.Decimal, len(core.Categories))
	total := decimal.Zero
	for _, c := range costs {
		if !c.Category.Valid() {
			continue
		}
		sums[c.Category] = sums[c.Category].Add(c.Amount)
		total = total.Add(c.Amount)
	}

	out := make([]CategoryBucket, 0, len(core.Categories))
	for _, cat := range core.Categories {
		sum, ok := sums[cat]
		if !ok || !sum.IsPositive() {
			continue
		}
		out = append(out, CategoryBucket{
			Category: cat,
			Total:    sum,
			Share:    share(sum, total),
		})
	}
	return out
}

func share(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.DivRound(whole, 4)
}

// Summarize computes totals, monthly and category breakdowns in one pass
// over the same snapshot.
func Summarize(revenues []core.RevenueEntry, costs []core.CostEntry) Summary {
	return Summary{
		Totals:     ComputeTotals(revenues, costs),
		Monthly:    MonthlyBreakdown(revenues, costs),
		Categories: CategoryBreakdown(costs),
	}
}
