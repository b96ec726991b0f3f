package report

import (
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp/internal/core"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rev(date, amount string) core.RevenueEntry {
	return core.RevenueEntry{ID: date + amount, Date: date, Client: "Acme", Description: "Janela", Amount: d(amount)}
}

func cost(date string, cat core.Category, amount string) core.CostEntry {
	return core.CostEntry{ID: date + amount, Date: date, Category: cat, Description: "Vidro", Amount: d(amount)}
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: want %s, got %s", msg, want, got)
}

func TestComputeTotalsEmpty(t *testing.T) {
	got := ComputeTotals(nil, nil)
	assert.True(t, got.Revenue.IsZero())
	assert.True(t, got.Cost.IsZero())
	assert.True(t, got.Profit.IsZero())
}

func TestSingleMonthScenario(t *testing.T) {
	revenues := []core.RevenueEntry{rev("2024-03-10", "500")}
	costs := []core.CostEntry{cost("2024-03-12", core.CategoryMaterial, "200")}

	totals := ComputeTotals(revenues, costs)
	assertDec(t, "500", totals.Revenue, "revenue")
	assertDec(t, "200", totals.Cost, "cost")
	assertDec(t, "300", totals.Profit, "profit")

	monthly := MonthlyBreakdown(revenues, costs)
	require.Len(t, monthly, 1)
	assert.Equal(t, "2024-03", monthly[0].Month)
	assertDec(t, "500", monthly[0].Revenue, "bucket revenue")
	assertDec(t, "200", monthly[0].Costs, "bucket costs")
	assertDec(t, "300", monthly[0].Profit, "bucket profit")
}

func TestMonthlyBreakdownOrderingAndCostOnlyMonths(t *testing.T) {
	revenues := []core.RevenueEntry{
		rev("2024-05-02", "100"),
		rev("2023-12-31", "40.50"),
		rev("2024-05-20", "10"),
	}
	costs := []core.CostEntry{
		cost("2024-02-01", core.CategoryFixed, "70"),
		cost("2024-05-03", core.CategoryLabor, "150"),
	}

	got := MonthlyBreakdown(revenues, costs)
	months := make([]string, 0, len(got))
	for _, b := range got {
		months = append(months, b.Month)
	}
	assert.Equal(t, []string{"2023-12", "2024-02", "2024-05"}, months)

	assertDec(t, "0", got[1].Revenue, "cost-only month revenue")
	assertDec(t, "-70", got[1].Profit, "cost-only month profit")
	assertDec(t, "110", got[2].Revenue, "may revenue")
	assertDec(t, "-40", got[2].Profit, "may profit")
}

func TestMonthKeyTruncation(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-03-10", "2024-03"},
		{"2024-03", "2024-03"},
		{"10/03/2024", "10/03/2"},
		{"2024", "2024"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MonthKey(tt.date), "MonthKey(%q)", tt.date)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	t.Run("same category sums", func(t *testing.T) {
		got := CategoryBreakdown([]core.CostEntry{
			cost("2024-03-01", core.CategoryMaterial, "100"),
			cost("2024-03-02", core.CategoryMaterial, "50"),
		})
		require.Len(t, got, 1)
		assert.Equal(t, core.CategoryMaterial, got[0].Category)
		assertDec(t, "150", got[0].Total, "material")
		assertDec(t, "1", got[0].Share, "share")
	})

	t.Run("fixed order and zero totals dropped", func(t *testing.T) {
		got := CategoryBreakdown([]core.CostEntry{
			cost("2024-03-01", core.CategoryOther, "10"),
			cost("2024-03-01", core.CategoryFreight, "0"),
			cost("2024-03-01", core.CategoryLabor, "30"),
			cost("2024-03-01", core.Category("bogus"), "99"),
			cost("2024-03-01", core.CategoryMaterial, "60"),
		})
		cats := make([]core.Category, 0, len(got))
		for _, b := range got {
			cats = append(cats, b.Category)
		}
		assert.Equal(t, []core.Category{core.CategoryMaterial, core.CategoryLabor, core.CategoryOther}, cats)
		assertDec(t, "0.6", got[0].Share, "material share")
		assertDec(t, "0.1", got[2].Share, "other share")
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, CategoryBreakdown(nil))
	})
}

func TestAggregationProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	months := []string{"2023-11", "2023-12", "2024-01", "2024-02"}

	for round := 0; round < 25; round++ {
		var revenues []core.RevenueEntry
		var costs []core.CostEntry
		for i := rng.Intn(12); i > 0; i-- {
			amount := decimal.New(rng.Int63n(100000), -2)
			revenues = append(revenues, core.RevenueEntry{Date: months[rng.Intn(len(months))] + "-15", Amount: amount})
		}
		for i := rng.Intn(12); i > 0; i-- {
			amount := decimal.New(rng.Int63n(100000), -2)
			cat := core.Categories[rng.Intn(len(core.Categories))]
			costs = append(costs, core.CostEntry{Date: months[rng.Intn(len(months))] + "-03", Category: cat, Amount: amount})
		}

		totals := ComputeTotals(revenues, costs)
		assert.True(t, totals.Profit.Equal(totals.Revenue.Sub(totals.Cost)))

		monthly := MonthlyBreakdown(revenues, costs)
		assert.True(t, slices.IsSortedFunc(monthly, func(a, b MonthlyBucket) int {
			return strings.Compare(a.Month, b.Month)
		}))
		revSum, costSum := decimal.Zero, decimal.Zero
		for _, b := range monthly {
			revSum = revSum.Add(b.Revenue)
			costSum = costSum.Add(b.Costs)
			assert.True(t, b.Profit.Equal(b.Revenue.Sub(b.Costs)))
		}
		assert.True(t, revSum.Equal(totals.Revenue), "round %d revenue", round)
		assert.True(t, costSum.Equal(totals.Cost), "round %d cost", round)

		catSum := decimal.Zero
		for _, b := range CategoryBreakdown(costs) {
			assert.True(t, b.Total.IsPositive())
			catSum = catSum.Add(b.Total)
		}
		assert.True(t, catSum.Equal(totals.Cost), "round %d categories", round)
	}
}

func TestSummarizeMarkdown(t *testing.T) {
	s := Summarize(
		[]core.RevenueEntry{rev("2024-03-10", "1234.56")},
		[]core.CostEntry{cost("2024-03-12", core.CategoryLabor, "234.56")},
	)
	md := Markdown(s)

	assert.Contains(t, md, "| R$ 1.234,56 | R$ 234,56 | R$ 1.000,00 |")
	assert.Contains(t, md, "| Mar/24 |")
	assert.Contains(t, md, "| Mão de Obra | R$ 234,56 | 100% |")

	empty := Markdown(Summarize(nil, nil))
	assert.Contains(t, empty, "Nenhum lançamento registrado.")
	assert.Contains(t, empty, "Nenhum custo registrado.")
}
