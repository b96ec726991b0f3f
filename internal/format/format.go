// Package format holds the display formatting shared by the dashboard,
// the terminal report and the quote document: pt-BR dates, BRL currency
// and the Portuguese labels of cost categories.
package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"erp/internal/core"
)

// brl renders centavos the way pt-BR formats BRL: R$ 1.234,56
var brl = money.NewFormatter(2, ",", ".", "R$", "$ 1")

var monthNames = [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

var categoryLabels = map[core.Category]string{
	core.CategoryMaterial: "Material",
	core.CategoryLabor:    "Mão de Obra",
	core.CategoryFreight:  "Frete",
	core.CategoryFixed:    "Custos Fixos",
	core.CategoryOther:    "Outros",
}

// Currency formats an amount as BRL, rounding to centavos.
func Currency(d decimal.Decimal) string {
	if !core.FitsCents(d) {
		return wideCurrency(d)
	}
	return brl.Format(core.Cents(d))
}

// wideCurrency formats sums past the money formatter's int64 range with the
// same layout.
func wideCurrency(d decimal.Decimal) string {
	whole, frac, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "R$ " + b.String() + "," + frac
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}

// Date turns a stored YYYY-MM-DD date into DD/MM/YYYY.
// Anything that does not split into three parts is returned unchanged.
func Date(s string) string {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return s
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

// Day formats a timestamp as DD/MM/YYYY.
func Day(t time.Time) string {
	return t.Format("02/01/2006")
}

// MonthLabel turns a YYYY-MM bucket key into a chart label such as "Mar/24".
func MonthLabel(month string) string {
	year, num, ok := strings.Cut(month, "-")
	if !ok || len(year) < 2 {
		return month
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 || n > 12 {
		return month
	}
	return monthNames[n-1] + "/" + year[len(year)-2:]
}

// CategoryLabel returns the display name of a cost category.
func CategoryLabel(c core.Category) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return categoryLabels[core.CategoryOther]
}

// Percent renders a 0..1 share as a whole percentage, e.g. "42%".
func Percent(share decimal.Decimal) string {
	return share.Shift(2).Round(0).String() + "%"
}
