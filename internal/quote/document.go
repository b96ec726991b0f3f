package quote

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"erp/internal/format"
)

// DefaultCompany signs quotes when no company name is configured.
const DefaultCompany = "Esquadrias de Alumínio Ltda."

// ContentType of every generated document.
const ContentType = "text/plain; charset=utf-8"

// Document is a rendered quote ready to be delivered.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
	ClientName  string
	Total       string
	GeneratedAt time.Time
}

type draft struct {
	clientName  string
	clientPhone string
	items       []Item
	company     string
	date        time.Time
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	pathSeparator = regexp.MustCompile(`[/\\]`)
)

// Filename derives the download name of a quote:
// Orcamento_<client name with whitespace as "_">_<DD-MM-YYYY>.txt
func Filename(clientName string, date time.Time) string {
	name := whitespaceRun.ReplaceAllString(clientName, "_")
	name = pathSeparator.ReplaceAllString(name, "_")
	return "Orcamento_" + name + "_" + date.Format("02-01-2006") + ".txt"
}

func render(d draft) Document {
	var b strings.Builder
	today := format.Day(d.date)
	sum := total(d.items)

	b.WriteString("ORÇAMENTO\n")
	b.WriteString("==========\n\n")
	fmt.Fprintf(&b, "Data: %s\n\n", today)
	b.WriteString("CLIENTE\n")
	fmt.Fprintf(&b, "Nome: %s\n", d.clientName)
	fmt.Fprintf(&b, "Telefone: %s\n\n", d.clientPhone)
	b.WriteString("ITENS\n")
	b.WriteString("=====\n\n")

	for i, item := range d.items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Description)
		fmt.Fprintf(&b, "   Quantidade: %d\n", item.Quantity)
		fmt.Fprintf(&b, "   Valor Unitário: %s\n", format.Currency(item.UnitPrice))
		fmt.Fprintf(&b, "   Subtotal: %s\n\n", format.Currency(item.Subtotal()))
	}

	b.WriteString("==========\n")
	fmt.Fprintf(&b, "VALOR TOTAL: %s\n\n", format.Currency(sum))
	b.WriteString("Orçamento válido por 15 dias.\n")
	b.WriteString("Prazo de entrega a combinar.\n")
	b.WriteString("Forma de pagamento: 50% na aprovação e 50% na entrega.\n\n")
	b.WriteString("Atenciosamente,\n")
	b.WriteString(d.company + "\n")

	return Document{
		Filename:    Filename(d.clientName, d.date),
		ContentType: ContentType,
		Body:        []byte(b.String()),
		ClientName:  d.clientName,
		Total:       format.Currency(sum),
		GeneratedAt: d.date,
	}
}
