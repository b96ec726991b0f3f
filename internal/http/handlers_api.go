package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"erp/internal/core"
	"erp/internal/format"
	"erp/internal/services"
)

type amountJSON struct {
	Value   decimal.Decimal `json:"value"`
	Display string          `json:"display"`
}

func newAmount(d decimal.Decimal) amountJSON {
	return amountJSON{Value: d, Display: format.Currency(d)}
}

type summaryJSON struct {
	Revenue  amountJSON `json:"revenue"`
	Cost     amountJSON `json:"cost"`
	Profit   amountJSON `json:"profit"`
	Revenues int        `json:"revenues"`
	Costs    int        `json:"costs"`
}

type monthlyJSON struct {
	Month   string          `json:"month"`
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
	Costs   decimal.Decimal `json:"costs"`
	Profit  decimal.Decimal `json:"profit"`
}

type categoryJSON struct {
	Category core.Category   `json:"category"`
	Label    string          `json:"label"`
	Total    decimal.Decimal `json:"total"`
	Share    decimal.Decimal `json:"share"`
	Percent  string          `json:"percent"`
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	t := s.dash.Summary().Totals
	writeJSON(w, r, http.StatusOK, summaryJSON{
		Revenue:  newAmount(t.Revenue),
		Cost:     newAmount(t.Cost),
		Profit:   newAmount(t.Profit),
		Revenues: len(s.dash.Revenues()),
		Costs:    len(s.dash.Costs()),
	})
}

func (s *Server) handleAPIMonthly(w http.ResponseWriter, r *http.Request) {
	buckets := s.dash.Summary().Monthly
	out := make([]monthlyJSON, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, monthlyJSON{
			Month:   b.Month,
			Label:   format.MonthLabel(b.Month),
			Revenue: b.Revenue,
			Costs:   b.Costs,
			Profit:  b.Profit,
		})
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	buckets := s.dash.Summary().Categories
	out := make([]categoryJSON, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, categoryJSON{
			Category: b.Category,
			Label:    format.CategoryLabel(b.Category),
			Total:    b.Total,
			Share:    b.Share,
			Percent:  format.Percent(b.Share),
		})
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleAPIRevenues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.dash.Revenues())
}

func (s *Server) handleAPICosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.dash.Costs())
}

func (s *Server) handleAPIRemoveRevenue(w http.ResponseWriter, r *http.Request) {
	if !s.dash.RemoveRevenue(r.Context(), chi.URLParam(r, "id")) {
		writeJSON(w, r, http.StatusNotFound, apiError{Error: "entry not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIRemoveCost(w http.ResponseWriter, r *http.Request) {
	if !s.dash.RemoveCost(r.Context(), chi.URLParam(r, "id")) {
		writeJSON(w, r, http.StatusNotFound, apiError{Error: "entry not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExport pushes both ledgers to the configured spreadsheet.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	err := s.dash.Export(r.Context())
	if isHTMX(r) {
		resp := NewHTMXResponse()
		switch {
		case errors.Is(err, services.ErrExportDisabled):
			resp.TriggerNotification(NotificationWarning, "Exportação para planilha não configurada.", 5000)
		case err != nil:
			resp.TriggerErrorNotification("Falha ao exportar para a planilha.")
		default:
			resp.TriggerSuccessNotification("Planilha atualizada!")
		}
		resp.Write(w)
		return
	}

	switch {
	case errors.Is(err, services.ErrExportDisabled):
		writeJSON(w, r, http.StatusServiceUnavailable, apiError{Error: err.Error()})
	case err != nil:
		writeJSON(w, r, http.StatusBadGateway, apiError{Error: "export failed"})
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
