package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"erp/internal/ledger"
	applog "erp/internal/log"
)

// Anchors of the dashboard sections, used when a plain form post is
// redirected back to the page.
const (
	anchorRevenues = "/#faturamento"
	anchorCosts    = "/#custos"
	anchorQuote    = "/#orcamento"
)

func (s *Server) handleAddRevenue(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.unreadableBody(w, r, p, err)
		return
	}

	entry, err := s.dash.AddRevenue(r.Context(), p.RevenueInput())
	if err != nil {
		s.rejectInput(w, r, p, "#revenue-errors", err)
		return
	}

	switch {
	case p.IsJSON():
		writeJSON(w, r, http.StatusCreated, entry)
	case !isHTMX(r):
		http.Redirect(w, r, anchorRevenues, http.StatusSeeOther)
	default:
		s.renderPartial(w, r, "revenues", s.page(""), NewHTMXResponse().
			TriggerLedgerChanged(ledger.RevenuesKey).
			TriggerFormReset().
			TriggerSuccessNotification("Faturamento adicionado com sucesso!"))
	}
}

func (s *Server) handleAddCost(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.unreadableBody(w, r, p, err)
		return
	}

	entry, err := s.dash.AddCost(r.Context(), p.CostInput())
	if err != nil {
		s.rejectInput(w, r, p, "#cost-errors", err)
		return
	}

	switch {
	case p.IsJSON():
		writeJSON(w, r, http.StatusCreated, entry)
	case !isHTMX(r):
		http.Redirect(w, r, anchorCosts, http.StatusSeeOther)
	default:
		s.renderPartial(w, r, "costs", s.page(""), NewHTMXResponse().
			TriggerLedgerChanged(ledger.CostsKey).
			TriggerFormReset().
			TriggerSuccessNotification("Custo adicionado com sucesso!"))
	}
}

func (s *Server) handleRemoveRevenue(w http.ResponseWriter, r *http.Request) {
	s.dash.RemoveRevenue(r.Context(), chi.URLParam(r, "id"))
	if !isHTMX(r) {
		http.Redirect(w, r, anchorRevenues, http.StatusSeeOther)
		return
	}
	s.renderPartial(w, r, "revenues", s.page(""), NewHTMXResponse().
		TriggerLedgerChanged(ledger.RevenuesKey).
		TriggerSuccessNotification("Faturamento removido com sucesso!"))
}

func (s *Server) handleRemoveCost(w http.ResponseWriter, r *http.Request) {
	s.dash.RemoveCost(r.Context(), chi.URLParam(r, "id"))
	if !isHTMX(r) {
		http.Redirect(w, r, anchorCosts, http.StatusSeeOther)
		return
	}
	s.renderPartial(w, r, "costs", s.page(""), NewHTMXResponse().
		TriggerLedgerChanged(ledger.CostsKey).
		TriggerSuccessNotification("Custo removido com sucesso!"))
}

// rejectInput answers a failed validation: JSON clients get the reason as
// JSON, htmx forms get it in their error slot.
func (s *Server) rejectInput(w http.ResponseWriter, r *http.Request, p *RequestBodyParser, slot string, err error) {
	msg := userMessage(err)
	if p.IsJSON() {
		writeJSON(w, r, http.StatusUnprocessableEntity, apiError{Error: msg})
		return
	}
	ValidationFailed(slot, msg).
		TriggerErrorNotification(msg).
		Write(w)
}

func (s *Server) unreadableBody(w http.ResponseWriter, r *http.Request, p *RequestBodyParser, err error) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Unreadable request body",
		applog.FieldPath, r.URL.Path,
		applog.FieldErrorType, applog.ErrorTypeDecode,
		applog.FieldError, err,
		"content_type", p.ContentType())
	BadRequestError("Formato de requisição inválido").Write(w)
}
