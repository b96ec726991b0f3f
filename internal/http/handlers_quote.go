package http

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"erp/internal/format"
	"erp/internal/quote"
)

func (s *Server) handleQuotePartial(w http.ResponseWriter, r *http.Request) {
	session := quoteSession(w, r, s.sessionTTL)
	s.renderQuote(w, r, "quote", session, NewHTMXResponse())
}

func (s *Server) handleQuoteClient(w http.ResponseWriter, r *http.Request) {
	session := quoteSession(w, r, s.sessionTTL)
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.unreadableBody(w, r, p, err)
		return
	}

	s.dash.Quote(session).SetClient(p.clientFields())
	s.quoteUpdated(w, r, "quote-lines", session, NewHTMXResponse())
}

func (s *Server) handleQuoteAddItem(w http.ResponseWriter, r *http.Request) {
	session := quoteSession(w, r, s.sessionTTL)
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.unreadableBody(w, r, p, err)
		return
	}

	if _, err := s.dash.Quote(session).AddItem(p.itemFields()); err != nil {
		s.rejectInput(w, r, p, "#quote-errors", err)
		return
	}
	s.quoteUpdated(w, r, "quote-lines", session, NewHTMXResponse().TriggerFormReset())
}

func (s *Server) handleQuoteRemoveItem(w http.ResponseWriter, r *http.Request) {
	session := quoteSession(w, r, s.sessionTTL)
	s.dash.Quote(session).RemoveItem(chi.URLParam(r, "id"))
	s.quoteUpdated(w, r, "quote-lines", session, NewHTMXResponse())
}

func (s *Server) handleQuoteReset(w http.ResponseWriter, r *http.Request) {
	session := quoteSession(w, r, s.sessionTTL)
	s.dash.Quote(session).Reset()
	s.quoteUpdated(w, r, "quote", session, NewHTMXResponse())
}

// handleQuoteGenerate answers with the document as a download. When the
// draft is incomplete the page is rendered again with the reason.
func (s *Server) handleQuoteGenerate(w http.ResponseWriter, r *http.Request) {
	session := quoteSession(w, r, s.sessionTTL)
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.unreadableBody(w, r, p, err)
		return
	}
	// the generate button submits the client form, so its fields may be
	// newer than the last change event
	if p.Has("clientName") || p.Has("clientPhone") {
		s.dash.Quote(session).SetClient(p.clientFields())
	}

	doc, err := s.dash.GenerateQuote(r.Context(), session)
	if err != nil {
		var verr *quote.ValidationError
		if !errors.As(err, &verr) {
			InternalServerError("Não foi possível gerar o orçamento").Write(w)
			return
		}
		if isHTMX(r) {
			ValidationFailed("#quote-errors", verr.Message()).Write(w)
			return
		}
		data := s.page(session)
		data.Quote.Error = verr.Message()
		s.renderPage(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}

// quoteUpdated re-renders the named quote partial after an edit.
func (s *Server) quoteUpdated(w http.ResponseWriter, r *http.Request, partial, session string, resp *HTMXResponseBuilder) {
	if !isHTMX(r) {
		http.Redirect(w, r, anchorQuote, http.StatusSeeOther)
		return
	}
	b := s.dash.Quote(session)
	resp.TriggerQuoteChanged(len(b.Items()), format.Currency(b.Total()))
	s.renderQuote(w, r, partial, session, resp)
}

func (s *Server) renderQuote(w http.ResponseWriter, r *http.Request, partial, session string, resp *HTMXResponseBuilder) {
	data := pageData{Company: s.company, Quote: s.quoteView(session)}
	s.renderPartial(w, r, partial, data, resp)
}
