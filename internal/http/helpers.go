package http

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"erp/internal/core"
	applog "erp/internal/log"
	"erp/internal/quote"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

// isHTMX reports whether the request was issued by htmx.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// clientIP is the peer address without its port. chi's RealIP middleware
// has already applied any forwarding headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "JSON response encoding failed",
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err)
	}
}

type apiError struct {
	Error string `json:"error"`
}

var userMessages = []struct {
	err error
	msg string
}{
	{core.ErrEmptyDate, "Informe a data."},
	{core.ErrInvalidDate, "Data inválida. Use o formato AAAA-MM-DD."},
	{core.ErrEmptyClient, "Informe o cliente."},
	{core.ErrEmptyDescription, "Informe a descrição."},
	{core.ErrEmptyAmount, "Informe o valor."},
	{core.ErrInvalidAmount, "Valor inválido."},
	{core.ErrAmountTooLarge, "Valor acima do limite permitido."},
	{core.ErrEmptyCategory, "Selecione uma categoria."},
	{core.ErrInvalidCategory, "Categoria inválida."},
	{quote.ErrEmptyItemDescription, "Informe a descrição do item."},
	{quote.ErrEmptyQuantity, "Informe a quantidade."},
	{quote.ErrInvalidQuantity, "A quantidade deve ser um número inteiro positivo."},
	{quote.ErrEmptyUnitPrice, "Informe o valor unitário."},
}

// userMessage translates a validation error into the text shown on the
// dashboard.
func userMessage(err error) string {
	var verr *quote.ValidationError
	if errors.As(err, &verr) {
		return verr.Message()
	}
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "Dados inválidos."
}
