// This file maps request bodies onto the inputs of the ledgers and the
// quote builder. Forms posted by htmx and JSON bodies sent to the same
// endpoints share one parser.

package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"erp/internal/core"
)

// maxBodyBytes caps every request body read by the parser.
const maxBodyBytes = 1 << 20

// RequestBodyParser reads a request body once and exposes its fields,
// whether the client sent JSON or a urlencoded form.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body of r. The body is consumed.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.jsonData = nil
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a sanitized field value, or "" when absent.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Has reports whether the body carried the field, even empty.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	return p.formData != nil && p.formData.Has(key)
}

func (p *RequestBodyParser) ContentType() string {
	return p.contentType
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// RevenueInput collects the fields of the revenue form.
func (p *RequestBodyParser) RevenueInput() core.RevenueInput {
	return core.RevenueInput{
		Date:        p.Get("date"),
		Client:      p.Get("client"),
		Description: p.Get("description"),
		Amount:      p.Get("amount"),
	}
}

// CostInput collects the fields of the cost form.
func (p *RequestBodyParser) CostInput() core.CostInput {
	return core.CostInput{
		Date:        p.Get("date"),
		Category:    p.Get("category"),
		Description: p.Get("description"),
		Amount:      p.Get("amount"),
	}
}

// itemFields collects the fields of the quote item form.
func (p *RequestBodyParser) itemFields() (description, quantity, unitPrice string) {
	return p.Get("description"), p.Get("quantity"), p.Get("unitPrice")
}

// clientFields collects the fields of the quote client form.
func (p *RequestBodyParser) clientFields() (name, phone string) {
	return p.Get("clientName"), p.Get("clientPhone")
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
