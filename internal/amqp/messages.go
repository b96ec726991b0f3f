package amqp

import (
	"encoding/json"
	"time"

	"erp/internal/quote"
)

// QuoteMessage carries a generated quote document to the queue consumer.
type QuoteMessage struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	ClientName  string    `json:"clientName"`
	Total       string    `json:"total"`
	GeneratedAt time.Time `json:"generatedAt"`
	Body        []byte    `json:"body"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewQuoteMessage wraps a document for publication.
func NewQuoteMessage(doc quote.Document) *QuoteMessage {
	return &QuoteMessage{
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		ClientName:  doc.ClientName,
		Total:       doc.Total,
		GeneratedAt: doc.GeneratedAt,
		Body:        doc.Body,
		Timestamp:   time.Now(),
	}
}

// Document converts the message back into a deliverable document.
func (m *QuoteMessage) Document() quote.Document {
	return quote.Document{
		Filename:    m.Filename,
		ContentType: m.ContentType,
		Body:        m.Body,
		ClientName:  m.ClientName,
		Total:       m.Total,
		GeneratedAt: m.GeneratedAt,
	}
}

// ToJSON converts the message to JSON bytes
func (m *QuoteMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// QuoteMessageFromJSON decodes a message. Messages without a filename are
// rejected.
func QuoteMessageFromJSON(data []byte) (*QuoteMessage, error) {
	var msg QuoteMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Filename == "" {
		return nil, errMissingFilename
	}
	return &msg, nil
}
