package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"erp/internal/quote"
)

type fakeChannel struct {
	published  []amqp091.Publishing
	publishErr error
	deliveries chan amqp091.Delivery
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, _ string, _, _ bool, msg amqp091.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp091.Table) (<-chan amqp091.Delivery, error) {
	return f.deliveries, nil
}

func (f *fakeChannel) Close() error { return nil }

type fakeAck struct {
	acked, nacked, requeued int
}

func (a *fakeAck) Ack(uint64, bool) error {
	a.acked++
	return nil
}

func (a *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	if requeue {
		a.requeued++
	}
	return nil
}

func (a *fakeAck) Reject(uint64, bool) error { return nil }

func testDoc() quote.Document {
	return quote.Document{
		Filename:    "Orcamento_Ana_05-03-2024.txt",
		ContentType: quote.ContentType,
		Body:        []byte("ORÇAMENTO\n"),
		ClientName:  "Ana",
		Total:       "R$ 10,00",
		GeneratedAt: time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC),
	}
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // capped at 30s
		{10, 30 * time.Second}, // capped at 30s
		{64, 30 * time.Second}, // capped at 30s
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			if result != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, result, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("connection refused"), true},
		{"amqp closed", fmt.Errorf("start consuming: %w", amqp091.ErrClosed), true},
		{"not connected", errNotConnected, true},
		{"EOF error", errors.New("unexpected EOF"), true},
		{"broken pipe error", errors.New("broken pipe"), true},
		{"closed message channel", errors.New("message channel closed"), true},
		{"other error", errors.New("some other error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	client := &Client{exchangeName: "erp", queueName: "quotes"}

	t.Run("initial state is closed", func(t *testing.T) {
		if client.isCircuitOpen() {
			t.Error("Circuit breaker should be closed initially")
		}
	})

	t.Run("multiple failures open circuit", func(t *testing.T) {
		for i := 0; i < maxFailures; i++ {
			client.recordFailure()
		}
		if !client.isCircuitOpen() {
			t.Error("Circuit breaker should be open after max failures")
		}
	})

	t.Run("circuit transitions to half-open after timeout", func(t *testing.T) {
		client.lastFailure = time.Now().Add(-openTimeout - time.Second)
		if client.isCircuitOpen() {
			t.Error("Circuit should transition to half-open after timeout")
		}
		if atomic.LoadInt32(&client.state) != StateHalfOpen {
			t.Error("State should be StateHalfOpen after timeout")
		}
	})

	t.Run("a failure while half-open reopens", func(t *testing.T) {
		atomic.StoreInt64(&client.failureCount, 0)
		client.recordFailure()
		if atomic.LoadInt32(&client.state) != StateOpen {
			t.Error("State should be StateOpen")
		}
	})

	t.Run("record success resets state", func(t *testing.T) {
		client.recordSuccess()
		if client.isCircuitOpen() || atomic.LoadInt64(&client.failureCount) != 0 {
			t.Error("Circuit breaker should be closed after success")
		}
	})
}

func TestPublishQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes the document", func(t *testing.T) {
		ch := &fakeChannel{}
		client := &Client{exchangeName: "erp", queueName: "quotes", channel: ch}

		if err := client.Deliver(ctx, testDoc()); err != nil {
			t.Fatalf("Deliver() error = %v", err)
		}
		if len(ch.published) != 1 {
			t.Fatalf("published %d messages", len(ch.published))
		}
		msg, err := QuoteMessageFromJSON(ch.published[0].Body)
		if err != nil {
			t.Fatalf("decode published message: %v", err)
		}
		if msg.Filename != testDoc().Filename || string(msg.Body) != "ORÇAMENTO\n" {
			t.Errorf("unexpected message %+v", msg)
		}
		if ch.published[0].DeliveryMode != amqp091.Persistent {
			t.Error("quote messages must be persistent")
		}
	})

	t.Run("fails fast when circuit is open", func(t *testing.T) {
		client := &Client{channel: &fakeChannel{}}
		atomic.StoreInt32(&client.state, StateOpen)
		client.lastFailure = time.Now()

		err := client.PublishQuote(ctx, testDoc())
		if !errors.Is(err, errCircuitOpen) {
			t.Errorf("expected circuit breaker error, got %v", err)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		client := &Client{channel: &fakeChannel{}}
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		if err := client.PublishQuote(cctx, testDoc()); err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("broker errors count as failures", func(t *testing.T) {
		client := &Client{channel: &fakeChannel{publishErr: errors.New("channel/connection is not open")}}
		for i := 0; i < maxFailures; i++ {
			if err := client.PublishQuote(ctx, testDoc()); err == nil {
				t.Fatal("expected publish error")
			}
		}
		if !client.isCircuitOpen() {
			t.Error("circuit should open after repeated broker errors")
		}
	})

	t.Run("not connected", func(t *testing.T) {
		client := &Client{}
		if err := client.PublishQuote(ctx, testDoc()); !errors.Is(err, errNotConnected) {
			t.Errorf("expected not connected, got %v", err)
		}
	})
}

func TestConsumeQuotes(t *testing.T) {
	good, _ := NewQuoteMessage(testDoc()).ToJSON()
	ack := &fakeAck{}
	ch := &fakeChannel{deliveries: make(chan amqp091.Delivery, 3)}
	ch.deliveries <- amqp091.Delivery{Acknowledger: ack, Body: good}
	ch.deliveries <- amqp091.Delivery{Acknowledger: ack, Body: []byte(`{"filename":`)}
	ch.deliveries <- amqp091.Delivery{Acknowledger: ack, Body: good}

	client := &Client{queueName: "quotes", channel: ch}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var handled []string
	calls := 0
	err := client.ConsumeQuotes(ctx, func(_ context.Context, msg *QuoteMessage) error {
		calls++
		handled = append(handled, msg.Document().Filename)
		if calls == 2 {
			cancel()
			return errors.New("disk full")
		}
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ConsumeQuotes() error = %v", err)
	}
	if len(handled) != 2 || !strings.HasPrefix(handled[0], "Orcamento_Ana") {
		t.Errorf("handled = %v", handled)
	}
	if ack.acked != 1 || ack.nacked != 2 || ack.requeued != 1 {
		t.Errorf("acks = %+v", ack)
	}
}

func TestQuoteMessageFromJSON(t *testing.T) {
	if _, err := QuoteMessageFromJSON([]byte(`{"filename": 3}`)); err == nil {
		t.Error("expected decode error")
	}
	if _, err := QuoteMessageFromJSON([]byte(`{"body": "T1JD"}`)); !errors.Is(err, errMissingFilename) {
		t.Errorf("expected missing filename, got %v", err)
	}
}
