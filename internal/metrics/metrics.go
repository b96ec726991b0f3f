// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var LedgerMutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "erp",
	Name:      "ledger_mutations_total",
	Help:      "Ledger entries added or removed",
}, []string{"ledger", "op"})

var ValidationRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "erp",
	Name:      "validation_rejections_total",
	Help:      "Inputs rejected before reaching a ledger or a quote",
}, []string{"target"})

var PersistenceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "erp",
	Name:      "persistence_failures_total",
	Help:      "Slot loads or saves that fell back to the in-memory value",
}, []string{"slot", "op"})

var LedgerEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "erp",
	Name:      "ledger_entries",
	Help:      "Entries currently held by each ledger",
}, []string{"ledger"})

var QuotesGenerated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "erp",
	Name:      "quotes_generated_total",
	Help:      "Quote documents generated",
})

var QuoteDeliveryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "erp",
	Name:      "quote_delivery_failures_total",
	Help:      "Quote documents a delivery target failed to accept",
}, []string{"target"})

var QuoteSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "erp",
	Name:      "quote_sessions",
	Help:      "Quote drafts currently held by the dashboard",
})

var SuspiciousRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "erp",
	Name:      "suspicious_requests_total",
	Help:      "Dashboard requests rejected by the request screen",
}, []string{"reason"})
