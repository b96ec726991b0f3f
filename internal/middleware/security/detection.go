package security

import (
	"log/slog"
	"net/http"
	"strings"

	applog "erp/internal/log"
	"erp/internal/metrics"
)

// Reasons reported when a request is rejected
const (
	ReasonPattern = "pattern"
	ReasonMethod  = "method"
	ReasonLength  = "length"
)

const maxURLLength = 2048

var suspiciousPatterns = []string{
	"../", "..\\", ".env", ".git", ".ssh",
	"wp-admin", "phpmyadmin", ".php",
	"<script", "javascript:", "union select", "etc/passwd",
}

var unusualMethods = []string{"TRACE", "TRACK", "DEBUG", "CONNECT"}

// Detector screens dashboard requests for probing patterns. The dashboard
// only ever serves its own pages, so anything matching is answered with
// 400 before it reaches a handler.
type Detector struct {
	logger *slog.Logger
}

func NewDetector(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{logger: logger.With(applog.FieldComponent, applog.ComponentSecurity)}
}

// Inspect returns the reason a request looks suspicious, or "".
func (d *Detector) Inspect(r *http.Request) string {
	for _, m := range unusualMethods {
		if r.Method == m {
			return ReasonMethod
		}
	}
	if len(r.URL.String()) > maxURLLength {
		return ReasonLength
	}
	path := strings.ToLower(r.URL.Path)
	query := strings.ToLower(r.URL.RawQuery)
	for _, p := range suspiciousPatterns {
		if strings.Contains(path, p) || strings.Contains(query, p) {
			return ReasonPattern
		}
	}
	return ""
}

func (d *Detector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reason := d.Inspect(r); reason != "" {
			metrics.SuspiciousRequests.WithLabelValues(reason).Inc()
			d.logger.WarnContext(r.Context(), "Suspicious request rejected",
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldClientIP, r.RemoteAddr,
				"reason", reason)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}
