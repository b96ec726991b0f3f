package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(okHandler())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options=%q", got)
	}
	if csp := rr.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "https://unpkg.com") {
		t.Fatalf("csp does not allow htmx: %q", csp)
	}
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS must not be sent over plain http")
	}

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	h.ServeHTTP(rr, req)
	if !strings.HasPrefix(rr.Header().Get("Strict-Transport-Security"), "max-age=31536000") {
		t.Fatalf("missing HSTS over tls: %q", rr.Header().Get("Strict-Transport-Security"))
	}
}

func TestDetector(t *testing.T) {
	d := NewDetector(nil)
	cases := []struct {
		method string
		target string
		want   string
	}{
		{http.MethodGet, "/", ""},
		{http.MethodPost, "/revenues", ""},
		{http.MethodGet, "/api/summary?x=1", ""},
		{http.MethodGet, "/static/../.env", ReasonPattern},
		{http.MethodGet, "/wp-admin/", ReasonPattern},
		{http.MethodGet, "/?next=javascript:alert(1)", ReasonPattern},
		{"TRACE", "/", ReasonMethod},
		{http.MethodGet, "/?q=" + strings.Repeat("a", maxURLLength), ReasonLength},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.target, nil)
		if got := d.Inspect(req); got != tc.want {
			t.Errorf("%s %s: reason=%q want %q", tc.method, tc.target, got, tc.want)
		}
	}

	rr := httptest.NewRecorder()
	d.Middleware(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/.git/config", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want 400", rr.Code)
	}
}
