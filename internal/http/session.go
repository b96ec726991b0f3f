package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// sessionCookie names the cookie that ties a browser to its quote draft.
const sessionCookie = "erp_quote"

// quoteSession returns the caller's session id, issuing a new cookie when
// the request carries none (or a malformed one). It must run before the
// response header is written.
func quoteSession(w http.ResponseWriter, r *http.Request, ttl time.Duration) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
