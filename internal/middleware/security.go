package middleware

import (
	"fmt"
	"net/http"
)

// SecurityHeaders sets the CSP and related headers. Must run after
// NonceMiddleware. connect-src allows the live feed websocket on the same host.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce := GetNonce(r.Context())

		scriptSrc := "'self'"
		if nonce != "" {
			scriptSrc = fmt.Sprintf("'self' 'nonce-%s'", nonce)
		}

		csp := fmt.Sprintf(
			"default-src 'self'; script-src %s; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self' ws: wss:; frame-ancestors 'none'; base-uri 'self'; form-action 'self'",
			scriptSrc,
		)

		h := w.Header()
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		next.ServeHTTP(w, r)
	})
}
