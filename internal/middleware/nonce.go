package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

type nonceKey struct{}

// NonceMiddleware issues a per-request CSP nonce. Templates read it through
// templ.GetNonce; SecurityHeaders reads it through GetNonce.
func NonceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce, err := generateNonce()
		if err != nil {
			// inline scripts stay blocked without a nonce
			slog.Warn("failed to generate nonce", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := templ.WithNonce(r.Context(), nonce)
		ctx = context.WithValue(ctx, nonceKey{}, nonce)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetNonce(ctx context.Context) string {
	nonce, _ := ctx.Value(nonceKey{}).(string)
	return nonce
}

// generateNonce returns 16 random bytes, base64 encoded.
func generateNonce() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
