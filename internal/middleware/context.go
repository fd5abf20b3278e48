package middleware

import (
	"net/http"

	"github.com/templui/golfjournal/internal/config"
	"github.com/templui/golfjournal/internal/ctxkeys"
)

// Chain wraps h so that middlewares run in the order given.
//
//	handler := Chain(mux,
//	    RequestLogging, // outermost
//	    Config(cfg),
//	    AuthMiddleware(authService), // innermost
//	)
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// Config puts the sanitized configuration in the request context for
// templates. Secrets never reach the context.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	safe := cfg.Sanitized()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), safe)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithURLPath records the request path so the navigation can mark the
// active view.
func WithURLPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxkeys.WithURLPath(r.Context(), r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
