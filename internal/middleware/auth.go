package middleware

import (
	"net/http"

	"github.com/templui/golfjournal/internal/ctxkeys"
	"github.com/templui/golfjournal/internal/service"
)

// AuthMiddleware resolves the session cookie to a user and adds it to the
// context. A bad session clears the cookie and continues signed out.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get JWT from cookie
			cookie, err := r.Cookie(service.AuthCookieName)
			if err != nil {
				// No cookie, continue signed out
				next.ServeHTTP(w, r)
				return
			}

			// Verify token and fetch user from database
			user, err := authService.CurrentUser(r.Context(), cookie.Value)
			if err != nil {
				// Invalid token or deleted user, clear cookie and continue
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			// Add user to context
			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth sends signed-out visitors to the sign-in prompt.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			// For HTMX requests, use HX-Redirect header to force full page redirect
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/auth")
				w.WriteHeader(http.StatusSeeOther)
				return
			}
			http.Redirect(w, r, "/auth", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// RequireGuest keeps signed-in users out of the sign-in pages.
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user != nil {
			// Same HX-Redirect handling as RequireAuth
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/app/stats")
				w.WriteHeader(http.StatusSeeOther)
				return
			}
			http.Redirect(w, r, "/app/stats", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}
