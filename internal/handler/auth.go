package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/golfjournal/internal/config"
	"github.com/templui/golfjournal/internal/ctxkeys"
	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/service"
	"github.com/templui/golfjournal/internal/ui"
	"github.com/templui/golfjournal/internal/validation"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateCookie = "oauth_state"
	signedInPath     = "/app/stats"
	oauthFailed      = "Sign-in failed. Please try again."
)

type authHandler struct {
	authService       *service.AuthService
	live              *LiveHub
	googleOAuthConfig *oauth2.Config
	githubOAuthConfig *oauth2.Config
}

func NewAuthHandler(authService *service.AuthService, live *LiveHub, cfg *config.Config) *authHandler {
	return &authHandler{
		authService: authService,
		live:        live,
		googleOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/google/callback",
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
			Endpoint:     google.Endpoint,
		},
		githubOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/github/callback",
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (h *authHandler) AuthPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.SignIn(ui.SignInState{}))
}

func (h *authHandler) Anonymous(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.SignInAnonymous(r.Context())
	if err != nil {
		slog.Error("anonymous sign-in failed", "error", err)
		ui.Render(w, r, ui.SignIn(ui.SignInState{Error: oauthFailed}))
		return
	}
	h.startSession(w, r, user)
}

// SendToken emails a sign-in link. The response is the same whether or not
// sending worked so addresses cannot be enumerated.
func (h *authHandler) SendToken(w http.ResponseWriter, r *http.Request) {
	email := validation.NormalizeEmail(r.FormValue("email"))

	if email == "" {
		ui.Render(w, r, ui.SignIn(ui.SignInState{Error: "Email is required"}))
		return
	}

	err := validation.ValidateEmail(email)
	if err != nil {
		ui.Render(w, r, ui.SignIn(ui.SignInState{Error: "Please provide a valid email address", Email: email}))
		return
	}

	err = h.authService.SendSignInLink(r.Context(), email)
	if err != nil {
		slog.Warn("sign-in link send failed", "error", err)
	}

	ui.Render(w, r, ui.SignIn(ui.SignInState{Email: email, EmailSent: true}))
}

func (h *authHandler) RedeemToken(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.RedeemSignInToken(r.Context(), r.PathValue("token"))
	if err != nil {
		if !errors.Is(err, service.ErrInvalidSignInToken) {
			slog.Error("sign-in token redemption failed", "error", err)
		}
		ui.Render(w, r, ui.SignIn(ui.SignInState{Error: "Invalid or expired sign-in link. Please request a new one."}))
		return
	}
	h.startSession(w, r, user)
}

// Logout ends the session and drops this browser's live feeds.
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(service.AuthCookieName)
	if err == nil {
		h.live.CloseSession(cookie.Value)
	}
	h.authService.ClearJWTCookie(w)
	http.Redirect(w, r, "/auth", http.StatusSeeOther)
}

func (h *authHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	h.redirectToProvider(w, r, h.googleOAuthConfig)
}

func (h *authHandler) GitHubAuth(w http.ResponseWriter, r *http.Request) {
	h.redirectToProvider(w, r, h.githubOAuthConfig)
}

func (h *authHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	client, ok := h.exchange(w, r, h.googleOAuthConfig)
	if !ok {
		return
	}

	var userInfo struct {
		Email string `json:"email"`
	}
	err := getJSON(client, "https://www.googleapis.com/oauth2/v2/userinfo", &userInfo)
	if err != nil {
		slog.Error("failed to get google user info", "error", err)
		ui.Render(w, r, ui.SignIn(ui.SignInState{Error: oauthFailed}))
		return
	}

	h.completeOAuth(w, r, userInfo.Email, model.ProviderGoogle)
}

func (h *authHandler) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	client, ok := h.exchange(w, r, h.githubOAuthConfig)
	if !ok {
		return
	}

	var userInfo struct {
		Email string `json:"email"`
	}
	err := getJSON(client, "https://api.github.com/user", &userInfo)
	if err != nil {
		slog.Error("failed to get github user info", "error", err)
		ui.Render(w, r, ui.SignIn(ui.SignInState{Error: oauthFailed}))
		return
	}

	// private addresses are only listed on /user/emails
	if userInfo.Email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		err = getJSON(client, "https://api.github.com/user/emails", &emails)
		if err != nil {
			slog.Error("failed to get github user emails", "error", err)
			ui.Render(w, r, ui.SignIn(ui.SignInState{Error: oauthFailed}))
			return
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				userInfo.Email = e.Email
				break
			}
		}
	}

	if userInfo.Email == "" {
		slog.Warn("github oauth: no email found")
		ui.Render(w, r, ui.SignIn(ui.SignInState{Error: "Could not retrieve a verified email from GitHub."}))
		return
	}

	h.completeOAuth(w, r, userInfo.Email, model.ProviderGitHub)
}

func (h *authHandler) redirectToProvider(w http.ResponseWriter, r *http.Request, oc *oauth2.Config) {
	state := generateOAuthState()

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})

	http.Redirect(w, r, oc.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// exchange checks the state cookie and trades the code for an HTTP client
// authorized against the provider API. It renders the failure itself.
func (h *authHandler) exchange(w http.ResponseWriter, r *http.Request, oc *oauth2.Config) (*http.Client, bool) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		slog.Warn("oauth state validation failed", "error", err)
		ui.Render(w, r, ui.SignIn(ui.SignInState{Error: oauthFailed}))
		return nil, false
	}

	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("oauth callback missing code")
		ui.Render(w, r, ui.SignIn(ui.SignInState{Error: oauthFailed}))
		return nil, false
	}

	token, err := oc.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("oauth token exchange failed", "error", err)
		ui.Render(w, r, ui.SignIn(ui.SignInState{Error: oauthFailed}))
		return nil, false
	}

	return oc.Client(r.Context(), token), true
}

func (h *authHandler) completeOAuth(w http.ResponseWriter, r *http.Request, email, provider string) {
	user, err := h.authService.AuthenticateOAuth(r.Context(), email, provider)
	if err != nil {
		slog.Error("oauth authentication failed", "error", err, "provider", provider)
		ui.Render(w, r, ui.SignIn(ui.SignInState{Error: oauthFailed}))
		return
	}
	h.startSession(w, r, user)
}

func (h *authHandler) startSession(w http.ResponseWriter, r *http.Request, user *model.User) {
	err := h.authService.StartSession(w, user)
	if err != nil {
		slog.Error("failed to start session", "error", err, "user_id", user.ID)
		ui.Render(w, r, ui.SignIn(ui.SignInState{Error: oauthFailed}))
		return
	}

	slog.Info("user signed in", "user_id", user.ID, "provider", user.Provider)
	http.Redirect(w, r, signedInPath, http.StatusSeeOther)
}

func getJSON(client *http.Client, url string, dst any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", strings.TrimPrefix(url, "https://"), resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// generateOAuthState creates a random state token for the OAuth round trip.
func generateOAuthState() string {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic("failed to generate oauth state: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
