package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/golfjournal/internal/model"
)

func TestAuthService_SignInAnonymous(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.SignInAnonymous(context.Background())
	require.NoError(t, err)
	assert.True(t, user.IsAnonymous())
	assert.Equal(t, model.ProviderAnonymous, user.Provider)
	assert.Equal(t, "Guest", user.DisplayName())
}

func TestAuthService_AuthenticateOAuth(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.auth.AuthenticateOAuth(ctx, " Ada@Example.com ", model.ProviderGoogle)
	require.NoError(t, err)
	require.NotNil(t, first.Email)
	assert.Equal(t, "ada@example.com", *first.Email)

	again, err := env.auth.AuthenticateOAuth(ctx, "ada@example.com", model.ProviderGitHub)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, err = env.auth.AuthenticateOAuth(ctx, "not-an-email", model.ProviderGoogle)
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestAuthService_SignInTokenIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, token, err := env.auth.IssueSignInToken(ctx, "golfer@example.com")
	require.NoError(t, err)
	assert.Len(t, token, 64)

	redeemed, err := env.auth.RedeemSignInToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, redeemed.ID)

	_, err = env.auth.RedeemSignInToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidSignInToken)
}

func TestAuthService_NewTokenRevokesOld(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, oldToken, err := env.auth.IssueSignInToken(ctx, "golfer@example.com")
	require.NoError(t, err)
	_, newToken, err := env.auth.IssueSignInToken(ctx, "golfer@example.com")
	require.NoError(t, err)

	_, err = env.auth.RedeemSignInToken(ctx, oldToken)
	assert.ErrorIs(t, err, ErrInvalidSignInToken)

	_, err = env.auth.RedeemSignInToken(ctx, newToken)
	assert.NoError(t, err)
}

func TestAuthService_SendSignInLinkInDevMode(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.auth.SendSignInLink(context.Background(), "golfer@example.com"))
	assert.ErrorIs(t, env.auth.SendSignInLink(context.Background(), "bad"), ErrInvalidEmail)
}

func TestAuthService_Session(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.newUser(t)

	rec := httptest.NewRecorder()
	require.NoError(t, env.auth.StartSession(rec, user))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AuthCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	current, err := env.auth.CurrentUser(ctx, cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)

	_, err = env.auth.CurrentUser(ctx, cookies[0].Value+"x")
	assert.Error(t, err)

	rec = httptest.NewRecorder()
	env.auth.ClearJWTCookie(rec)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
	assert.Equal(t, http.SameSiteLaxMode, cleared[0].SameSite)
}

func TestAuthService_CleanupTokens(t *testing.T) {
	env := newTestEnv(t)

	removed, err := env.auth.CleanupTokens(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}
