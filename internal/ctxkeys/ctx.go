package ctxkeys

import (
	"context"

	"github.com/templui/golfjournal/internal/config"
	"github.com/templui/golfjournal/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey      contextKey = "user"
	URLPathKey   contextKey = "url_path"
	ConfigKey    contextKey = "config"
	CSRFTokenKey contextKey = "csrf_token"
)

func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

func URLPath(ctx context.Context) string {
	path, _ := ctx.Value(URLPathKey).(string)
	return path
}

func WithURLPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, URLPathKey, path)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}
