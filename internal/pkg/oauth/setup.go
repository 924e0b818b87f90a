// Package oauth registers the goth sign-in providers.
package oauth

import (
	"strings"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/github"
	"github.com/markbates/goth/providers/google"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/ManuelReschke/PromptManager/internal/pkg/config"
)

// StateCookieName is the cookie that carries the OAuth state session.
var StateCookieName = gothic.SessionName

// Setup registers the configured providers and the store goth keeps OAuth
// state in. Providers without credentials are skipped. It is safe to call
// multiple times; providers will just be re-registered.
func Setup(cfg *config.Config, stateStore *session.Store) []string {
	base := cfg.BaseURL()

	var providers []goth.Provider
	if cfg.OAuth.GoogleKey != "" && cfg.OAuth.GoogleSecret != "" {
		providers = append(providers, google.New(
			cfg.OAuth.GoogleKey,
			cfg.OAuth.GoogleSecret,
			base+"/auth/google/callback",
			"email", "profile",
		))
	}
	if cfg.OAuth.GitHubKey != "" && cfg.OAuth.GitHubSecret != "" {
		providers = append(providers, github.New(
			cfg.OAuth.GitHubKey,
			cfg.OAuth.GitHubSecret,
			base+"/auth/github/callback",
			"read:user", "user:email",
		))
	}

	goth.ClearProviders()
	goth.UseProviders(providers...)
	if stateStore != nil {
		gothfiber.SessionStore = stateStore
	}

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	return names
}

// UserID derives the opaque account identifier from a provider identity.
// It is stable across sign-ins and unique across providers.
func UserID(provider, providerUserID string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	providerUserID = strings.TrimSpace(providerUserID)
	if provider == "" || providerUserID == "" {
		return ""
	}
	return provider + ":" + providerUserID
}

// DisplayName picks the first non-empty name the provider returned.
func DisplayName(u goth.User) string {
	for _, v := range []string{u.Name, u.NickName, u.Email} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return "User"
}
