package oauth

import (
	"testing"

	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PromptManager/internal/pkg/config"
)

func TestSetupRegistersConfiguredProviders(t *testing.T) {
	cfg := &config.Config{
		Port: "4000",
		OAuth: config.OAuth{
			GoogleKey:    "gk",
			GoogleSecret: "gs",
		},
	}

	names := Setup(cfg, nil)
	assert.Equal(t, []string{"google"}, names)

	p, err := goth.GetProvider("google")
	require.NoError(t, err)
	assert.Equal(t, "google", p.Name())
	_, err = goth.GetProvider("github")
	assert.Error(t, err)

	cfg.OAuth.GitHubKey, cfg.OAuth.GitHubSecret = "hk", "hs"
	assert.ElementsMatch(t, []string{"google", "github"}, Setup(cfg, nil))
}

func TestUserID(t *testing.T) {
	assert.Equal(t, "google:123", UserID("Google", " 123 "))
	assert.Empty(t, UserID("", "123"))
	assert.Empty(t, UserID("github", ""))
	assert.NotEqual(t, UserID("google", "1"), UserID("github", "1"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada", DisplayName(goth.User{Name: "Ada", NickName: "ada"}))
	assert.Equal(t, "ada", DisplayName(goth.User{NickName: "ada", Email: "a@b.c"}))
	assert.Equal(t, "a@b.c", DisplayName(goth.User{Email: "a@b.c"}))
	assert.Equal(t, "User", DisplayName(goth.User{}))
}
