package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PromptManager/internal/pkg/header"
)

func render(t *testing.T, in header.Input) string {
	t.Helper()
	out, err := RenderString(context.Background(), Header(header.Resolve(in), "tok"))
	require.NoError(t, err)
	return out
}

func TestHeaderSignedOut(t *testing.T) {
	out := render(t, header.Input{Path: "/"})

	assert.Contains(t, out, `href="/auth/google"`)
	assert.Contains(t, out, "Sign in")
	assert.NotContains(t, out, "PRO")
	assert.NotContains(t, out, "Upgrade")
	assert.NotContains(t, out, "/logout")
	assert.Contains(t, out, `<a href="/" class="active" aria-current="page">Home</a>`)
	assert.Contains(t, out, `<a href="/pricing">Pricing</a>`)
}

func TestHeaderPro(t *testing.T) {
	out := render(t, header.Input{Path: "/prompts", SignedIn: true, UserID: "u", Username: "Ada", IsPro: true})

	assert.Contains(t, out, "PRO")
	assert.NotContains(t, out, "Upgrade")
	assert.NotContains(t, out, "Sign in")
	assert.Contains(t, out, `action="/logout"`)
	assert.Contains(t, out, `name="_csrf" value="tok"`)
	assert.Contains(t, out, `<a href="/prompts" class="active" aria-current="page">Prompts</a>`)
}

func TestHeaderUpgrade(t *testing.T) {
	out := render(t, header.Input{SignedIn: true, UserID: "google:1", CheckoutBaseURL: "https://buy.stripe.com/x"})

	assert.Contains(t, out, `href="https://buy.stripe.com/x?client_reference_id=google%3A1"`)
	assert.NotContains(t, out, "PRO")
	assert.NotContains(t, out, "btn-disabled")
}

func TestHeaderUpgradeDisabledWithoutLink(t *testing.T) {
	out := render(t, header.Input{SignedIn: true, UserID: "google:1"})

	assert.Contains(t, out, `aria-disabled="true">Upgrade`)
	assert.NotContains(t, out, `href="#"`)
}

func TestHeaderPending(t *testing.T) {
	out := render(t, header.Input{SignedIn: true, UserID: "u", IsPro: true, Loading: true})

	assert.Contains(t, out, `hx-get="/partials/header"`)
	assert.Contains(t, out, `hx-trigger="load delay:2s"`)
	assert.NotContains(t, out, "PRO")
	assert.NotContains(t, out, "Upgrade")
	assert.Contains(t, out, `data-branch="pending"`)
}

func TestHeaderEscapesUserInput(t *testing.T) {
	out := render(t, header.Input{SignedIn: true, UserID: "u", IsPro: true, Username: `<script>alert(1)</script>`})

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestHeaderSanitizesUnsafeURL(t *testing.T) {
	s := header.State{Branch: header.BranchSignedOut, SignInPath: "javascript:alert(1)"}
	var buf bytes.Buffer
	require.NoError(t, Header(s, "").Render(context.Background(), &buf))
	assert.False(t, strings.Contains(buf.String(), "javascript:"))
}

func TestHeaderStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Header(header.Resolve(header.Input{Path: "/"}), "").Render(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}
