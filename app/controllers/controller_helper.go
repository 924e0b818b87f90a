package controllers

import (
	"context"
	"html/template"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PromptManager/internal/pkg/flash"
	"github.com/ManuelReschke/PromptManager/internal/pkg/membership"
	"github.com/ManuelReschke/PromptManager/internal/pkg/usercontext"
	"github.com/ManuelReschke/PromptManager/internal/pkg/viewmodel"
	"github.com/ManuelReschke/PromptManager/views"
)

// membershipTimeout bounds the membership lookup of a single page render.
const membershipTimeout = 3 * time.Second

// MembershipReader resolves the membership of a user.
type MembershipReader interface {
	Status(ctx context.Context, userID string) membership.Status
}

// csrfToken returns the token set by the csrf middleware, if any.
func csrfToken(c *fiber.Ctx) string {
	if token, ok := c.Locals("csrf").(string); ok {
		return token
	}
	return ""
}

// currentPath is the path of the page the request belongs to. htmx requests
// for partials report the page in HX-Current-URL.
func currentPath(c *fiber.Ctx) string {
	if raw := c.Get("HX-Current-URL"); raw != "" {
		if u, err := url.Parse(raw); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return c.Path()
}

func newLayout(c *fiber.Ctx, page, title string, headerHTML string) viewmodel.Layout {
	userCtx := usercontext.GetUserContext(c)
	return viewmodel.Layout{
		Page:       page,
		Title:      title,
		Header:     template.HTML(headerHTML),
		Flash:      flash.Get(c),
		IsLoggedIn: userCtx.IsLoggedIn,
		Username:   userCtx.Username,
	}
}

func renderPage(c *fiber.Ctx, layout viewmodel.Layout) error {
	return c.Render(layout.Page, layout, views.Layout)
}
