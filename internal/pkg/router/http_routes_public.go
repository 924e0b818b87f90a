package router

import (
	"github.com/ManuelReschke/PromptManager/internal/pkg/constants"
	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Social OAuth
	app.Get(constants.AuthRoute+"/:provider", gothfiber.BeginAuthHandler)
	app.Get(constants.AuthRoute+"/:provider/callback", h.deps.Auth.HandleOAuthCallback)

	// Billing provider webhooks (no CSRF, signature-verified in service)
	app.Post(constants.StripeWebhookRoute, h.deps.Webhooks.HandleStripeWebhook)
}
