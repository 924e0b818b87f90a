package router

import (
	"strings"
	"time"

	"github.com/ManuelReschke/PromptManager/internal/pkg/constants"
	"github.com/ManuelReschke/PromptManager/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   h.deps.SecureCookie,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get(constants.PublicRoute, h.deps.Pages.HandleStart)
	group.Get(constants.PricingRoute, h.deps.Pages.HandlePricing)
	group.Get(constants.PromptsRoute, middleware.RequireAuth, h.deps.Pages.HandlePrompts)
	group.Get(constants.HeaderPartialRoute, h.deps.Pages.HandleHeaderPartial)
	group.Post(constants.LogoutRoute, middleware.RequireAuth, h.deps.Auth.HandleAuthLogout)
}
