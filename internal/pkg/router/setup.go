package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/ManuelReschke/PromptManager/app/controllers"
	apiv1 "github.com/ManuelReschke/PromptManager/internal/api/v1"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// Dependencies are the wired controllers the routes dispatch to.
type Dependencies struct {
	Sessions     *session.Store
	SecureCookie bool
	Pages        *controllers.PageController
	Auth         *controllers.AuthController
	Webhooks     *controllers.WebhookController
	API          *apiv1.APIServer
}

func InstallRouter(app *fiber.App, deps Dependencies) {
	// Install HttpRouter first to install the global UserContext middleware.
	// Then register API routes which depend on that middleware.
	setup(app, NewHttpRouter(deps), NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
