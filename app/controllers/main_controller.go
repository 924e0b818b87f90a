package controllers

import (
	"context"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"github.com/ManuelReschke/PromptManager/internal/pkg/header"
	"github.com/ManuelReschke/PromptManager/internal/pkg/membership"
	"github.com/ManuelReschke/PromptManager/internal/pkg/usercontext"
	"github.com/ManuelReschke/PromptManager/views"
)

// PageController renders the public pages and the navigation header.
type PageController struct {
	membership      MembershipReader
	checkoutBaseURL string
	signInPath      string
	log             *zap.Logger
}

// NewPageController creates a page controller. checkoutBaseURL is the Stripe
// payment link; empty disables upgrading.
func NewPageController(m MembershipReader, checkoutBaseURL, signInPath string, log *zap.Logger) *PageController {
	if log == nil {
		log = zap.NewNop()
	}
	return &PageController{
		membership:      m,
		checkoutBaseURL: checkoutBaseURL,
		signInPath:      signInPath,
		log:             log.Named("pages"),
	}
}

func (pc *PageController) status(c *fiber.Ctx) membership.Status {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return membership.Status{}
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), membershipTimeout)
	defer cancel()
	return pc.membership.Status(ctx, userCtx.UserID)
}

func (pc *PageController) headerState(c *fiber.Ctx, st membership.Status) header.State {
	userCtx := usercontext.GetUserContext(c)
	return header.Resolve(header.Input{
		Path:            currentPath(c),
		SignedIn:        userCtx.IsLoggedIn,
		UserID:          userCtx.UserID,
		Username:        userCtx.Username,
		IsPro:           st.IsPro,
		Loading:         st.Loading,
		CheckoutBaseURL: pc.checkoutBaseURL,
		SignInPath:      pc.signInPath,
	})
}

func (pc *PageController) render(c *fiber.Ctx, page, title string) error {
	st := pc.status(c)
	state := pc.headerState(c, st)
	headerHTML, err := views.RenderString(c.UserContext(), views.Header(state, csrfToken(c)))
	if err != nil {
		pc.log.Error("error rendering header", zap.String("page", page), zap.Error(err))
		return fiber.ErrInternalServerError
	}

	layout := newLayout(c, page, title, headerHTML)
	layout.IsPro = st.IsPro
	if state.Branch == header.BranchUpgrade {
		layout.CheckoutLink = state.CheckoutLink
		layout.CheckoutEnabled = state.UpgradeEnabled()
	}
	return renderPage(c, layout)
}

func (pc *PageController) HandleStart(c *fiber.Ctx) error {
	return pc.render(c, "index", "Home")
}

func (pc *PageController) HandlePricing(c *fiber.Ctx) error {
	return pc.render(c, "pricing", "Pricing")
}

func (pc *PageController) HandlePrompts(c *fiber.Ctx) error {
	return pc.render(c, "prompts", "Prompts")
}

// HandleHeaderPartial serves the header on its own for htmx swaps.
func (pc *PageController) HandleHeaderPartial(c *fiber.Ctx) error {
	state := pc.headerState(c, pc.status(c))
	c.Set(fiber.HeaderCacheControl, "no-store")
	return adaptor.HTTPHandler(templ.Handler(views.Header(state, csrfToken(c))))(c)
}
