package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/markbates/goth"
	gothfiber "github.com/shareed2k/goth_fiber"
	"go.uber.org/zap"

	"github.com/ManuelReschke/PromptManager/app/models"
	"github.com/ManuelReschke/PromptManager/internal/pkg/customer"
	"github.com/ManuelReschke/PromptManager/internal/pkg/flash"
	"github.com/ManuelReschke/PromptManager/internal/pkg/oauth"
	"github.com/ManuelReschke/PromptManager/internal/pkg/usercontext"
)

// CustomerAccounts is the part of the customer service sign-in needs.
type CustomerAccounts interface {
	Create(ctx context.Context, in *models.Customer) (*models.Customer, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Customer, error)
}

// CompleteAuthFunc finishes the provider flow of the current request.
type CompleteAuthFunc func(c *fiber.Ctx) (goth.User, error)

// AuthController signs users in through OAuth providers and out again.
type AuthController struct {
	customers CustomerAccounts
	sessions  *session.Store
	complete  CompleteAuthFunc
	log       *zap.Logger
}

// NewAuthController creates an auth controller. A nil complete uses goth.
func NewAuthController(customers CustomerAccounts, sessions *session.Store, complete CompleteAuthFunc, log *zap.Logger) *AuthController {
	if complete == nil {
		complete = func(c *fiber.Ctx) (goth.User, error) {
			return gothfiber.CompleteUserAuth(c)
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthController{customers: customers, sessions: sessions, complete: complete, log: log.Named("auth")}
}

// HandleOAuthCallback completes the provider flow, makes sure the account has
// a customer record and logs the user in.
func (ac *AuthController) HandleOAuthCallback(c *fiber.Ctx) error {
	u, err := ac.complete(c)
	if err != nil {
		ac.log.Warn("oauth callback failed", zap.String("provider", c.Params("provider")), zap.Error(err))
		return flash.Error(c, "Sign-in failed. Please try again.").Redirect("/", fiber.StatusSeeOther)
	}

	userID := oauth.UserID(u.Provider, u.UserID)
	if userID == "" {
		ac.log.Warn("oauth callback without user id", zap.String("provider", u.Provider))
		return flash.Error(c, "Sign-in failed. Please try again.").Redirect("/", fiber.StatusSeeOther)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()
	if err := ac.ensureCustomer(ctx, userID); err != nil {
		return flash.Error(c, "Your account could not be set up. Please try again.").Redirect("/", fiber.StatusSeeOther)
	}

	sess, err := ac.sessions.Get(c)
	if err != nil {
		ac.log.Error("error loading session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("session init failed")
	}
	// New session id on privilege change.
	if err := sess.Regenerate(); err != nil {
		ac.log.Error("error regenerating session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("session init failed")
	}
	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, userID)
	sess.Set(usercontext.KeyUsername, oauth.DisplayName(u))
	if err := sess.Save(); err != nil {
		ac.log.Error("error saving session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("session save failed")
	}

	// Ensure HTMX boosted flows perform a full redirect
	c.Set("HX-Redirect", "/")
	return c.Redirect("/", fiber.StatusSeeOther)
}

// ensureCustomer creates the customer record on the first sign-in. A failed
// create is re-checked so two concurrent first sign-ins both succeed.
func (ac *AuthController) ensureCustomer(ctx context.Context, userID string) error {
	rows, err := ac.customers.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := customer.First(rows); ok {
		return nil
	}

	_, createErr := ac.customers.Create(ctx, &models.Customer{UserID: userID, Membership: models.MEMBERSHIP_FREE})
	if createErr == nil {
		ac.log.Info("customer created on first sign-in", zap.String("user_id", userID))
		return nil
	}

	rows, err = ac.customers.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := customer.First(rows); ok {
		return nil
	}
	return createErr
}
