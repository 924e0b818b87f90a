package apiv1

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PromptManager/internal/pkg/membership"
	"github.com/ManuelReschke/PromptManager/internal/pkg/usercontext"
)

// MembershipReader resolves the membership of a user.
type MembershipReader interface {
	Status(ctx context.Context, userID string) membership.Status
}

// APIServer implements the ServerInterface
type APIServer struct {
	membership MembershipReader
}

// NewAPIServer creates a new API server instance
func NewAPIServer(m MembershipReader) *APIServer {
	return &APIServer{membership: m}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(Pong{Ping: "pong"})
}

// GetMembership returns the membership state of the signed-in user.
// Security is enforced via session middleware attached in the router.
func (s *APIServer) GetMembership(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(Error{Error: "unauthorized", Message: "login required"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	st := s.membership.Status(ctx, userCtx.UserID)
	return c.Status(fiber.StatusOK).JSON(Membership{IsPro: st.IsPro, Loading: st.Loading})
}
