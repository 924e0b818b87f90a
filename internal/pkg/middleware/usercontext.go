package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/ManuelReschke/PromptManager/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the user context for every request from the
// app session.
func UserContextMiddleware(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Goth keeps its own session on /auth/*; skip the app session there
		// to prevent cross-store collisions.
		if strings.HasPrefix(c.Path(), "/auth/") {
			usercontext.Set(c, usercontext.Anonymous)
			return c.Next()
		}

		sess, err := store.Get(c)
		if err != nil {
			usercontext.Set(c, usercontext.Anonymous)
			return c.Next()
		}

		userID, _ := sess.Get(usercontext.KeyUserID).(string)
		if userID == "" {
			usercontext.Set(c, usercontext.Anonymous)
			return c.Next()
		}

		username, _ := sess.Get(usercontext.KeyUsername).(string)
		usercontext.Set(c, usercontext.UserContext{
			UserID:     userID,
			Username:   username,
			IsLoggedIn: true,
		})
		return c.Next()
	}
}
