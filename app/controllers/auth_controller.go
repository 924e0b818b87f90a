package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ManuelReschke/PromptManager/internal/pkg/flash"
)

func (ac *AuthController) HandleAuthLogout(c *fiber.Ctx) error {
	sess, err := ac.sessions.Get(c)
	if err != nil {
		return flash.Error(c, "logged out (no session)").Redirect("/", fiber.StatusSeeOther)
	}

	if err := sess.Destroy(); err != nil {
		ac.log.Error("error destroying session", zap.Error(err))
		return flash.Error(c, "Something went wrong while signing out.").Redirect("/", fiber.StatusSeeOther)
	}

	return flash.Success(c, "You have been signed out.").Redirect("/", fiber.StatusSeeOther)
}
