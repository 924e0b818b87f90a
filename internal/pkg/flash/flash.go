// Package flash wraps the cookie flash messages shown by the page layout.
package flash

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
)

// Flash message key in Locals
const FlashKey = "flash"

// Error queues an error message for the next rendered page.
func Error(c *fiber.Ctx, message string) *fiber.Ctx {
	return flash.WithError(c, fiber.Map{"type": "error", "message": message})
}

// Success queues a success message for the next rendered page.
func Success(c *fiber.Ctx, message string) *fiber.Ctx {
	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": message})
}

// Set sets a flash message for the current request only
func Set(c *fiber.Ctx, message fiber.Map) {
	c.Locals(FlashKey, message)
}

// Get returns the message for the current request, preferring one set with
// Set over the one carried by the flash cookie. It returns nil when there is
// nothing to show.
func Get(c *fiber.Ctx) fiber.Map {
	if m, ok := c.Locals(FlashKey).(fiber.Map); ok && m["message"] != nil {
		return m
	}
	if m := flash.Get(c); m["message"] != nil {
		return m
	}
	return nil
}
