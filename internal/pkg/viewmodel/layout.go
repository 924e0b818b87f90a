package viewmodel

import (
	"html/template"

	"github.com/gofiber/fiber/v2"
)

// Layout is the data every page template and the main layout read.
type Layout struct {
	Page       string
	Title      string
	Header     template.HTML
	Flash      fiber.Map
	IsLoggedIn bool
	Username   string
	IsPro      bool

	// CheckoutLink is the upgrade target on the pricing page.
	CheckoutLink    string
	CheckoutEnabled bool
}
