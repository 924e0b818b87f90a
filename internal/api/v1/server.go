package apiv1

import "github.com/gofiber/fiber/v2"

// Pong is the ping response body.
type Pong struct {
	Ping string `json:"ping"`
}

// Membership is the membership response body.
type Membership struct {
	IsPro   bool `json:"is_pro"`
	Loading bool `json:"loading"`
}

// Error is the body of every non-2xx API response.
type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ServerInterface lists the operations of public/docs/v1/openapi.yml.
type ServerInterface interface {
	// (GET /ping)
	GetPing(c *fiber.Ctx) error
	// (GET /membership)
	GetMembership(c *fiber.Ctx) error
}

// RegisterHandlers mounts the operations on router. Extra handlers run
// before every operation.
func RegisterHandlers(router fiber.Router, si ServerInterface, handlers ...fiber.Handler) {
	router.Get("/ping", si.GetPing)
	router.Get("/membership", append(handlers, si.GetMembership)...)
}
