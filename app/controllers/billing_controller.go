package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PromptManager/internal/pkg/billing"
)

// StripeWebhookProcessor handles a raw Stripe delivery.
type StripeWebhookProcessor interface {
	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) (billing.Outcome, error)
}

// WebhookController receives billing provider callbacks.
type WebhookController struct {
	stripe StripeWebhookProcessor
}

func NewWebhookController(stripe StripeWebhookProcessor) *WebhookController {
	return &WebhookController{stripe: stripe}
}

// HandleStripeWebhook answers 2xx for every delivery that needs no retry.
func (wc *WebhookController) HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := c.Get("Stripe-Signature")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	outcome, err := wc.stripe.HandleStripeWebhook(ctx, rawBody, signature)
	switch {
	case errors.Is(err, billing.ErrInvalidSignature):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_signature"})
	case errors.Is(err, billing.ErrInvalidPayload):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_processing_failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "outcome": outcome})
}
