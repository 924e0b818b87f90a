package billing

import (
	"errors"

	"github.com/ManuelReschke/PromptManager/app/models"
)

var (
	// ErrInvalidSignature is returned for deliveries that fail Stripe signature verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrInvalidPayload is returned when a verified event carries an undecodable object.
	ErrInvalidPayload = errors.New("invalid webhook payload")
)

// Outcome describes how a verified webhook delivery was handled.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
	// OutcomeUnmatched means no customer record matched the event.
	OutcomeUnmatched Outcome = "unmatched"
)

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}

// customerChange is a customer update derived from a Stripe event, keyed
// either by user id or by Stripe customer id.
type customerChange struct {
	UserID           string
	StripeCustomerID string
	// SubscriptionID is the subscription a subscription event is about.
	SubscriptionID string
	// TakeOver lets the event replace a different stored subscription.
	TakeOver bool
	Update   models.CustomerUpdate
}
