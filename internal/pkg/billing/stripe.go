package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ManuelReschke/PromptManager/app/models"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

var errNoClientReference = errors.New("checkout session has no client_reference_id")

// constructStripeEvent verifies the Stripe-Signature header against the
// endpoint secret and decodes the event envelope.
func constructStripeEvent(payload []byte, signature, secret string) (stripe.Event, error) {
	if strings.TrimSpace(secret) == "" || strings.TrimSpace(signature) == "" {
		return stripe.Event{}, ErrInvalidSignature
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return event, nil
}

// changeFromEvent derives the customer update carried by a Stripe event. A nil
// change with a nil error means the event type is not relevant.
func changeFromEvent(event stripe.Event) (*customerChange, error) {
	if event.Data == nil {
		return nil, fmt.Errorf("%w: event %s has no data", ErrInvalidPayload, event.ID)
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return changeFromCheckout(&session)

	case stripe.EventTypeCustomerSubscriptionCreated,
		stripe.EventTypeCustomerSubscriptionUpdated,
		stripe.EventTypeCustomerSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return changeFromSubscription(&sub, event.Type)

	default:
		return nil, nil
	}
}

func changeFromCheckout(session *stripe.CheckoutSession) (*customerChange, error) {
	userID := strings.TrimSpace(session.ClientReferenceID)
	if userID == "" {
		return nil, errNoClientReference
	}

	membership := models.MEMBERSHIP_PRO
	change := &customerChange{
		UserID: userID,
		Update: models.CustomerUpdate{Membership: &membership},
	}
	if session.Customer != nil && session.Customer.ID != "" {
		id := session.Customer.ID
		change.Update.StripeCustomerID = &id
	}
	if session.Subscription != nil && session.Subscription.ID != "" {
		id := session.Subscription.ID
		change.Update.StripeSubscriptionID = &id
	}
	return change, nil
}

// changeFromSubscription keys the update on the Stripe customer. Events only
// apply to the subscription the customer holds, except a newly created
// entitling subscription, which replaces it.
func changeFromSubscription(sub *stripe.Subscription, eventType stripe.EventType) (*customerChange, error) {
	if sub.Customer == nil || sub.Customer.ID == "" {
		return nil, fmt.Errorf("%w: subscription %s has no customer", ErrInvalidPayload, sub.ID)
	}

	membership := membershipForStatus(string(sub.Status))
	if eventType == stripe.EventTypeCustomerSubscriptionDeleted {
		membership = models.MEMBERSHIP_FREE
	}
	change := &customerChange{
		StripeCustomerID: sub.Customer.ID,
		SubscriptionID:   sub.ID,
		TakeOver:         eventType == stripe.EventTypeCustomerSubscriptionCreated && isEntitlingStatus(string(sub.Status)),
		Update:           models.CustomerUpdate{Membership: &membership},
	}
	if sub.ID != "" {
		id := sub.ID
		change.Update.StripeSubscriptionID = &id
	}
	return change, nil
}
