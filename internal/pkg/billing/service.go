// Package billing applies Stripe webhook deliveries to customer records.
package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/ManuelReschke/PromptManager/app/models"
	"github.com/ManuelReschke/PromptManager/internal/pkg/customer"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CustomerUpdater is the part of the customer service webhooks write through.
type CustomerUpdater interface {
	UpdateByUserID(ctx context.Context, userID string, u models.CustomerUpdate) (*models.Customer, error)
	UpdateByStripeCustomerID(ctx context.Context, stripeCustomerID string, u models.CustomerUpdate) (*models.Customer, error)
	UpdateSubscriptionByStripeCustomerID(ctx context.Context, stripeCustomerID, subscriptionID string, u models.CustomerUpdate) (*models.Customer, error)
}

// MembershipInvalidator drops cached membership state for a user.
type MembershipInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// Service records webhook deliveries idempotently and syncs their effect
// onto customer records.
type Service struct {
	repo          Repository
	customers     CustomerUpdater
	membership    MembershipInvalidator
	webhookSecret string
	log           *zap.Logger
}

// NewService creates a billing service from an injected repository. membership may be nil.
func NewService(repo Repository, customers CustomerUpdater, membership MembershipInvalidator, webhookSecret string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:          repo,
		customers:     customers,
		membership:    membership,
		webhookSecret: webhookSecret,
		log:           log.Named("billing"),
	}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, customers CustomerUpdater, membership MembershipInvalidator, webhookSecret string, log *zap.Logger) *Service {
	return NewService(NewRepository(db), customers, membership, webhookSecret, log)
}

// RecordWebhookEvent persists webhook payloads idempotently.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(ctx, event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(ctx, webhookEventID, errMsg)
}

// HandleStripeWebhook verifies a Stripe delivery, records it and applies it
// to the matching customer record. Deliveries that were already processed
// are acknowledged as duplicates. A delivery whose earlier attempt failed
// with a storage error is left unprocessed and is applied again on retry.
func (s *Service) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) (Outcome, error) {
	event, err := constructStripeEvent(payload, signature, s.webhookSecret)
	if err != nil {
		s.log.Warn("stripe webhook rejected", zap.Error(err))
		return "", err
	}
	log := s.log.With(zap.String("event_id", event.ID), zap.String("event_type", string(event.Type)))

	created, stored, err := s.RecordWebhookEvent(ctx, WebhookEventInput{
		Provider:        models.BillingProviderStripe,
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
		PayloadJSON:     string(payload),
		SignatureValid:  true,
	})
	if err != nil {
		log.Error("error recording stripe webhook", zap.Error(err))
		return "", err
	}
	if !created && stored.ProcessedAt != nil {
		log.Info("stripe webhook already processed")
		return OutcomeDuplicate, nil
	}

	change, err := changeFromEvent(event)
	switch {
	case errors.Is(err, errNoClientReference):
		s.markProcessed(ctx, log, stored.ID, err)
		return OutcomeIgnored, nil
	case err != nil:
		log.Warn("stripe webhook payload rejected", zap.Error(err))
		s.markProcessed(ctx, log, stored.ID, err)
		return "", err
	case change == nil:
		s.markProcessed(ctx, log, stored.ID, nil)
		return OutcomeIgnored, nil
	}

	outcome, err := s.apply(ctx, change)
	if err != nil {
		log.Error("error applying stripe webhook", zap.Error(err))
		return "", err
	}
	var processingErr error
	switch outcome {
	case OutcomeUnmatched:
		processingErr = customer.ErrUpdateTargetMissing
		log.Warn("stripe webhook matched no customer",
			zap.String("user_id", change.UserID),
			zap.String("stripe_customer_id", change.StripeCustomerID),
		)
	case OutcomeIgnored:
		processingErr = customer.ErrSubscriptionMismatch
		log.Info("stripe webhook for a superseded subscription",
			zap.String("stripe_customer_id", change.StripeCustomerID),
			zap.String("stripe_subscription_id", change.SubscriptionID),
		)
	}
	s.markProcessed(ctx, log, stored.ID, processingErr)
	return outcome, nil
}

func (s *Service) apply(ctx context.Context, change *customerChange) (Outcome, error) {
	var (
		updated *models.Customer
		err     error
	)
	switch {
	case change.UserID != "":
		updated, err = s.customers.UpdateByUserID(ctx, change.UserID, change.Update)
	case change.SubscriptionID == "" || change.TakeOver:
		updated, err = s.customers.UpdateByStripeCustomerID(ctx, change.StripeCustomerID, change.Update)
	default:
		updated, err = s.customers.UpdateSubscriptionByStripeCustomerID(ctx, change.StripeCustomerID, change.SubscriptionID, change.Update)
	}
	switch {
	case errors.Is(err, customer.ErrUpdateTargetMissing):
		return OutcomeUnmatched, nil
	case errors.Is(err, customer.ErrSubscriptionMismatch):
		return OutcomeIgnored, nil
	}
	if err != nil {
		return "", err
	}

	if s.membership != nil {
		s.membership.Invalidate(ctx, updated.UserID)
	}
	return OutcomeProcessed, nil
}

func (s *Service) markProcessed(ctx context.Context, log *zap.Logger, id uint, processingErr error) {
	if err := s.MarkWebhookProcessed(ctx, id, processingErr); err != nil {
		log.Error("error marking stripe webhook processed", zap.Error(err))
	}
}
