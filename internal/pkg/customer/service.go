// Package customer persists the customer records that tie an account to its
// Stripe billing identity.
package customer

import (
	"context"
	"errors"
	"strings"

	"github.com/ManuelReschke/PromptManager/app/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service exposes create, read and update of customer records. Every failure
// is logged with its cause and returned to the caller as a generic *Error.
type Service struct {
	repo Repository
	log  *zap.Logger
}

// NewService creates a customer service from an injected repository.
func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log.Named("customer")}
}

// NewServiceFromDB creates a customer service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, log *zap.Logger) *Service {
	return NewService(NewRepository(db), log)
}

// Create persists a new customer and returns the stored row including the
// system-assigned fields.
func (s *Service) Create(ctx context.Context, in *models.Customer) (*models.Customer, error) {
	if in == nil {
		s.log.Error("error creating customer", zap.Error(errors.New("nil customer")))
		return nil, ErrCreationFailure
	}
	c := *in
	c.UserID = strings.TrimSpace(c.UserID)
	if c.Membership == "" {
		c.Membership = models.MEMBERSHIP_FREE
	}
	if err := c.Validate(); err != nil {
		s.log.Error("error creating customer", zap.String("user_id", c.UserID), zap.Error(err))
		return nil, ErrCreationFailure
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		s.log.Error("error creating customer",
			zap.String("user_id", c.UserID),
			zap.Bool("duplicate", errors.Is(err, gorm.ErrDuplicatedKey)),
			zap.Error(err),
		)
		return nil, ErrCreationFailure
	}
	return &c, nil
}

// GetByUserID returns the customers owned by userID. The result is a slice even
// though at most one row can match; an empty slice means no customer exists.
func (s *Service) GetByUserID(ctx context.Context, userID string) ([]models.Customer, error) {
	customers, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		s.log.Error("error getting customer by user id", zap.String("user_id", userID), zap.Error(err))
		return nil, ErrRetrievalFailure
	}
	return customers, nil
}

// UpdateByUserID applies the set fields of u to the customer owned by userID.
func (s *Service) UpdateByUserID(ctx context.Context, userID string, u models.CustomerUpdate) (*models.Customer, error) {
	if err := u.Validate(); err != nil {
		s.log.Error("error updating customer", zap.String("user_id", userID), zap.Error(err))
		return nil, ErrUpdateFailure
	}
	updated, err := s.repo.UpdateByUserID(ctx, userID, u)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("customer not found to update", zap.String("user_id", userID))
			return nil, ErrUpdateTargetMissing
		}
		s.log.Error("error updating customer", zap.String("user_id", userID), zap.Error(err))
		return nil, ErrUpdateFailure
	}
	return updated, nil
}

// UpdateByStripeCustomerID applies the set fields of u to the customer linked to
// stripeCustomerID. Used by billing callbacks.
func (s *Service) UpdateByStripeCustomerID(ctx context.Context, stripeCustomerID string, u models.CustomerUpdate) (*models.Customer, error) {
	if err := u.Validate(); err != nil {
		s.log.Error("error updating customer by stripe customer id", zap.String("stripe_customer_id", stripeCustomerID), zap.Error(err))
		return nil, errStripeUpdateFailure
	}
	updated, err := s.repo.UpdateByStripeCustomerID(ctx, stripeCustomerID, u)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("customer not found by stripe customer id", zap.String("stripe_customer_id", stripeCustomerID))
			return nil, errStripeTargetMissing
		}
		s.log.Error("error updating customer by stripe customer id", zap.String("stripe_customer_id", stripeCustomerID), zap.Error(err))
		return nil, errStripeUpdateFailure
	}
	return updated, nil
}

// UpdateSubscriptionByStripeCustomerID is UpdateByStripeCustomerID for events of
// subscriptionID. The update applies only while the customer holds no
// subscription or holds subscriptionID; otherwise it returns
// ErrSubscriptionMismatch and leaves the record unchanged.
func (s *Service) UpdateSubscriptionByStripeCustomerID(ctx context.Context, stripeCustomerID, subscriptionID string, u models.CustomerUpdate) (*models.Customer, error) {
	log := s.log.With(zap.String("stripe_customer_id", stripeCustomerID), zap.String("stripe_subscription_id", subscriptionID))
	if err := u.Validate(); err != nil {
		log.Error("error updating customer subscription", zap.Error(err))
		return nil, errStripeUpdateFailure
	}
	updated, err := s.repo.UpdateSubscriptionByStripeCustomerID(ctx, stripeCustomerID, subscriptionID, u)
	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, errStaleSubscription):
		log.Info("customer holds a different subscription, update skipped")
		return nil, ErrSubscriptionMismatch
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("customer not found by stripe customer id")
		return nil, errStripeTargetMissing
	default:
		log.Error("error updating customer subscription", zap.Error(err))
		return nil, errStripeUpdateFailure
	}
}

// First returns the first customer of a lookup result, if any.
func First(customers []models.Customer) (*models.Customer, bool) {
	if len(customers) == 0 {
		return nil, false
	}
	c := customers[0]
	return &c, true
}
