package customer

import (
	"context"
	"errors"

	"github.com/ManuelReschke/PromptManager/app/models"
	"gorm.io/gorm"
)

const (
	columnUserID               = "user_id"
	columnStripeCustomerID     = "stripe_customer_id"
	columnStripeSubscriptionID = "stripe_subscription_id"
)

// errStaleSubscription is returned when the matched customer already holds a
// different subscription than the one being updated.
var errStaleSubscription = errors.New("customer holds a different stripe subscription")

// Repository provides DB operations used by the customer service.
type Repository interface {
	Create(ctx context.Context, customer *models.Customer) error
	ListByUserID(ctx context.Context, userID string) ([]models.Customer, error)
	UpdateByUserID(ctx context.Context, userID string, u models.CustomerUpdate) (*models.Customer, error)
	UpdateByStripeCustomerID(ctx context.Context, stripeCustomerID string, u models.CustomerUpdate) (*models.Customer, error)
	UpdateSubscriptionByStripeCustomerID(ctx context.Context, stripeCustomerID, subscriptionID string, u models.CustomerUpdate) (*models.Customer, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a customer repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *gormRepository) ListByUserID(ctx context.Context, userID string) ([]models.Customer, error) {
	customers := make([]models.Customer, 0, 1)
	err := r.db.WithContext(ctx).Where(columnUserID+" = ?", userID).Find(&customers).Error
	return customers, err
}

func (r *gormRepository) UpdateByUserID(ctx context.Context, userID string, u models.CustomerUpdate) (*models.Customer, error) {
	return r.updateWhere(ctx, columnUserID, userID, u, "")
}

func (r *gormRepository) UpdateByStripeCustomerID(ctx context.Context, stripeCustomerID string, u models.CustomerUpdate) (*models.Customer, error) {
	return r.updateWhere(ctx, columnStripeCustomerID, stripeCustomerID, u, "")
}

// UpdateSubscriptionByStripeCustomerID only touches the row while it holds no
// subscription or holds subscriptionID. Otherwise nothing changes and
// errStaleSubscription is returned.
func (r *gormRepository) UpdateSubscriptionByStripeCustomerID(ctx context.Context, stripeCustomerID, subscriptionID string, u models.CustomerUpdate) (*models.Customer, error) {
	return r.updateWhere(ctx, columnStripeCustomerID, stripeCustomerID, u, subscriptionID)
}

// updateWhere applies u to the row matching column = key and reads the row
// back inside the same transaction. A missing row surfaces as
// gorm.ErrRecordNotFound. A non-empty subscriptionID restricts the update to
// rows holding no subscription or that subscription.
func (r *gormRepository) updateWhere(ctx context.Context, column, key string, u models.CustomerUpdate, subscriptionID string) (*models.Customer, error) {
	var updated models.Customer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !u.IsEmpty() {
			q := tx.Model(&models.Customer{}).Where(column+" = ?", key)
			if subscriptionID != "" {
				q = q.Where("("+columnStripeSubscriptionID+" IS NULL OR "+columnStripeSubscriptionID+" = ?)", subscriptionID)
			}
			if err := q.Updates(u.Columns()).Error; err != nil {
				return err
			}
		}
		if err := tx.Where(column+" = ?", key).First(&updated).Error; err != nil {
			return err
		}
		if subscriptionID != "" && updated.StripeSubscriptionID != nil && *updated.StripeSubscriptionID != subscriptionID {
			return errStaleSubscription
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
