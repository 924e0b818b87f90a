package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MEMBERSHIP_FREE = "free"
	MEMBERSHIP_PRO  = "pro"
)

// Customer links an account (UserID) to its billing identity at Stripe.
type Customer struct {
	ID                   string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID               string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"user_id" validate:"required,max=191"`
	Membership           string    `gorm:"type:varchar(16);not null;default:'free'" json:"membership" validate:"oneof=free pro"`
	StripeCustomerID     *string   `gorm:"type:varchar(191);uniqueIndex;default:null" json:"stripe_customer_id,omitempty" validate:"omitnil,min=1,max=191"`
	StripeSubscriptionID *string   `gorm:"type:varchar(191);uniqueIndex;default:null" json:"stripe_subscription_id,omitempty" validate:"omitnil,min=1,max=191"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate assigns the system ID and the default membership.
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Membership == "" {
		c.Membership = MEMBERSHIP_FREE
	}
	return nil
}

func (c *Customer) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// IsPro reports whether the customer currently holds the paid membership.
func (c *Customer) IsPro() bool {
	return c != nil && c.Membership == MEMBERSHIP_PRO
}

// CustomerUpdate is a partial field set. Nil fields are left untouched.
type CustomerUpdate struct {
	Membership           *string `validate:"omitnil,oneof=free pro"`
	StripeCustomerID     *string `validate:"omitnil,min=1,max=191"`
	StripeSubscriptionID *string `validate:"omitnil,min=1,max=191"`
}

// Columns returns the column assignments for the fields that are set.
func (u CustomerUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if u.Membership != nil {
		cols["membership"] = *u.Membership
	}
	if u.StripeCustomerID != nil {
		cols["stripe_customer_id"] = *u.StripeCustomerID
	}
	if u.StripeSubscriptionID != nil {
		cols["stripe_subscription_id"] = *u.StripeSubscriptionID
	}
	return cols
}

// IsEmpty reports whether no field is set.
func (u CustomerUpdate) IsEmpty() bool {
	return u.Membership == nil && u.StripeCustomerID == nil && u.StripeSubscriptionID == nil
}

func (u CustomerUpdate) Validate() error {
	v := validator.New()

	return v.Struct(u)
}
