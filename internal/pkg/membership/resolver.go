// Package membership answers "is the current user a paying member" for the
// header and the membership API.
package membership

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ManuelReschke/PromptManager/app/models"
	"github.com/ManuelReschke/PromptManager/internal/pkg/cache"
	"github.com/ManuelReschke/PromptManager/internal/pkg/customer"
)

const (
	cacheKeyPrefix = "membership:"
	DefaultTTL     = 5 * time.Minute
	DefaultTimeout = 2 * time.Second
)

// Status is the membership state of a session. Loading means the state could
// not be determined yet.
type Status struct {
	IsPro   bool `json:"is_pro"`
	Loading bool `json:"loading"`
}

// CustomerLookup is the subset of the customer service the resolver needs.
type CustomerLookup interface {
	GetByUserID(ctx context.Context, userID string) ([]models.Customer, error)
}

// Resolver derives Status from the customer record, cached per user.
type Resolver struct {
	customers CustomerLookup
	cache     cache.Store
	log       *zap.Logger
	ttl       time.Duration
	timeout   time.Duration
}

func NewResolver(customers CustomerLookup, store cache.Store, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		customers: customers,
		cache:     store,
		log:       log.Named("membership"),
		ttl:       DefaultTTL,
		timeout:   DefaultTimeout,
	}
}

// Status resolves the membership of userID. An empty userID is an anonymous
// session and never loading.
func (r *Resolver) Status(ctx context.Context, userID string) Status {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Status{}
	}

	if r.cache != nil {
		val, err := r.cache.Get(ctx, cacheKey(userID))
		switch {
		case err == nil:
			return Status{IsPro: val == models.MEMBERSHIP_PRO}
		case !errors.Is(err, cache.ErrMiss):
			r.log.Warn("membership cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	customers, err := r.customers.GetByUserID(lookupCtx, userID)
	if err != nil {
		return Status{Loading: true}
	}

	plan := models.MEMBERSHIP_FREE
	if c, ok := customer.First(customers); ok && c.IsPro() {
		plan = models.MEMBERSHIP_PRO
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, cacheKey(userID), plan, r.ttl); err != nil {
			r.log.Warn("membership cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return Status{IsPro: plan == models.MEMBERSHIP_PRO}
}

// Invalidate drops the cached membership of userID.
func (r *Resolver) Invalidate(ctx context.Context, userID string) {
	if r.cache == nil || userID == "" {
		return
	}
	if err := r.cache.Delete(ctx, cacheKey(userID)); err != nil {
		r.log.Warn("membership cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func cacheKey(userID string) string {
	return cacheKeyPrefix + userID
}
