package customer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ManuelReschke/PromptManager/app/models"
	"github.com/ManuelReschke/PromptManager/internal/pkg/testutil"
)

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) (*Service, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return NewServiceFromDB(testutil.NewDB(t), zap.New(core)), logs
}

func TestCreateThenGetByUserID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Customer{UserID: "google:42", StripeCustomerID: strPtr("cus_42")})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.MEMBERSHIP_FREE, created.Membership)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := svc.GetByUserID(ctx, "google:42")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)
	assert.Equal(t, "google:42", found[0].UserID)
	require.NotNil(t, found[0].StripeCustomerID)
	assert.Equal(t, "cus_42", *found[0].StripeCustomerID)
	assert.Nil(t, found[0].StripeSubscriptionID)
}

func TestGetByUserIDEmptyResult(t *testing.T) {
	svc, _ := newTestService(t)

	found, err := svc.GetByUserID(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)

	_, ok := First(found)
	assert.False(t, ok)
}

func TestCreateDuplicateUserID(t *testing.T) {
	svc, logs := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Customer{UserID: "github:7"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &models.Customer{UserID: "github:7"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreationFailure)
	assert.Equal(t, "failed to create customer", err.Error())

	entries := logs.FilterMessage("error creating customer").All()
	require.Len(t, entries, 1)
	assert.Equal(t, true, entries[0].ContextMap()["duplicate"])
}

func TestCreateDuplicateStripeCustomerID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Customer{UserID: "a", StripeCustomerID: strPtr("cus_same")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.Customer{UserID: "b", StripeCustomerID: strPtr("cus_same")})
	assert.ErrorIs(t, err, ErrCreationFailure)

	// customers without a Stripe id do not collide
	_, err = svc.Create(ctx, &models.Customer{UserID: "c"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.Customer{UserID: "d"})
	require.NoError(t, err)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, nil)
	assert.ErrorIs(t, err, ErrCreationFailure)

	_, err = svc.Create(ctx, &models.Customer{UserID: "   "})
	assert.ErrorIs(t, err, ErrCreationFailure)

	_, err = svc.Create(ctx, &models.Customer{UserID: "x", Membership: "gold"})
	assert.ErrorIs(t, err, ErrCreationFailure)
}

func TestUpdateByUserIDChangesOnlyGivenFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Customer{UserID: "u1", StripeCustomerID: strPtr("cus_1")})
	require.NoError(t, err)

	updated, err := svc.UpdateByUserID(ctx, "u1", models.CustomerUpdate{Membership: strPtr(models.MEMBERSHIP_PRO)})
	require.NoError(t, err)
	assert.Equal(t, models.MEMBERSHIP_PRO, updated.Membership)
	require.NotNil(t, updated.StripeCustomerID)
	assert.Equal(t, "cus_1", *updated.StripeCustomerID)
	assert.Nil(t, updated.StripeSubscriptionID)

	found, err := svc.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, models.MEMBERSHIP_PRO, found[0].Membership)
	assert.Equal(t, "cus_1", *found[0].StripeCustomerID)
}

func TestUpdateByUserIDMissingTarget(t *testing.T) {
	svc, logs := newTestService(t)

	_, err := svc.UpdateByUserID(context.Background(), "ghost", models.CustomerUpdate{Membership: strPtr(models.MEMBERSHIP_PRO)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpdateTargetMissing)
	assert.NotErrorIs(t, err, ErrUpdateFailure)
	assert.Equal(t, 1, logs.FilterMessage("customer not found to update").Len())
}

func TestUpdateEmptyFieldSet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Customer{UserID: "u2"})
	require.NoError(t, err)

	same, err := svc.UpdateByUserID(ctx, "u2", models.CustomerUpdate{})
	require.NoError(t, err)
	assert.Equal(t, created.ID, same.ID)

	_, err = svc.UpdateByUserID(ctx, "ghost", models.CustomerUpdate{})
	assert.ErrorIs(t, err, ErrUpdateTargetMissing)
}

func TestUpdateRejectsInvalidMembership(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Customer{UserID: "u3"})
	require.NoError(t, err)

	_, err = svc.UpdateByUserID(ctx, "u3", models.CustomerUpdate{Membership: strPtr("gold")})
	assert.ErrorIs(t, err, ErrUpdateFailure)
}

func TestUpdateByStripeCustomerID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Customer{UserID: "u4", StripeCustomerID: strPtr("cus_4")})
	require.NoError(t, err)

	updated, err := svc.UpdateByStripeCustomerID(ctx, "cus_4", models.CustomerUpdate{
		Membership:           strPtr(models.MEMBERSHIP_PRO),
		StripeSubscriptionID: strPtr("sub_4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "u4", updated.UserID)
	assert.Equal(t, models.MEMBERSHIP_PRO, updated.Membership)
	require.NotNil(t, updated.StripeSubscriptionID)
	assert.Equal(t, "sub_4", *updated.StripeSubscriptionID)

	_, err = svc.UpdateByStripeCustomerID(ctx, "cus_missing", models.CustomerUpdate{Membership: strPtr(models.MEMBERSHIP_FREE)})
	assert.ErrorIs(t, err, ErrUpdateTargetMissing)
	assert.Equal(t, "customer not found by Stripe customer ID", err.Error())
}

func TestUpdateSubscriptionByStripeCustomerID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Customer{UserID: "u5", StripeCustomerID: strPtr("cus_5")})
	require.NoError(t, err)

	// no stored subscription yet, so the first one is taken
	updated, err := svc.UpdateSubscriptionByStripeCustomerID(ctx, "cus_5", "sub_new", models.CustomerUpdate{
		Membership:           strPtr(models.MEMBERSHIP_PRO),
		StripeSubscriptionID: strPtr("sub_new"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MEMBERSHIP_PRO, updated.Membership)

	_, err = svc.UpdateSubscriptionByStripeCustomerID(ctx, "cus_5", "sub_old", models.CustomerUpdate{
		Membership:           strPtr(models.MEMBERSHIP_FREE),
		StripeSubscriptionID: strPtr("sub_old"),
	})
	assert.ErrorIs(t, err, ErrSubscriptionMismatch)
	assert.NotErrorIs(t, err, ErrUpdateFailure)

	rows, err := svc.GetByUserID(ctx, "u5")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.MEMBERSHIP_PRO, rows[0].Membership)
	require.NotNil(t, rows[0].StripeSubscriptionID)
	assert.Equal(t, "sub_new", *rows[0].StripeSubscriptionID)

	updated, err = svc.UpdateSubscriptionByStripeCustomerID(ctx, "cus_5", "sub_new", models.CustomerUpdate{
		Membership:           strPtr(models.MEMBERSHIP_FREE),
		StripeSubscriptionID: strPtr("sub_new"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MEMBERSHIP_FREE, updated.Membership)

	_, err = svc.UpdateSubscriptionByStripeCustomerID(ctx, "cus_missing", "sub_new", models.CustomerUpdate{Membership: strPtr(models.MEMBERSHIP_FREE)})
	assert.ErrorIs(t, err, ErrUpdateTargetMissing)
}

func TestUpdateUniqueViolationIsUpdateFailure(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Customer{UserID: "a", StripeCustomerID: strPtr("cus_a")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.Customer{UserID: "b"})
	require.NoError(t, err)

	_, err = svc.UpdateByUserID(ctx, "b", models.CustomerUpdate{StripeCustomerID: strPtr("cus_a")})
	assert.ErrorIs(t, err, ErrUpdateFailure)
}

func TestConcurrentDisjointUpdatesBothApply(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Customer{UserID: "racer"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.UpdateByUserID(ctx, "racer", models.CustomerUpdate{Membership: strPtr(models.MEMBERSHIP_PRO)})
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.UpdateByUserID(ctx, "racer", models.CustomerUpdate{StripeCustomerID: strPtr("cus_racer")})
	}()
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	found, err := svc.GetByUserID(ctx, "racer")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, models.MEMBERSHIP_PRO, found[0].Membership)
	require.NotNil(t, found[0].StripeCustomerID)
	assert.Equal(t, "cus_racer", *found[0].StripeCustomerID)
}

type failingRepository struct {
	err error
}

func (r failingRepository) Create(context.Context, *models.Customer) error { return r.err }
func (r failingRepository) ListByUserID(context.Context, string) ([]models.Customer, error) {
	return nil, r.err
}
func (r failingRepository) UpdateByUserID(context.Context, string, models.CustomerUpdate) (*models.Customer, error) {
	return nil, r.err
}
func (r failingRepository) UpdateByStripeCustomerID(context.Context, string, models.CustomerUpdate) (*models.Customer, error) {
	return nil, r.err
}
func (r failingRepository) UpdateSubscriptionByStripeCustomerID(context.Context, string, string, models.CustomerUpdate) (*models.Customer, error) {
	return nil, r.err
}

func TestStorageErrorsAreCollapsed(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	cause := errors.New("dial tcp 10.0.0.5:3306: connection refused")
	svc := NewService(failingRepository{err: cause}, zap.New(core))
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Customer{UserID: "u"})
	assert.ErrorIs(t, err, ErrCreationFailure)
	assert.NotContains(t, err.Error(), "10.0.0.5")

	_, err = svc.GetByUserID(ctx, "u")
	assert.ErrorIs(t, err, ErrRetrievalFailure)
	assert.NotContains(t, err.Error(), "connection refused")

	_, err = svc.UpdateByUserID(ctx, "u", models.CustomerUpdate{})
	assert.ErrorIs(t, err, ErrUpdateFailure)

	_, err = svc.UpdateByStripeCustomerID(ctx, "cus", models.CustomerUpdate{})
	assert.ErrorIs(t, err, ErrUpdateFailure)

	_, err = svc.UpdateSubscriptionByStripeCustomerID(ctx, "cus", "sub", models.CustomerUpdate{})
	assert.ErrorIs(t, err, ErrUpdateFailure)

	assert.Equal(t, 5, logs.Len())
	for _, entry := range logs.All() {
		assert.Equal(t, cause.Error(), entry.ContextMap()["error"])
	}
}

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, errStripeTargetMissing, ErrUpdateTargetMissing)
	assert.ErrorIs(t, errStripeUpdateFailure, ErrUpdateFailure)
	assert.NotErrorIs(t, ErrCreationFailure, ErrRetrievalFailure)
	assert.Equal(t, "update_target_missing", KindUpdateTargetMissing.String())
	assert.Equal(t, "subscription_mismatch", KindSubscriptionMismatch.String())

	var custErr *Error
	require.True(t, errors.As(error(ErrRetrievalFailure), &custErr))
	assert.Equal(t, KindRetrieval, custErr.Kind)
}
