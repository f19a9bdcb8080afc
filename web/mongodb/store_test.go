package mongodb

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashion-studio/apperr"
	"fashion-studio/models"
)

// These tests need a running MongoDB; set MONGO_TEST_URI to enable them.
func setupTestStore(t *testing.T) *Store {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	s, err := Connect(ctx, uri, "fashion_test_"+uuid.New().String()[:8])
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.db.Drop(ctx)
		_ = s.Close(ctx)
	})
	return s
}

func TestUsableFilterShape(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := usableFilter(now)

	assert.Equal(t, true, f["is_active"])
	assert.Len(t, f["$and"], 2)
}

func TestMongoIncrementDesignsUsedConcurrent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := &models.User{ID: uuid.New().String(), Username: "mona", Email: "mona@example.com", DesignsLimit: 3}
	require.NoError(t, s.CreateUser(ctx, u))

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.IncrementDesignsUsed(ctx, u.ID); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.DesignsUsed)
}

func TestMongoConcurrentRedemptionSingleUse(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	one := 1
	c := &models.Coupon{ID: uuid.New().String(), Code: "ONCE", IsActive: true, MaxUses: &one}
	require.NoError(t, s.CreateCoupon(ctx, c))

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o := &models.Order{ID: uuid.New().String(), OrderNumber: uuid.New().String(), UserID: "u1", Status: models.OrderPending}
			usage := &models.CouponUsage{ID: uuid.New().String(), CouponCode: "ONCE", UsedAt: time.Now().UTC()}
			errs[i] = s.PlaceOrder(ctx, o, usage)
		}(i)
	}
	wg.Wait()

	limited := 0
	for _, err := range errs {
		if apperr.Is(err, apperr.KindLimitExceeded) {
			limited++
		}
	}
	assert.Equal(t, 1, limited)

	got, err := s.GetCoupon(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentUses)
}

func TestMongoToggleFavorite(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	d := &models.Design{ID: uuid.New().String(), UserID: "owner"}
	require.NoError(t, s.CreateDesign(ctx, d))

	fav, err := s.ToggleFavorite(ctx, d.ID, "owner")
	require.NoError(t, err)
	assert.True(t, fav)

	_, err = s.ToggleFavorite(ctx, d.ID, "someone-else")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestMongoOrderSurvivesUsageInsertFailure(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	c := &models.Coupon{ID: uuid.New().String(), Code: "TWICE", IsActive: true}
	require.NoError(t, s.CreateCoupon(ctx, c))

	usageID := uuid.New().String()
	_, err := s.col(colCouponUsages).InsertOne(ctx, &models.CouponUsage{ID: usageID, CouponID: c.ID})
	require.NoError(t, err)

	o := &models.Order{ID: uuid.New().String(), OrderNumber: uuid.New().String(), UserID: "u1", Status: models.OrderPending}
	usage := &models.CouponUsage{ID: usageID, CouponCode: "TWICE", UsedAt: time.Now().UTC()}
	require.NoError(t, s.PlaceOrder(ctx, o, usage))

	_, err = s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	got, err := s.GetCoupon(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentUses)
}

func TestMongoRedeemReturnsUseAfterCancel(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	c := &models.Coupon{ID: uuid.New().String(), Code: "ONCE", IsActive: true}
	require.NoError(t, s.CreateCoupon(ctx, c))

	usageID := uuid.New().String()
	_, err := s.col(colCouponUsages).InsertOne(ctx, &models.CouponUsage{ID: usageID, CouponID: c.ID})
	require.NoError(t, err)

	err = s.RedeemCoupon(ctx, &models.CouponUsage{ID: usageID, CouponCode: "ONCE", UsedAt: time.Now().UTC()})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	got, err := s.GetCoupon(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentUses)

	require.NoError(t, s.RedeemCoupon(ctx, &models.CouponUsage{ID: uuid.New().String(), CouponCode: "ONCE", UsedAt: time.Now().UTC()}))
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	s.returnUse(cancelled, c.ID)

	got, err = s.GetCoupon(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentUses)
}
