package db

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashion-studio/apperr"
	"fashion-studio/models"
)

func setupTestStore(t *testing.T) *Store {
	db, err := Connect("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	if err := Sync(db); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	s := NewStore(db)
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func newUser(t *testing.T, s *Store, limit, used int) *models.User {
	u := &models.User{
		ID:           uuid.New().String(),
		Username:     "user-" + uuid.New().String()[:8],
		Email:        uuid.New().String()[:8] + "@example.com",
		Password:     "hash",
		DesignsLimit: limit,
		DesignsUsed:  used,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func newCoupon(t *testing.T, s *Store, code string, maxUses *int, expiry *time.Time) *models.Coupon {
	pct := 10.0
	c := &models.Coupon{
		ID:                 uuid.New().String(),
		Code:               code,
		DiscountPercentage: &pct,
		IsActive:           true,
		MaxUses:            maxUses,
		ExpiryDate:         expiry,
	}
	require.NoError(t, s.CreateCoupon(context.Background(), c))
	return c
}

func intPtr(v int) *int { return &v }

func TestCreateUserDuplicate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := newUser(t, s, 3, 0)

	dup := &models.User{ID: uuid.New().String(), Username: u.Username, Email: "other@example.com"}
	err := s.CreateUser(ctx, dup)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)

	_, err = s.GetUser(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestIncrementDesignsUsed(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	u := newUser(t, s, 2, 1)
	require.NoError(t, s.IncrementDesignsUsed(ctx, u.ID))
	err := s.IncrementDesignsUsed(ctx, u.ID)
	assert.True(t, apperr.Is(err, apperr.KindLimitExceeded))

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.DesignsUsed)

	unlimited := newUser(t, s, models.Unlimited, 500)
	require.NoError(t, s.IncrementDesignsUsed(ctx, unlimited.ID))

	err = s.IncrementDesignsUsed(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestIncrementDesignsUsedConcurrent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := newUser(t, s, 3, 0)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, limited := 0, 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.IncrementDesignsUsed(ctx, u.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if apperr.Is(err, apperr.KindLimitExceeded) {
				limited++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, 7, limited)
	got, _ := s.GetUser(ctx, u.ID)
	assert.Equal(t, 3, got.DesignsUsed)
}

func TestAdminQuotaOperations(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := newUser(t, s, 3, 3)

	require.NoError(t, s.AddDesignsLimit(ctx, u.ID, 2))
	require.NoError(t, s.ResetDesignsUsed(ctx, u.ID))
	got, _ := s.GetUser(ctx, u.ID)
	assert.Equal(t, 5, got.DesignsLimit)
	assert.Equal(t, 0, got.DesignsUsed)

	require.NoError(t, s.SetDesignsLimit(ctx, u.ID, models.Unlimited))
	require.NoError(t, s.AddDesignsLimit(ctx, u.ID, 10))
	got, _ = s.GetUser(ctx, u.ID)
	assert.Equal(t, models.Unlimited, got.DesignsLimit)

	assert.True(t, apperr.Is(s.ResetDesignsUsed(ctx, "missing"), apperr.KindNotFound))
}

func TestRedeemCoupon(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	c := newCoupon(t, s, "SAVE10", intPtr(2), nil)

	for i := 0; i < 2; i++ {
		usage := &models.CouponUsage{ID: uuid.New().String(), CouponCode: "SAVE10", UserID: "u1", UsedAt: time.Now().UTC()}
		require.NoError(t, s.RedeemCoupon(ctx, usage))
		assert.Equal(t, c.ID, usage.CouponID)
	}

	err := s.RedeemCoupon(ctx, &models.CouponUsage{ID: uuid.New().String(), CouponCode: "SAVE10", UsedAt: time.Now().UTC()})
	assert.True(t, apperr.Is(err, apperr.KindLimitExceeded), "got %v", err)

	got, _ := s.GetCoupon(ctx, c.ID)
	assert.Equal(t, 2, got.CurrentUses)
	usages, err := s.ListCouponUsages(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, usages, 2)
}

func TestRedeemCouponExpiredAndMissing(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	past := time.Now().UTC().Add(-time.Hour)
	newCoupon(t, s, "OLD", nil, &past)

	err := s.RedeemCoupon(ctx, &models.CouponUsage{ID: uuid.New().String(), CouponCode: "OLD", UsedAt: time.Now().UTC()})
	assert.True(t, apperr.Is(err, apperr.KindExpired), "got %v", err)

	err = s.RedeemCoupon(ctx, &models.CouponUsage{ID: uuid.New().String(), CouponCode: "NOPE", UsedAt: time.Now().UTC()})
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "got %v", err)
}

func TestConcurrentRedemptionSingleUse(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	c := newCoupon(t, s, "ONCE", intPtr(1), nil)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o := &models.Order{
				ID:          uuid.New().String(),
				OrderNumber: uuid.New().String()[:12],
				UserID:      "u1",
				Status:      models.OrderPending,
			}
			usage := &models.CouponUsage{ID: uuid.New().String(), CouponCode: "ONCE", UserID: "u1", UsedAt: time.Now().UTC()}
			errs[i] = s.PlaceOrder(ctx, o, usage)
		}(i)
	}
	wg.Wait()

	success, limited := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			success++
		case apperr.Is(err, apperr.KindLimitExceeded):
			limited++
		}
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, 1, limited)

	got, _ := s.GetCoupon(ctx, c.ID)
	assert.Equal(t, 1, got.CurrentUses)
	orders, _ := s.ListOrders(ctx)
	assert.Len(t, orders, 1)
}

func TestPlaceOrderRollsBackRedemption(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	c := newCoupon(t, s, "ROLLBACK", intPtr(5), nil)

	first := &models.Order{ID: uuid.New().String(), OrderNumber: "FS-1", UserID: "u1", Status: models.OrderPending}
	require.NoError(t, s.PlaceOrder(ctx, first, nil))

	dup := &models.Order{ID: uuid.New().String(), OrderNumber: "FS-1", UserID: "u1", Status: models.OrderPending}
	usage := &models.CouponUsage{ID: uuid.New().String(), CouponCode: "ROLLBACK", UsedAt: time.Now().UTC()}
	err := s.PlaceOrder(ctx, dup, usage)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)

	got, _ := s.GetCoupon(ctx, c.ID)
	assert.Equal(t, 0, got.CurrentUses)
	usages, _ := s.ListCouponUsages(ctx, c.ID)
	assert.Empty(t, usages)
}

func TestListAvailableCoupons(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	newCoupon(t, s, "OPEN", nil, nil)
	newCoupon(t, s, "LATER", intPtr(3), &future)
	newCoupon(t, s, "EXPIRED", nil, &past)
	full := newCoupon(t, s, "FULL", intPtr(1), nil)
	full.CurrentUses = 1
	require.NoError(t, s.db.Model(full).Update("current_uses", 1).Error)
	off := newCoupon(t, s, "OFF", nil, nil)
	require.NoError(t, s.db.Model(off).Update("is_active", false).Error)

	coupons, err := s.ListAvailableCoupons(ctx, now)
	require.NoError(t, err)
	var codes []string
	for _, c := range coupons {
		codes = append(codes, c.Code)
	}
	assert.ElementsMatch(t, []string{"OPEN", "LATER"}, codes)
}

func TestUpdateCouponKeepsUsage(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	c := newCoupon(t, s, "KEEP", intPtr(5), nil)
	require.NoError(t, s.RedeemCoupon(ctx, &models.CouponUsage{ID: uuid.New().String(), CouponCode: "KEEP", UsedAt: time.Now().UTC()}))

	c.Description = "updated"
	c.CurrentUses = 0
	require.NoError(t, s.UpdateCoupon(ctx, c))

	got, _ := s.GetCoupon(ctx, c.ID)
	assert.Equal(t, "updated", got.Description)
	assert.Equal(t, 1, got.CurrentUses)

	assert.True(t, apperr.Is(s.UpdateCoupon(ctx, &models.Coupon{ID: "missing"}), apperr.KindNotFound))
}

func TestOrderStats(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for i, o := range []models.Order{
		{Status: models.OrderPending, FinalPrice: 100},
		{Status: models.OrderCompleted, FinalPrice: 50.5},
		{Status: models.OrderCancelled, FinalPrice: 20},
	} {
		o.ID = uuid.New().String()
		o.OrderNumber = uuid.New().String()[:10] + string(rune('a'+i))
		o.UserID = "u1"
		require.NoError(t, s.PlaceOrder(ctx, &o, nil))
	}

	stats, err := s.OrderStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.Completed)
	assert.InDelta(t, 170.5, stats.Revenue, 0.001)
}

func TestDesignOwnership(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	d := &models.Design{ID: uuid.New().String(), UserID: "owner", Prompt: "red hoodie"}
	require.NoError(t, s.CreateDesign(ctx, d))

	_, err := s.ToggleFavorite(ctx, d.ID, "intruder")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	fav, err := s.ToggleFavorite(ctx, d.ID, "owner")
	require.NoError(t, err)
	assert.True(t, fav)
	fav, err = s.ToggleFavorite(ctx, d.ID, "owner")
	require.NoError(t, err)
	assert.False(t, fav)

	assert.True(t, apperr.Is(s.DeleteDesign(ctx, d.ID, "intruder"), apperr.KindNotFound))
	require.NoError(t, s.DeleteDesign(ctx, d.ID, ""))
	n, _ := s.CountDesigns(ctx)
	assert.Zero(t, n)
}

func TestShowcaseOrdering(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mk := func(title string, featured, active bool, likes int) *models.ShowcaseDesign {
		sd := &models.ShowcaseDesign{ID: uuid.New().String(), Title: title, IsFeatured: featured, IsActive: active, LikesCount: likes, Tags: []string{"summer"}}
		require.NoError(t, s.CreateShowcase(ctx, sd))
		if !active {
			require.NoError(t, s.db.Model(sd).Update("is_active", false).Error)
		}
		return sd
	}
	mk("popular", false, true, 90)
	mk("featured", true, true, 1)
	mk("hidden", true, false, 100)
	plain := mk("plain", false, true, 5)

	list, err := s.ListShowcase(ctx, true, 20)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "featured", list[0].Title)
	assert.Equal(t, "popular", list[1].Title)
	assert.Equal(t, []string{"summer"}, []string(list[0].Tags))

	all, _ := s.ListShowcase(ctx, false, 0)
	assert.Len(t, all, 4)

	featured, err := s.ToggleFeatured(ctx, plain.ID)
	require.NoError(t, err)
	assert.True(t, featured)
}

func TestNotifications(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		n := &models.Notification{ID: uuid.New().String(), UserID: "u1", Title: "t", Type: models.NotificationInfo}
		require.NoError(t, s.CreateNotification(ctx, n))
	}
	other := &models.Notification{ID: uuid.New().String(), UserID: "u2", Title: "t"}
	require.NoError(t, s.CreateNotification(ctx, other))

	unread, _ := s.CountUnread(ctx, "u1")
	assert.Equal(t, int64(3), unread)

	list, _ := s.ListNotifications(ctx, "u1", 2)
	assert.Len(t, list, 2)

	require.NoError(t, s.MarkRead(ctx, list[0].ID, "u1"))
	require.NoError(t, s.MarkRead(ctx, list[0].ID, "u1"))
	assert.True(t, apperr.Is(s.MarkRead(ctx, other.ID, "u1"), apperr.KindNotFound))

	n, err := s.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.True(t, apperr.Is(s.DeleteNotification(ctx, other.ID, "u1"), apperr.KindNotFound))
	require.NoError(t, s.DeleteNotification(ctx, other.ID, "u2"))
}
