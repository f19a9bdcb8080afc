package order

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashion-studio/apperr"
	"fashion-studio/catalog"
	"fashion-studio/coupon"
	"fashion-studio/models"
	"fashion-studio/notify"
	"fashion-studio/web/db"
)

type fixture struct {
	store     *db.Store
	assembler *Assembler
	notifier  *notify.Notifier
}

func setup(t *testing.T) *fixture {
	gdb, err := db.Connect("sqlite", filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	require.NoError(t, db.Sync(gdb))
	s := db.NewStore(gdb)
	t.Cleanup(func() { s.Close(context.Background()) })

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	n := notify.New(s, nil, nil)
	a := NewAssembler(catalog.Default(), coupon.NewValidator(s), s, s, n, node)
	return &fixture{store: s, assembler: a, notifier: n}
}

func (f *fixture) coupon(t *testing.T, code string, pct, amount *float64, maxUses *int, expiry *time.Time) *models.Coupon {
	c := &models.Coupon{
		ID:                 uuid.New().String(),
		Code:               code,
		DiscountPercentage: pct,
		DiscountAmount:     amount,
		IsActive:           true,
		MaxUses:            maxUses,
		ExpiryDate:         expiry,
	}
	require.NoError(t, f.store.CreateCoupon(context.Background(), c))
	return c
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int { return &v }

func tshirtL(code string) CreateRequest {
	return CreateRequest{
		TemplateID:        "tshirt",
		Size:              "L",
		DesignImageBase64: "aW1n",
		Prompt:            "black tee",
		PhoneNumber:       "+966500000000",
		CouponCode:        code,
	}
}

func TestCreateWithoutCoupon(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.assembler.Create(ctx, "u1", tshirtL(""))
	require.NoError(t, err)

	o := res.Order
	assert.Equal(t, 120.0, o.Price)
	assert.Equal(t, 0.0, o.Discount)
	assert.Equal(t, 120.0, o.FinalPrice)
	assert.Equal(t, "SAR", o.Currency)
	assert.Equal(t, models.OrderPending, o.Status)
	assert.True(t, strings.HasPrefix(o.OrderNumber, "FS-"))
	assert.False(t, res.CouponApplied)

	notes, err := f.notifier.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, o.ID, notes[0].RelatedOrderID)
}

func TestCreateWithPercentageCoupon(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c := f.coupon(t, "HALF", fptr(50), nil, iptr(10), nil)

	res, err := f.assembler.Create(ctx, "u1", tshirtL(" half "))
	require.NoError(t, err)

	assert.True(t, res.CouponApplied)
	assert.Equal(t, coupon.MessageApplied, res.CouponMessage)
	assert.Equal(t, 60.0, res.Order.Discount)
	assert.Equal(t, 60.0, res.Order.FinalPrice)
	assert.Equal(t, "HALF", res.Order.CouponCode)

	got, _ := f.store.GetCoupon(ctx, c.ID)
	assert.Equal(t, 1, got.CurrentUses)
	usages, _ := f.store.ListCouponUsages(ctx, c.ID)
	require.Len(t, usages, 1)
	assert.Equal(t, res.Order.ID, usages[0].OrderID)
}

func TestCreateWithCouponExpiringInOtherZone(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	exp := time.Now().In(time.FixedZone("UTC-5", -5*3600)).Add(2 * time.Hour)
	f.coupon(t, "EAST", fptr(50), nil, nil, &exp)

	res, err := f.assembler.Create(ctx, "u1", tshirtL("EAST"))
	require.NoError(t, err)
	assert.True(t, res.CouponApplied)
	assert.Equal(t, coupon.MessageApplied, res.CouponMessage)
	assert.Equal(t, 60.0, res.Order.FinalPrice)

	avail, err := f.store.ListAvailableCoupons(ctx, time.Now())
	require.NoError(t, err)
	assert.Len(t, avail, 1)
}

func TestCreateWithAmountLargerThanTotal(t *testing.T) {
	f := setup(t)
	f.coupon(t, "BIG", nil, fptr(200), nil, nil)

	res, err := f.assembler.Create(context.Background(), "u1", tshirtL("BIG"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Order.FinalPrice)
	assert.Equal(t, 200.0, res.Order.Discount)
}

// An unusable coupon does not reject the order; it is placed at full price.
func TestUnusableCouponFallsBackToFullPrice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	past := time.Now().UTC().Add(-time.Hour)
	f.coupon(t, "OLD", fptr(20), nil, nil, &past)
	full := f.coupon(t, "FULL", fptr(20), nil, iptr(1), nil)
	require.NoError(t, f.store.DB().Model(full).Update("current_uses", 1).Error)

	cases := map[string]string{
		"NOSUCH": coupon.MessageInvalid,
		"OLD":    coupon.MessageExpired,
		"FULL":   coupon.MessageExhausted,
	}
	for code, msg := range cases {
		res, err := f.assembler.Create(ctx, "u1", tshirtL(code))
		require.NoError(t, err, code)
		assert.False(t, res.CouponApplied, code)
		assert.Equal(t, msg, res.CouponMessage, code)
		assert.Equal(t, 120.0, res.Order.FinalPrice, code)
		assert.Empty(t, res.Order.CouponCode, code)
	}

	got, _ := f.store.GetCoupon(ctx, full.ID)
	assert.Equal(t, 1, got.CurrentUses)
}

func TestConcurrentOrdersShareSingleUseCoupon(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c := f.coupon(t, "ONCE", fptr(50), nil, iptr(1), nil)

	results := make([]*Result, 4)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.assembler.Create(ctx, "u1", tshirtL("ONCE"))
			if assert.NoError(t, err) {
				results[i] = res
			}
		}(i)
	}
	wg.Wait()

	applied := 0
	for _, r := range results {
		if r != nil && r.CouponApplied {
			applied++
			assert.Equal(t, 60.0, r.Order.FinalPrice)
		} else if r != nil {
			assert.Equal(t, 120.0, r.Order.FinalPrice)
		}
	}
	assert.Equal(t, 1, applied)

	got, _ := f.store.GetCoupon(ctx, c.ID)
	assert.Equal(t, 1, got.CurrentUses)
	orders, _ := f.assembler.ListForUser(ctx, "u1")
	assert.Len(t, orders, 4)
}

func TestCreateFromDesign(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d := &models.Design{
		ID:           uuid.New().String(),
		UserID:       "u1",
		Prompt:       "geometric hoodie",
		ImageBase64:  "ZGVzaWdu",
		ClothingType: "hoodie",
		LogoBase64:   "bG9nbw==",
		Color:        "#000000",
	}
	require.NoError(t, f.store.CreateDesign(ctx, d))

	res, err := f.assembler.Create(ctx, "u1", CreateRequest{DesignID: d.ID, PhoneNumber: "0500000000"})
	require.NoError(t, err)
	assert.Equal(t, "hoodie", res.Order.TemplateID)
	assert.Equal(t, "M", res.Order.Size)
	assert.Equal(t, 250.0+10+50, res.Order.Price)
	assert.Equal(t, "ZGVzaWdu", res.Order.DesignImageBase64)
	assert.Equal(t, "geometric hoodie", res.Order.Prompt)

	_, err = f.assembler.Create(ctx, "u2", CreateRequest{DesignID: d.ID, PhoneNumber: "0500000000"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreateValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.assembler.Create(ctx, "u1", CreateRequest{DesignImageBase64: "x"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))

	_, err = f.assembler.Create(ctx, "u1", CreateRequest{PhoneNumber: "0500000000"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
}

func TestUnknownTemplateUsesDefault(t *testing.T) {
	f := setup(t)
	req := tshirtL("")
	req.TemplateID = "cape"

	res, err := f.assembler.Create(context.Background(), "u1", req)
	require.NoError(t, err)
	assert.Equal(t, "casual-shirt", res.Order.TemplateID)
	assert.Equal(t, 170.0, res.Order.Price)
}

func TestUpdateStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	res, err := f.assembler.Create(ctx, "u1", tshirtL(""))
	require.NoError(t, err)

	_, err = f.assembler.UpdateStatus(ctx, res.Order.ID, "shipped")
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))

	o, err := f.assembler.UpdateStatus(ctx, res.Order.ID, models.OrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, o.Status)

	_, err = f.assembler.UpdateStatus(ctx, "missing", models.OrderCompleted)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	unread, _ := f.notifier.UnreadCount(ctx, "u1")
	assert.Equal(t, int64(2), unread)

	_, err = f.assembler.Get(ctx, res.Order.ID, "u2")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDashboardStats(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.store.CreateUser(ctx, &models.User{ID: "u1", Username: "u1", Email: "u1@example.com", DesignsLimit: 3}))

	res, err := f.assembler.Create(ctx, "u1", tshirtL(""))
	require.NoError(t, err)
	_, err = f.assembler.Create(ctx, "u1", tshirtL(""))
	require.NoError(t, err)
	_, err = f.assembler.UpdateStatus(ctx, res.Order.ID, models.OrderCompleted)
	require.NoError(t, err)

	st, err := DashboardStats(ctx, f.store)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.TotalUsers)
	assert.Equal(t, int64(2), st.Total)
	assert.Equal(t, int64(1), st.Pending)
	assert.Equal(t, int64(1), st.Completed)
	assert.InDelta(t, 240.0, st.Revenue, 0.001)
}
