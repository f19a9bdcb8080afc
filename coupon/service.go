package coupon

import (
	"context"
	"fmt"
	"time"

	"fashion-studio/apperr"
	"fashion-studio/models"
	"fashion-studio/store"

	"github.com/google/uuid"
)

const defaultValidity = 365 * 24 * time.Hour

type CreateInput struct {
	Code               string     `json:"code"`
	DiscountPercentage *float64   `json:"discount_percentage"`
	DiscountAmount     *float64   `json:"discount_amount"`
	Description        string     `json:"description"`
	MaxUses            *int       `json:"max_uses"`
	ExpiryDate         *time.Time `json:"expiry_date"`
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	DiscountPercentage *float64   `json:"discount_percentage"`
	DiscountAmount     *float64   `json:"discount_amount"`
	Description        *string    `json:"description"`
	IsActive           *bool      `json:"is_active"`
	MaxUses            *int       `json:"max_uses"`
	ExpiryDate         *time.Time `json:"expiry_date"`
}

// Service manages coupons for admins and lists usable ones for shoppers.
type Service struct {
	store     store.CouponStore
	Validator *Validator
	now       func() time.Time
}

func NewService(s store.CouponStore) *Service {
	return &Service{store: s, Validator: NewValidator(s), now: time.Now}
}

func validateDiscount(pct, amount *float64) error {
	hasPct := pct != nil && *pct > 0
	hasAmount := amount != nil && *amount > 0
	if !hasPct && !hasAmount {
		return apperr.InvalidArgument("Either discount_percentage or discount_amount is required")
	}
	if pct != nil && (*pct < 0 || *pct > 100) {
		return apperr.InvalidArgument("discount_percentage must be between 0 and 100")
	}
	if amount != nil && *amount < 0 {
		return apperr.InvalidArgument("discount_amount must not be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Coupon, error) {
	code := NormalizeCode(in.Code)
	if code == "" {
		return nil, apperr.InvalidArgument("Coupon code is required")
	}
	if err := validateDiscount(in.DiscountPercentage, in.DiscountAmount); err != nil {
		return nil, err
	}
	if in.MaxUses != nil && *in.MaxUses < 1 {
		return nil, apperr.InvalidArgument("max_uses must be at least 1")
	}

	now := s.now().UTC()
	expiry := in.ExpiryDate
	if expiry == nil {
		e := now.Add(defaultValidity)
		expiry = &e
	}

	c := &models.Coupon{
		ID:                 uuid.New().String(),
		Code:               code,
		DiscountPercentage: in.DiscountPercentage,
		DiscountAmount:     in.DiscountAmount,
		Description:        in.Description,
		IsActive:           true,
		MaxUses:            in.MaxUses,
		ExpiryDate:         expiry,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	c.UTC()
	if err := s.store.CreateCoupon(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.Coupon, error) {
	c, err := s.store.GetCoupon(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.DiscountPercentage != nil {
		c.DiscountPercentage = in.DiscountPercentage
	}
	if in.DiscountAmount != nil {
		c.DiscountAmount = in.DiscountAmount
	}
	if err := validateDiscount(c.DiscountPercentage, c.DiscountAmount); err != nil {
		return nil, err
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.MaxUses != nil {
		if *in.MaxUses < c.CurrentUses {
			return nil, apperr.InvalidArgumentf("max_uses cannot be below current uses (%d)", c.CurrentUses)
		}
		c.MaxUses = in.MaxUses
	}
	if in.ExpiryDate != nil {
		c.ExpiryDate = in.ExpiryDate
	}
	c.UpdatedAt = s.now().UTC()
	c.UTC()

	if err := s.store.UpdateCoupon(ctx, c); err != nil {
		return nil, fmt.Errorf("update coupon %s: %w", id, err)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteCoupon(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]models.Coupon, error) {
	return s.store.ListCoupons(ctx)
}

// Available lists coupons a shopper can use right now.
func (s *Service) Available(ctx context.Context) ([]models.Coupon, error) {
	return s.store.ListAvailableCoupons(ctx, s.now().UTC())
}

// Redeem consumes one use of a coupon outside of order placement.
func (s *Service) Redeem(ctx context.Context, code, userID, orderID string) (*models.CouponUsage, error) {
	usage := &models.CouponUsage{
		ID:         uuid.New().String(),
		CouponCode: NormalizeCode(code),
		UserID:     userID,
		OrderID:    orderID,
		UsedAt:     s.now().UTC(),
	}
	if err := s.store.RedeemCoupon(ctx, usage); err != nil {
		return nil, err
	}
	return usage, nil
}

func (s *Service) Usages(ctx context.Context, couponID string) ([]models.CouponUsage, error) {
	return s.store.ListCouponUsages(ctx, couponID)
}
