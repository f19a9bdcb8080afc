package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fashion-studio/apperr"
	"fashion-studio/models"
)

func (s *Store) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	c.UTC()
	return dbErr(s.db.WithContext(ctx).Create(c).Error, "Coupon")
}

func (s *Store) GetCoupon(ctx context.Context, id string) (*models.Coupon, error) {
	var c models.Coupon
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, dbErr(err, "Coupon")
	}
	return &c, nil
}

func (s *Store) FindActiveCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := s.db.WithContext(ctx).Where("code = ? AND is_active = ?", code, true).First(&c).Error
	if err != nil {
		return nil, dbErr(err, "Coupon")
	}
	return &c, nil
}

// UpdateCoupon writes every admin-editable field. current_uses is never
// written here so a concurrent redemption cannot be lost.
func (s *Store) UpdateCoupon(ctx context.Context, c *models.Coupon) error {
	c.UTC()
	tx := s.db.WithContext(ctx)
	res := tx.Model(&models.Coupon{ID: c.ID}).
		Select("*").
		Omit("id", "code", "current_uses", "created_at").
		Updates(c)
	if res.Error != nil {
		return dbErr(res.Error, "Coupon")
	}
	if res.RowsAffected == 0 {
		return s.exists(tx, &models.Coupon{}, "Coupon", "id = ?", c.ID)
	}
	return nil
}

func (s *Store) DeleteCoupon(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Coupon{}, "id = ?", id)
	if res.Error != nil {
		return dbErr(res.Error, "Coupon")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Coupon not found")
	}
	return nil
}

func (s *Store) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&coupons).Error
	return coupons, dbErr(err, "Coupon")
}

func (s *Store) ListAvailableCoupons(ctx context.Context, now time.Time) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("(expiry_date IS NULL OR expiry_date >= ?)", now.UTC()).
		Where("(max_uses IS NULL OR current_uses < max_uses)").
		Order("created_at desc").
		Find(&coupons).Error
	return coupons, dbErr(err, "Coupon")
}

func (s *Store) RedeemCoupon(ctx context.Context, usage *models.CouponUsage) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return redeem(tx, usage)
	})
}

func (s *Store) ListCouponUsages(ctx context.Context, couponID string) ([]models.CouponUsage, error) {
	var usages []models.CouponUsage
	err := s.db.WithContext(ctx).Where("coupon_id = ?", couponID).Order("used_at desc").Find(&usages).Error
	return usages, dbErr(err, "Coupon usage")
}

// redeem takes one use of usage.CouponCode inside tx and records the usage.
func redeem(tx *gorm.DB, usage *models.CouponUsage) error {
	usage.UsedAt = usage.UsedAt.UTC()
	res := tx.Model(&models.Coupon{}).
		Where("code = ? AND is_active = ?", usage.CouponCode, true).
		Where("(max_uses IS NULL OR current_uses < max_uses)").
		Where("(expiry_date IS NULL OR expiry_date >= ?)", usage.UsedAt).
		Update("current_uses", gorm.Expr("current_uses + ?", 1))
	if res.Error != nil {
		return dbErr(res.Error, "Coupon")
	}

	var c models.Coupon
	if err := tx.Where("code = ?", usage.CouponCode).First(&c).Error; err != nil {
		return dbErr(err, "Coupon")
	}
	if res.RowsAffected == 0 {
		switch {
		case !c.IsActive:
			return apperr.NotFound("Coupon not found")
		case c.Expired(usage.UsedAt):
			return apperr.Expired("Coupon has expired")
		default:
			return apperr.LimitExceeded("Coupon usage limit reached")
		}
	}

	usage.CouponID = c.ID
	return dbErr(tx.Create(usage).Error, "Coupon usage")
}
