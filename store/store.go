// Package store declares the persistence contract shared by the SQL (gorm) and
// MongoDB backends. Counter updates are conditional and atomic in every
// implementation; a failed guard is reported as apperr.KindLimitExceeded.
package store

import (
	"context"
	"time"

	"fashion-studio/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)
	UpdateMeasurements(ctx context.Context, id string, m models.Measurements) error

	// IncrementDesignsUsed adds one generation to the user's usage when the
	// user is unlimited or still below the limit.
	IncrementDesignsUsed(ctx context.Context, id string) error
	ResetDesignsUsed(ctx context.Context, id string) error
	AddDesignsLimit(ctx context.Context, id string, amount int) error
	SetDesignsLimit(ctx context.Context, id string, limit int) error
}

type CouponStore interface {
	CreateCoupon(ctx context.Context, c *models.Coupon) error
	GetCoupon(ctx context.Context, id string) (*models.Coupon, error)
	// FindActiveCoupon looks a coupon up by its normalized code among active coupons.
	FindActiveCoupon(ctx context.Context, code string) (*models.Coupon, error)
	UpdateCoupon(ctx context.Context, c *models.Coupon) error
	DeleteCoupon(ctx context.Context, id string) error
	ListCoupons(ctx context.Context) ([]models.Coupon, error)
	ListAvailableCoupons(ctx context.Context, now time.Time) ([]models.Coupon, error)
	// RedeemCoupon increments current_uses when the coupon is still active and
	// below its cap, and records the usage.
	RedeemCoupon(ctx context.Context, usage *models.CouponUsage) error
	ListCouponUsages(ctx context.Context, couponID string) ([]models.CouponUsage, error)
}

type OrderStore interface {
	// PlaceOrder persists o. When usage is non-nil the coupon redemption and the
	// order insert commit together or not at all.
	PlaceOrder(ctx context.Context, o *models.Order, usage *models.CouponUsage) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error)
	OrderStats(ctx context.Context) (models.OrderStats, error)
}

type DesignStore interface {
	CreateDesign(ctx context.Context, d *models.Design) error
	GetDesign(ctx context.Context, id string) (*models.Design, error)
	ListDesignsByUser(ctx context.Context, userID string) ([]models.Design, error)
	ListDesigns(ctx context.Context) ([]models.Design, error)
	CountDesigns(ctx context.Context) (int64, error)
	// ToggleFavorite flips is_favorite on a design owned by userID and returns the new value.
	ToggleFavorite(ctx context.Context, id, userID string) (bool, error)
	// DeleteDesign removes a design. An empty userID skips the ownership check.
	DeleteDesign(ctx context.Context, id, userID string) error
}

type ShowcaseStore interface {
	CreateShowcase(ctx context.Context, s *models.ShowcaseDesign) error
	GetShowcase(ctx context.Context, id string) (*models.ShowcaseDesign, error)
	UpdateShowcase(ctx context.Context, s *models.ShowcaseDesign) error
	DeleteShowcase(ctx context.Context, id string) error
	// ListShowcase returns showcase designs featured first, then by likes.
	// activeOnly hides deactivated entries; limit <= 0 means no limit.
	ListShowcase(ctx context.Context, activeOnly bool, limit int) ([]models.ShowcaseDesign, error)
	CountShowcase(ctx context.Context) (int64, error)
	ToggleFeatured(ctx context.Context, id string) (bool, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	DeleteNotification(ctx context.Context, id, userID string) error
}

// Store is the full persistence surface the service needs.
type Store interface {
	UserStore
	CouponStore
	OrderStore
	DesignStore
	ShowcaseStore
	NotificationStore

	Close(ctx context.Context) error
}
