package models

import (
	"time"

	"gorm.io/datatypes"
)

// Unlimited is the designs limit value that disables the quota.
const Unlimited = -1

// DefaultDesignsLimit is granted to newly registered users.
const DefaultDesignsLimit = 3

type Measurements struct {
	Chest         float64 `json:"chest,omitempty" bson:"chest,omitempty"`
	Waist         float64 `json:"waist,omitempty" bson:"waist,omitempty"`
	Hips          float64 `json:"hips,omitempty" bson:"hips,omitempty"`
	Height        float64 `json:"height,omitempty" bson:"height,omitempty"`
	Weight        float64 `json:"weight,omitempty" bson:"weight,omitempty"`
	PreferredSize string  `json:"preferred_size,omitempty" bson:"preferred_size,omitempty"`
}

type User struct {
	ID            string       `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	Username      string       `gorm:"uniqueIndex;size:64;not null" json:"username" bson:"username"`
	Email         string       `gorm:"uniqueIndex;size:191;not null" json:"email" bson:"email"`
	Password      string       `json:"-" bson:"password"`
	IsAdmin       bool         `json:"is_admin" bson:"is_admin"`
	DesignsLimit  int          `gorm:"not null;default:3" json:"designs_limit" bson:"designs_limit"`
	DesignsUsed   int          `gorm:"not null;default:0" json:"designs_used" bson:"designs_used"`
	Measurements  Measurements `gorm:"embedded;embeddedPrefix:measure_" json:"measurements" bson:"measurements"`
	EmailVerified bool         `json:"email_verified" bson:"email_verified"`
	CreatedAt     time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" bson:"updated_at"`
}

func (u User) Unlimited() bool {
	return u.DesignsLimit == Unlimited
}

type Coupon struct {
	ID                 string     `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	Code               string     `gorm:"uniqueIndex;size:64;not null" json:"code" bson:"code"`
	DiscountPercentage *float64   `json:"discount_percentage" bson:"discount_percentage,omitempty"`
	DiscountAmount     *float64   `json:"discount_amount" bson:"discount_amount,omitempty"`
	Description        string     `json:"description" bson:"description"`
	IsActive           bool       `gorm:"not null;default:true" json:"is_active" bson:"is_active"`
	MaxUses            *int       `json:"max_uses" bson:"max_uses,omitempty"`
	CurrentUses        int        `gorm:"not null;default:0" json:"current_uses" bson:"current_uses"`
	ExpiryDate         *time.Time `json:"expiry_date" bson:"expiry_date,omitempty"`
	CreatedAt          time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" bson:"updated_at"`
}

// UTC moves the coupon timestamps to UTC. Stores compare expiry_date against
// UTC instants, and SQLite compares the stored text, so an offset must not survive.
func (c *Coupon) UTC() {
	if c.ExpiryDate != nil {
		e := c.ExpiryDate.UTC()
		c.ExpiryDate = &e
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
}

// Expired reports whether the coupon expiry lies strictly before now.
func (c Coupon) Expired(now time.Time) bool {
	return c.ExpiryDate != nil && c.ExpiryDate.Before(now)
}

// Exhausted reports whether the usage cap has been reached.
func (c Coupon) Exhausted() bool {
	return c.MaxUses != nil && c.CurrentUses >= *c.MaxUses
}

// Usable is true when the coupon is active, not expired and not exhausted.
func (c Coupon) Usable(now time.Time) bool {
	return c.IsActive && !c.Expired(now) && !c.Exhausted()
}

// CouponUsage records one successful redemption.
type CouponUsage struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	CouponID   string    `gorm:"index;size:36" json:"coupon_id" bson:"coupon_id"`
	CouponCode string    `gorm:"size:64" json:"coupon_code" bson:"coupon_code"`
	UserID     string    `gorm:"index;size:36" json:"user_id" bson:"user_id"`
	OrderID    string    `gorm:"size:36" json:"order_id" bson:"order_id"`
	UsedAt     time.Time `json:"used_at" bson:"used_at"`
}

const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// ValidOrderStatus reports whether status belongs to the fixed order status set.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderPending, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	OrderNumber       string    `gorm:"uniqueIndex;size:32" json:"order_number" bson:"order_number"`
	UserID            string    `gorm:"index;size:36;not null" json:"user_id" bson:"user_id"`
	DesignID          string    `gorm:"size:36" json:"design_id,omitempty" bson:"design_id,omitempty"`
	TemplateID        string    `gorm:"size:64" json:"template_id" bson:"template_id"`
	DesignImageBase64 string    `gorm:"type:longtext" json:"design_image_base64,omitempty" bson:"design_image_base64,omitempty"`
	Prompt            string    `gorm:"type:text" json:"prompt" bson:"prompt"`
	PhoneNumber       string    `gorm:"size:32" json:"phone_number" bson:"phone_number"`
	Size              string    `gorm:"size:8" json:"size" bson:"size"`
	Color             string    `gorm:"size:32" json:"color" bson:"color"`
	Notes             string    `gorm:"type:text" json:"notes" bson:"notes"`
	Price             float64   `json:"price" bson:"price"`
	Discount          float64   `json:"discount" bson:"discount"`
	FinalPrice        float64   `json:"final_price" bson:"final_price"`
	Currency          string    `gorm:"size:3" json:"currency" bson:"currency"`
	CouponCode        string    `gorm:"size:64" json:"coupon_code,omitempty" bson:"coupon_code,omitempty"`
	Status            string    `gorm:"index;size:16;not null" json:"status" bson:"status"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

// OrderStats aggregates orders for the admin dashboard.
type OrderStats struct {
	Total     int64   `json:"total_orders"`
	Pending   int64   `json:"pending_orders"`
	Completed int64   `json:"completed_orders"`
	Revenue   float64 `json:"total_revenue"`
}

type Design struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	UserID          string    `gorm:"index;size:36;not null" json:"user_id" bson:"user_id"`
	Prompt          string    `gorm:"type:text" json:"prompt" bson:"prompt"`
	ImageBase64     string    `gorm:"type:longtext" json:"image_base64" bson:"image_base64"`
	ClothingType    string    `gorm:"size:32" json:"clothing_type" bson:"clothing_type"`
	TemplateID      string    `gorm:"size:64" json:"template_id" bson:"template_id"`
	Color           string    `gorm:"size:32" json:"color" bson:"color"`
	PhoneNumber     string    `gorm:"size:32" json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	UserPhotoBase64 string    `gorm:"type:longtext" json:"user_photo_base64,omitempty" bson:"user_photo_base64,omitempty"`
	LogoBase64      string    `gorm:"type:longtext" json:"logo_base64,omitempty" bson:"logo_base64,omitempty"`
	IsFavorite      bool      `json:"is_favorite" bson:"is_favorite"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}

// HasCustomElements reports whether the design carries a logo or a user photo.
func (d Design) HasCustomElements() bool {
	return d.LogoBase64 != "" || d.UserPhotoBase64 != ""
}

type ShowcaseDesign struct {
	ID           string                      `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	Title        string                      `gorm:"size:191;not null" json:"title" bson:"title"`
	Description  string                      `gorm:"type:text" json:"description" bson:"description"`
	Prompt       string                      `gorm:"type:text" json:"prompt" bson:"prompt"`
	ImageBase64  string                      `gorm:"type:longtext" json:"image_base64" bson:"image_base64"`
	ClothingType string                      `gorm:"size:32" json:"clothing_type" bson:"clothing_type"`
	Color        string                      `gorm:"size:32" json:"color" bson:"color"`
	TemplateID   string                      `gorm:"size:64" json:"template_id" bson:"template_id"`
	Tags         datatypes.JSONSlice[string] `json:"tags" bson:"tags"`
	LikesCount   int                         `json:"likes_count" bson:"likes_count"`
	IsFeatured   bool                        `json:"is_featured" bson:"is_featured"`
	IsActive     bool                        `gorm:"not null;default:true" json:"is_active" bson:"is_active"`
	CreatedAt    time.Time                   `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at" bson:"updated_at"`
}

const (
	NotificationInfo        = "info"
	NotificationSuccess     = "success"
	NotificationWarning     = "warning"
	NotificationError       = "error"
	NotificationOrderStatus = "order_status"
)

type Notification struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	UserID         string    `gorm:"index;size:36;not null" json:"user_id" bson:"user_id"`
	Title          string    `gorm:"size:191" json:"title" bson:"title"`
	Message        string    `gorm:"type:text" json:"message" bson:"message"`
	Type           string    `gorm:"size:16" json:"type" bson:"type"`
	IsRead         bool      `gorm:"index" json:"is_read" bson:"is_read"`
	RelatedOrderID string    `gorm:"size:36" json:"related_order_id,omitempty" bson:"related_order_id,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}
