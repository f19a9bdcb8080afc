package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fashion-studio/apperr"
	"fashion-studio/catalog"
	"fashion-studio/coupon"
	"fashion-studio/log"
	"fashion-studio/models"
	"fashion-studio/pricing"
	"fashion-studio/store"
)

type Notifier interface {
	Notify(ctx context.Context, userID, title, message, kind, orderID string) (*models.Notification, error)
}

type CreateRequest struct {
	TemplateID        string `json:"template_id"`
	DesignID          string `json:"design_id"`
	DesignImageBase64 string `json:"design_image_base64"`
	Prompt            string `json:"prompt"`
	PhoneNumber       string `json:"phone_number"`
	Size              string `json:"size"`
	Color             string `json:"color"`
	Notes             string `json:"notes"`
	CouponCode        string `json:"coupon_code"`
	HasCustomElements bool   `json:"has_custom_elements"`
}

type Result struct {
	Order         *models.Order            `json:"order"`
	Price         pricing.PriceCalculation `json:"price_breakdown"`
	CouponApplied bool                     `json:"coupon_applied"`
	CouponMessage string                   `json:"coupon_message,omitempty"`
}

type Assembler struct {
	catalog   *catalog.Catalog
	pricing   *pricing.Calculator
	validator *coupon.Validator
	orders    store.OrderStore
	designs   store.DesignStore
	notifier  Notifier
	ids       *snowflake.Node
	now       func() time.Time
}

func NewAssembler(c *catalog.Catalog, v *coupon.Validator, orders store.OrderStore, designs store.DesignStore, n Notifier, ids *snowflake.Node) *Assembler {
	return &Assembler{
		catalog:   c,
		pricing:   pricing.NewCalculator(c),
		validator: v,
		orders:    orders,
		designs:   designs,
		notifier:  n,
		ids:       ids,
		now:       time.Now,
	}
}

// Create prices and persists an order. A coupon that is unknown, expired or
// used up does not reject the order: it is placed at full price and the
// result reports the coupon as not applied.
func (a *Assembler) Create(ctx context.Context, userID string, req CreateRequest) (*Result, error) {
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return nil, apperr.InvalidArgument("phone_number is required")
	}
	if strings.TrimSpace(req.DesignImageBase64) == "" && req.DesignID == "" {
		return nil, apperr.InvalidArgument("design_image_base64 or design_id is required")
	}

	tpl := a.catalog.TemplateOrDefault(req.TemplateID)
	custom := req.HasCustomElements
	if req.DesignID != "" {
		d, err := a.designs.GetDesign(ctx, req.DesignID)
		if err != nil {
			return nil, err
		}
		if d.UserID != userID {
			return nil, apperr.NotFound("Design not found")
		}
		if req.TemplateID == "" {
			tpl = a.designTemplate(d)
		}
		if req.DesignImageBase64 == "" {
			req.DesignImageBase64 = d.ImageBase64
		}
		if req.Prompt == "" {
			req.Prompt = d.Prompt
		}
		if req.Color == "" {
			req.Color = d.Color
		}
		custom = custom || d.HasCustomElements()
	}

	size := strings.ToUpper(strings.TrimSpace(req.Size))
	if size == "" {
		size = catalog.DefaultSize
	}
	price := a.pricing.Calculate(tpl.ID, size, custom)

	now := a.now().UTC()
	o := &models.Order{
		ID:                uuid.New().String(),
		OrderNumber:       "FS-" + a.ids.Generate().String(),
		UserID:            userID,
		DesignID:          req.DesignID,
		TemplateID:        tpl.ID,
		DesignImageBase64: req.DesignImageBase64,
		Prompt:            req.Prompt,
		PhoneNumber:       strings.TrimSpace(req.PhoneNumber),
		Size:              size,
		Color:             req.Color,
		Notes:             req.Notes,
		Price:             price.TotalPrice,
		FinalPrice:        price.TotalPrice,
		Currency:          price.Currency,
		Status:            models.OrderPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	res := &Result{Order: o, Price: price}

	if code := coupon.NormalizeCode(req.CouponCode); code != "" {
		if err := a.placeWithCoupon(ctx, res, code, now); err != nil {
			return nil, err
		}
	} else if err := a.orders.PlaceOrder(ctx, o, nil); err != nil {
		return nil, err
	}

	log.L().Info("order created",
		zap.String("order_number", o.OrderNumber),
		zap.String("user_id", userID),
		zap.Float64("final_price", o.FinalPrice),
		zap.Bool("coupon_applied", res.CouponApplied))

	if a.notifier != nil {
		msg := fmt.Sprintf("Your order %s was received. We will contact you soon on %s.", o.OrderNumber, o.PhoneNumber)
		if _, err := a.notifier.Notify(ctx, userID, "Order received", msg, models.NotificationOrderStatus, o.ID); err != nil {
			log.L().Warn("order notification failed", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	return res, nil
}

func (a *Assembler) placeWithCoupon(ctx context.Context, res *Result, code string, now time.Time) error {
	o := res.Order
	v, err := a.validator.Validate(ctx, code)
	if err != nil {
		return err
	}
	res.CouponMessage = v.Message
	if !v.Valid {
		return a.orders.PlaceOrder(ctx, o, nil)
	}

	o.Discount = pricing.Discount(o.Price, v.DiscountPercentage, v.DiscountAmount)
	o.FinalPrice = pricing.FinalPrice(o.Price, o.Discount)
	o.CouponCode = code
	usage := &models.CouponUsage{
		ID:         uuid.New().String(),
		CouponCode: code,
		UserID:     o.UserID,
		UsedAt:     now,
	}

	err = a.orders.PlaceOrder(ctx, o, usage)
	if err == nil {
		res.CouponApplied = true
		return nil
	}

	// the coupon changed between validation and redemption
	switch apperr.KindOf(err) {
	case apperr.KindLimitExceeded:
		res.CouponMessage = coupon.MessageExhausted
	case apperr.KindExpired:
		res.CouponMessage = coupon.MessageExpired
	case apperr.KindNotFound:
		res.CouponMessage = coupon.MessageInvalid
	default:
		return err
	}
	o.Discount, o.FinalPrice, o.CouponCode = 0, o.Price, ""
	return a.orders.PlaceOrder(ctx, o, nil)
}

func (a *Assembler) designTemplate(d *models.Design) catalog.Template {
	if t, ok := a.catalog.Template(d.TemplateID); ok {
		return t
	}
	return a.catalog.TemplateByType(d.ClothingType)
}
