package coupon

import (
	"context"
	"strings"
	"time"

	"fashion-studio/apperr"
	"fashion-studio/models"
)

const (
	MessageInvalid   = "invalid"
	MessageExpired   = "expired"
	MessageExhausted = "exhausted"
	MessageApplied   = "applied"
)

// Lookup finds an active coupon by normalized code. A missing coupon is
// reported as apperr.KindNotFound.
type Lookup interface {
	FindActiveCoupon(ctx context.Context, code string) (*models.Coupon, error)
}

type Validation struct {
	Valid              bool           `json:"valid"`
	DiscountPercentage *float64       `json:"discount_percentage"`
	DiscountAmount     *float64       `json:"discount_amount"`
	Message            string         `json:"message"`
	Coupon             *models.Coupon `json:"-"`
}

// NormalizeCode is the canonical form codes are stored and looked up in.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type Validator struct {
	coupons Lookup
	now     func() time.Time
}

func NewValidator(coupons Lookup) *Validator {
	return &Validator{coupons: coupons, now: time.Now}
}

// Validate checks a code against the live coupon state. Only store failures
// are returned as errors; an unusable coupon is a Validation with Valid false.
func (v *Validator) Validate(ctx context.Context, code string) (Validation, error) {
	code = NormalizeCode(code)
	if code == "" {
		return Validation{Message: MessageInvalid}, nil
	}

	c, err := v.coupons.FindActiveCoupon(ctx, code)
	if apperr.Is(err, apperr.KindNotFound) {
		return Validation{Message: MessageInvalid}, nil
	}
	if err != nil {
		return Validation{}, apperr.Upstream("Failed to look up coupon", err)
	}

	if c.Expired(v.now()) {
		return Validation{Message: MessageExpired, Coupon: c}, nil
	}
	if c.Exhausted() {
		return Validation{Message: MessageExhausted, Coupon: c}, nil
	}

	return Validation{
		Valid:              true,
		DiscountPercentage: c.DiscountPercentage,
		DiscountAmount:     c.DiscountAmount,
		Message:            MessageApplied,
		Coupon:             c,
	}, nil
}
