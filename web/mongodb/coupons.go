package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"fashion-studio/apperr"
	"fashion-studio/log"
	"fashion-studio/models"
)

func (s *Store) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	c.UTC()
	_, err := s.col(colCoupons).InsertOne(ctx, c)
	return mongoErr(err, "Coupon")
}

func (s *Store) GetCoupon(ctx context.Context, id string) (*models.Coupon, error) {
	return findOne[models.Coupon](ctx, s.col(colCoupons), bson.M{"_id": id}, "Coupon")
}

func (s *Store) FindActiveCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	return findOne[models.Coupon](ctx, s.col(colCoupons), bson.M{"code": code, "is_active": true}, "Coupon")
}

func (s *Store) UpdateCoupon(ctx context.Context, c *models.Coupon) error {
	c.UTC()
	res, err := s.col(colCoupons).UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
		"discount_percentage": c.DiscountPercentage,
		"discount_amount":     c.DiscountAmount,
		"description":         c.Description,
		"is_active":           c.IsActive,
		"max_uses":            c.MaxUses,
		"expiry_date":         c.ExpiryDate,
		"updated_at":          time.Now().UTC(),
	}})
	return matched(res, err, "Coupon")
}

func (s *Store) DeleteCoupon(ctx context.Context, id string) error {
	res, err := s.col(colCoupons).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoErr(err, "Coupon")
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Coupon not found")
	}
	return nil
}

func (s *Store) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	return findAll[models.Coupon](ctx, s.col(colCoupons), bson.M{}, "Coupon", newestFirst)
}

func usableFilter(now time.Time) bson.M {
	return bson.M{
		"is_active": true,
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"max_uses": nil},
				bson.M{"$expr": bson.M{"$lt": bson.A{"$current_uses", "$max_uses"}}},
			}},
			bson.M{"$or": bson.A{
				bson.M{"expiry_date": nil},
				bson.M{"expiry_date": bson.M{"$gte": now.UTC()}},
			}},
		},
	}
}

func (s *Store) ListAvailableCoupons(ctx context.Context, now time.Time) ([]models.Coupon, error) {
	return findAll[models.Coupon](ctx, s.col(colCoupons), usableFilter(now), "Coupon", newestFirst)
}

func (s *Store) RedeemCoupon(ctx context.Context, usage *models.CouponUsage) error {
	c, err := s.takeUse(ctx, usage)
	if err != nil {
		return err
	}
	if _, err := s.col(colCouponUsages).InsertOne(ctx, usage); err != nil {
		s.returnUse(ctx, c.ID)
		return mongoErr(err, "Coupon usage")
	}
	return nil
}

func (s *Store) ListCouponUsages(ctx context.Context, couponID string) ([]models.CouponUsage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "used_at", Value: -1}})
	return findAll[models.CouponUsage](ctx, s.col(colCouponUsages), bson.M{"coupon_id": couponID}, "Coupon usage", opts)
}

// takeUse increments current_uses on a usable coupon and fills usage.CouponID.
func (s *Store) takeUse(ctx context.Context, usage *models.CouponUsage) (*models.Coupon, error) {
	filter := usableFilter(usage.UsedAt)
	filter["code"] = usage.CouponCode

	var c models.Coupon
	err := s.col(colCoupons).FindOneAndUpdate(ctx, filter,
		bson.M{"$inc": bson.M{"current_uses": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, s.classifyRejection(ctx, usage)
	}
	if err != nil {
		return nil, mongoErr(err, "Coupon")
	}
	usage.CouponID = c.ID
	return &c, nil
}

func (s *Store) classifyRejection(ctx context.Context, usage *models.CouponUsage) error {
	c, err := findOne[models.Coupon](ctx, s.col(colCoupons), bson.M{"code": usage.CouponCode}, "Coupon")
	switch {
	case err != nil:
		return err
	case !c.IsActive:
		return apperr.NotFound("Coupon not found")
	case c.Expired(usage.UsedAt):
		return apperr.Expired("Coupon has expired")
	default:
		return apperr.LimitExceeded("Coupon usage limit reached")
	}
}

// returnUse undoes takeUse after a later write failed. It runs detached from
// the request so a cancelled caller still gets its use back.
func (s *Store) returnUse(ctx context.Context, couponID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	_, err := s.col(colCoupons).UpdateOne(ctx,
		bson.M{"_id": couponID, "current_uses": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"current_uses": -1}},
	)
	if err != nil {
		log.L().Error("coupon use not returned", zap.String("coupon_id", couponID), zap.Error(err))
	}
}
