package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"fashion-studio/apperr"
	"fashion-studio/log"
	"fashion-studio/models"
)

// PlaceOrder redeems the coupon first and inserts the order second. A failed
// order insert gives the coupon use back, so usage and orders stay in step
// without requiring a replica set for multi-document transactions. Once the
// order exists it is reported as placed; a lost usage record is only logged.
func (s *Store) PlaceOrder(ctx context.Context, o *models.Order, usage *models.CouponUsage) error {
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now

	if usage == nil {
		_, err := s.col(colOrders).InsertOne(ctx, o)
		return mongoErr(err, "Order")
	}

	usage.OrderID = o.ID
	c, err := s.takeUse(ctx, usage)
	if err != nil {
		return err
	}
	if _, err := s.col(colOrders).InsertOne(ctx, o); err != nil {
		s.returnUse(ctx, c.ID)
		return mongoErr(err, "Order")
	}
	if _, err := s.col(colCouponUsages).InsertOne(context.WithoutCancel(ctx), usage); err != nil {
		log.L().Error("coupon usage not recorded",
			zap.String("order_id", o.ID),
			zap.String("coupon_id", c.ID),
			zap.Error(err))
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return findOne[models.Order](ctx, s.col(colOrders), bson.M{"_id": id}, "Order")
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return findAll[models.Order](ctx, s.col(colOrders), bson.M{"user_id": userID}, "Order", newestFirst)
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	return findAll[models.Order](ctx, s.col(colOrders), bson.M{}, "Order", newestFirst)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	var o models.Order
	err := s.col(colOrders).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err != nil {
		return nil, mongoErr(err, "Order")
	}
	return &o, nil
}

func (s *Store) OrderStats(ctx context.Context) (models.OrderStats, error) {
	var stats models.OrderStats
	orders := s.col(colOrders)

	var err error
	if stats.Total, err = orders.CountDocuments(ctx, bson.M{}); err != nil {
		return stats, mongoErr(err, "Order")
	}
	if stats.Pending, err = orders.CountDocuments(ctx, bson.M{"status": models.OrderPending}); err != nil {
		return stats, mongoErr(err, "Order")
	}
	if stats.Completed, err = orders.CountDocuments(ctx, bson.M{"status": models.OrderCompleted}); err != nil {
		return stats, mongoErr(err, "Order")
	}

	cur, err := orders.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$final_price"}}},
		}}},
	})
	if err != nil {
		return stats, mongoErr(err, "Order")
	}
	var rows []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return stats, mongoErr(err, "Order")
	}
	if len(rows) > 0 {
		stats.Revenue = rows[0].Revenue
	}
	return stats, nil
}

func (s *Store) CreateDesign(ctx context.Context, d *models.Design) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	_, err := s.col(colDesigns).InsertOne(ctx, d)
	return mongoErr(err, "Design")
}

func (s *Store) GetDesign(ctx context.Context, id string) (*models.Design, error) {
	return findOne[models.Design](ctx, s.col(colDesigns), bson.M{"_id": id}, "Design")
}

func (s *Store) ListDesignsByUser(ctx context.Context, userID string) ([]models.Design, error) {
	return findAll[models.Design](ctx, s.col(colDesigns), bson.M{"user_id": userID}, "Design", newestFirst)
}

func (s *Store) ListDesigns(ctx context.Context) ([]models.Design, error) {
	return findAll[models.Design](ctx, s.col(colDesigns), bson.M{}, "Design", newestFirst)
}

func (s *Store) CountDesigns(ctx context.Context) (int64, error) {
	n, err := s.col(colDesigns).CountDocuments(ctx, bson.M{})
	return n, mongoErr(err, "Design")
}

// toggle flips a boolean field with an update pipeline and returns its new value.
func (s *Store) toggle(ctx context.Context, col string, filter bson.M, field, what string) (bool, error) {
	var out bson.M
	err := s.col(col).FindOneAndUpdate(ctx, filter,
		mongo.Pipeline{{{Key: "$set", Value: bson.D{{Key: field, Value: bson.D{{Key: "$not", Value: "$" + field}}}}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(bson.M{field: 1}),
	).Decode(&out)
	if err != nil {
		return false, mongoErr(err, what)
	}
	v, _ := out[field].(bool)
	return v, nil
}

func (s *Store) ToggleFavorite(ctx context.Context, id, userID string) (bool, error) {
	return s.toggle(ctx, colDesigns, bson.M{"_id": id, "user_id": userID}, "is_favorite", "Design")
}

func (s *Store) DeleteDesign(ctx context.Context, id, userID string) error {
	filter := bson.M{"_id": id}
	if userID != "" {
		filter["user_id"] = userID
	}
	res, err := s.col(colDesigns).DeleteOne(ctx, filter)
	if err != nil {
		return mongoErr(err, "Design")
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Design not found")
	}
	return nil
}

func (s *Store) CreateShowcase(ctx context.Context, sd *models.ShowcaseDesign) error {
	now := time.Now().UTC()
	sd.CreatedAt, sd.UpdatedAt = now, now
	_, err := s.col(colShowcase).InsertOne(ctx, sd)
	return mongoErr(err, "Showcase design")
}

func (s *Store) GetShowcase(ctx context.Context, id string) (*models.ShowcaseDesign, error) {
	return findOne[models.ShowcaseDesign](ctx, s.col(colShowcase), bson.M{"_id": id}, "Showcase design")
}

func (s *Store) UpdateShowcase(ctx context.Context, sd *models.ShowcaseDesign) error {
	res, err := s.col(colShowcase).UpdateOne(ctx, bson.M{"_id": sd.ID}, bson.M{"$set": bson.M{
		"title":         sd.Title,
		"description":   sd.Description,
		"prompt":        sd.Prompt,
		"image_base64":  sd.ImageBase64,
		"clothing_type": sd.ClothingType,
		"color":         sd.Color,
		"template_id":   sd.TemplateID,
		"tags":          sd.Tags,
		"is_featured":   sd.IsFeatured,
		"is_active":     sd.IsActive,
		"updated_at":    time.Now().UTC(),
	}})
	return matched(res, err, "Showcase design")
}

func (s *Store) DeleteShowcase(ctx context.Context, id string) error {
	res, err := s.col(colShowcase).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoErr(err, "Showcase design")
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Showcase design not found")
	}
	return nil
}

func (s *Store) ListShowcase(ctx context.Context, activeOnly bool, limit int) ([]models.ShowcaseDesign, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "is_featured", Value: -1},
		{Key: "likes_count", Value: -1},
		{Key: "created_at", Value: -1},
	})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return findAll[models.ShowcaseDesign](ctx, s.col(colShowcase), filter, "Showcase design", opts)
}

func (s *Store) CountShowcase(ctx context.Context) (int64, error) {
	n, err := s.col(colShowcase).CountDocuments(ctx, bson.M{})
	return n, mongoErr(err, "Showcase design")
}

func (s *Store) ToggleFeatured(ctx context.Context, id string) (bool, error) {
	return s.toggle(ctx, colShowcase, bson.M{"_id": id}, "is_featured", "Showcase design")
}

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	_, err := s.col(colNotifications).InsertOne(ctx, n)
	return mongoErr(err, "Notification")
}

func (s *Store) ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return findAll[models.Notification](ctx, s.col(colNotifications), bson.M{"user_id": userID}, "Notification", opts)
}

func (s *Store) CountUnread(ctx context.Context, userID string) (int64, error) {
	n, err := s.col(colNotifications).CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
	return n, mongoErr(err, "Notification")
}

func (s *Store) MarkRead(ctx context.Context, id, userID string) error {
	res, err := s.col(colNotifications).UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return matched(res, err, "Notification")
}

func (s *Store) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res, err := s.col(colNotifications).UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, mongoErr(err, "Notification")
	}
	return res.ModifiedCount, nil
}

func (s *Store) DeleteNotification(ctx context.Context, id, userID string) error {
	res, err := s.col(colNotifications).DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return mongoErr(err, "Notification")
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Notification not found")
	}
	return nil
}
