package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fashion-studio/apperr"
	"fashion-studio/models"
	"fashion-studio/store"
)

var _ store.Store = (*Store)(nil)

const (
	colUsers         = "users"
	colCoupons       = "coupons"
	colCouponUsages  = "coupon_usages"
	colOrders        = "orders"
	colDesigns       = "designs"
	colShowcase      = "showcase_designs"
	colNotifications = "notifications"
)

// Store implements store.Store on MongoDB. Counters are updated with a single
// filtered UpdateOne/FindOneAndUpdate so the guard and the increment are atomic.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &Store{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := func(keys ...string) mongo.IndexModel {
		d := bson.D{}
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: 1})
		}
		return mongo.IndexModel{Keys: d, Options: options.Index().SetUnique(true)}
	}
	plain := func(key string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: key, Value: 1}}}
	}

	indexes := map[string][]mongo.IndexModel{
		colUsers:         {unique("username"), unique("email")},
		colCoupons:       {unique("code")},
		colCouponUsages:  {plain("coupon_id")},
		colOrders:        {unique("order_number"), plain("user_id")},
		colDesigns:       {plain("user_id")},
		colNotifications: {plain("user_id")},
	}
	for col, idx := range indexes {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", col, err)
		}
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func mongoErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperr.NotFoundf("%s not found", what)
	case mongo.IsDuplicateKeyError(err):
		return apperr.Conflict(what + " already exists")
	default:
		return apperr.Upstream("Database error", fmt.Errorf("%s: %w", what, err))
	}
}

func findOne[T any](ctx context.Context, c *mongo.Collection, filter interface{}, what string) (*T, error) {
	var out T
	if err := c.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, mongoErr(err, what)
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter interface{}, what string, opts ...*options.FindOptions) ([]T, error) {
	cur, err := c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, mongoErr(err, what)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoErr(err, what)
	}
	return out, nil
}

// matched turns a zero-match update into NotFound.
func matched(res *mongo.UpdateResult, err error, what string) error {
	if err != nil {
		return mongoErr(err, what)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFoundf("%s not found", what)
	}
	return nil
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := s.col(colUsers).InsertOne(ctx, u)
	return mongoErr(err, "User")
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, s.col(colUsers), bson.M{"_id": id}, "User")
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return findOne[models.User](ctx, s.col(colUsers), bson.M{"username": username}, "User")
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, s.col(colUsers), bson.M{}, "User", newestFirst)
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	n, err := s.col(colUsers).CountDocuments(ctx, bson.M{})
	return n, mongoErr(err, "User")
}

func (s *Store) UpdateMeasurements(ctx context.Context, id string, m models.Measurements) error {
	res, err := s.col(colUsers).UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"measurements": m, "updated_at": time.Now().UTC()},
	})
	return matched(res, err, "User")
}

func (s *Store) IncrementDesignsUsed(ctx context.Context, id string) error {
	filter := bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{"designs_limit": models.Unlimited},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$designs_used", "$designs_limit"}}},
		},
	}
	res, err := s.col(colUsers).UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"designs_used": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return mongoErr(err, "User")
	}
	if res.MatchedCount == 0 {
		if _, err := s.GetUser(ctx, id); err != nil {
			return err
		}
		return apperr.LimitExceeded("Design generation limit reached")
	}
	return nil
}

func (s *Store) ResetDesignsUsed(ctx context.Context, id string) error {
	res, err := s.col(colUsers).UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"designs_used": 0, "updated_at": time.Now().UTC()},
	})
	return matched(res, err, "User")
}

func (s *Store) AddDesignsLimit(ctx context.Context, id string, amount int) error {
	res, err := s.col(colUsers).UpdateOne(ctx,
		bson.M{"_id": id, "designs_limit": bson.M{"$ne": models.Unlimited}},
		bson.M{"$inc": bson.M{"designs_limit": amount}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return mongoErr(err, "User")
	}
	if res.MatchedCount == 0 {
		_, err := s.GetUser(ctx, id)
		return err
	}
	return nil
}

func (s *Store) SetDesignsLimit(ctx context.Context, id string, limit int) error {
	res, err := s.col(colUsers).UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"designs_limit": limit, "updated_at": time.Now().UTC()},
	})
	return matched(res, err, "User")
}
