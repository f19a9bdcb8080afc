package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"fashion-studio/apperr"
	"fashion-studio/models"
	"fashion-studio/store"
)

var _ store.Store = (*Store)(nil)

// Store implements store.Store on top of gorm. Counter updates are single
// conditional UPDATE statements so concurrent requests cannot overrun a limit.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dbErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFoundf("%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict(what + " already exists")
	default:
		return apperr.Upstream("Database error", fmt.Errorf("%s: %w", what, err))
	}
}

// exists distinguishes "no such row" from "row matched but nothing changed"
// after an UPDATE that affected zero rows.
func (s *Store) exists(tx *gorm.DB, model interface{}, what string, query string, args ...interface{}) error {
	var n int64
	if err := tx.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return dbErr(err, what)
	}
	if n == 0 {
		return apperr.NotFoundf("%s not found", what)
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return dbErr(s.db.WithContext(ctx).Create(u).Error, "User")
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, dbErr(err, "User")
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		return nil, dbErr(err, "User")
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&users).Error
	return users, dbErr(err, "User")
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, dbErr(err, "User")
}

func (s *Store) UpdateMeasurements(ctx context.Context, id string, m models.Measurements) error {
	tx := s.db.WithContext(ctx)
	res := tx.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"measure_chest":          m.Chest,
		"measure_waist":          m.Waist,
		"measure_hips":           m.Hips,
		"measure_height":         m.Height,
		"measure_weight":         m.Weight,
		"measure_preferred_size": m.PreferredSize,
	})
	if res.Error != nil {
		return dbErr(res.Error, "User")
	}
	if res.RowsAffected == 0 {
		return s.exists(tx, &models.User{}, "User", "id = ?", id)
	}
	return nil
}

func (s *Store) IncrementDesignsUsed(ctx context.Context, id string) error {
	tx := s.db.WithContext(ctx)
	res := tx.Model(&models.User{}).
		Where("id = ?", id).
		Where("(designs_limit = ? OR designs_used < designs_limit)", models.Unlimited).
		Update("designs_used", gorm.Expr("designs_used + ?", 1))
	if res.Error != nil {
		return dbErr(res.Error, "User")
	}
	if res.RowsAffected == 0 {
		if err := s.exists(tx, &models.User{}, "User", "id = ?", id); err != nil {
			return err
		}
		return apperr.LimitExceeded("Design generation limit reached")
	}
	return nil
}

func (s *Store) ResetDesignsUsed(ctx context.Context, id string) error {
	tx := s.db.WithContext(ctx)
	res := tx.Model(&models.User{}).Where("id = ?", id).Update("designs_used", 0)
	if res.Error != nil {
		return dbErr(res.Error, "User")
	}
	if res.RowsAffected == 0 {
		return s.exists(tx, &models.User{}, "User", "id = ?", id)
	}
	return nil
}

func (s *Store) AddDesignsLimit(ctx context.Context, id string, amount int) error {
	tx := s.db.WithContext(ctx)
	res := tx.Model(&models.User{}).
		Where("id = ? AND designs_limit <> ?", id, models.Unlimited).
		Update("designs_limit", gorm.Expr("designs_limit + ?", amount))
	if res.Error != nil {
		return dbErr(res.Error, "User")
	}
	if res.RowsAffected == 0 {
		return s.exists(tx, &models.User{}, "User", "id = ?", id)
	}
	return nil
}

func (s *Store) SetDesignsLimit(ctx context.Context, id string, limit int) error {
	tx := s.db.WithContext(ctx)
	res := tx.Model(&models.User{}).Where("id = ?", id).Update("designs_limit", limit)
	if res.Error != nil {
		return dbErr(res.Error, "User")
	}
	if res.RowsAffected == 0 {
		return s.exists(tx, &models.User{}, "User", "id = ?", id)
	}
	return nil
}
