package db

import (
	"context"

	"gorm.io/gorm"

	"fashion-studio/apperr"
	"fashion-studio/models"
)

func (s *Store) CreateDesign(ctx context.Context, d *models.Design) error {
	return dbErr(s.db.WithContext(ctx).Create(d).Error, "Design")
}

func (s *Store) GetDesign(ctx context.Context, id string) (*models.Design, error) {
	var d models.Design
	if err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, dbErr(err, "Design")
	}
	return &d, nil
}

func (s *Store) ListDesignsByUser(ctx context.Context, userID string) ([]models.Design, error) {
	var designs []models.Design
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&designs).Error
	return designs, dbErr(err, "Design")
}

func (s *Store) ListDesigns(ctx context.Context) ([]models.Design, error) {
	var designs []models.Design
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&designs).Error
	return designs, dbErr(err, "Design")
}

func (s *Store) CountDesigns(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Design{}).Count(&n).Error
	return n, dbErr(err, "Design")
}

func (s *Store) ToggleFavorite(ctx context.Context, id, userID string) (bool, error) {
	var d models.Design
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Design{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("is_favorite", gorm.Expr("NOT is_favorite"))
		if res.Error != nil {
			return dbErr(res.Error, "Design")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Design not found")
		}
		return dbErr(tx.Select("is_favorite").First(&d, "id = ?", id).Error, "Design")
	})
	return d.IsFavorite, err
}

func (s *Store) DeleteDesign(ctx context.Context, id, userID string) error {
	q := s.db.WithContext(ctx).Where("id = ?", id)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	res := q.Delete(&models.Design{})
	if res.Error != nil {
		return dbErr(res.Error, "Design")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Design not found")
	}
	return nil
}

func (s *Store) CreateShowcase(ctx context.Context, sd *models.ShowcaseDesign) error {
	return dbErr(s.db.WithContext(ctx).Create(sd).Error, "Showcase design")
}

func (s *Store) GetShowcase(ctx context.Context, id string) (*models.ShowcaseDesign, error) {
	var sd models.ShowcaseDesign
	if err := s.db.WithContext(ctx).First(&sd, "id = ?", id).Error; err != nil {
		return nil, dbErr(err, "Showcase design")
	}
	return &sd, nil
}

func (s *Store) UpdateShowcase(ctx context.Context, sd *models.ShowcaseDesign) error {
	tx := s.db.WithContext(ctx)
	res := tx.Model(&models.ShowcaseDesign{ID: sd.ID}).
		Select("*").
		Omit("id", "likes_count", "created_at").
		Updates(sd)
	if res.Error != nil {
		return dbErr(res.Error, "Showcase design")
	}
	if res.RowsAffected == 0 {
		return s.exists(tx, &models.ShowcaseDesign{}, "Showcase design", "id = ?", sd.ID)
	}
	return nil
}

func (s *Store) DeleteShowcase(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.ShowcaseDesign{}, "id = ?", id)
	if res.Error != nil {
		return dbErr(res.Error, "Showcase design")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Showcase design not found")
	}
	return nil
}

func (s *Store) ListShowcase(ctx context.Context, activeOnly bool, limit int) ([]models.ShowcaseDesign, error) {
	q := s.db.WithContext(ctx).Order("is_featured desc, likes_count desc, created_at desc")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var designs []models.ShowcaseDesign
	err := q.Find(&designs).Error
	return designs, dbErr(err, "Showcase design")
}

func (s *Store) CountShowcase(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.ShowcaseDesign{}).Count(&n).Error
	return n, dbErr(err, "Showcase design")
}

func (s *Store) ToggleFeatured(ctx context.Context, id string) (bool, error) {
	var sd models.ShowcaseDesign
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ShowcaseDesign{}).
			Where("id = ?", id).
			Update("is_featured", gorm.Expr("NOT is_featured"))
		if res.Error != nil {
			return dbErr(res.Error, "Showcase design")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Showcase design not found")
		}
		return dbErr(tx.Select("is_featured").First(&sd, "id = ?", id).Error, "Showcase design")
	})
	return sd.IsFeatured, err
}
