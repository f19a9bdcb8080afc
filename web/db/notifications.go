package db

import (
	"context"

	"fashion-studio/apperr"
	"fashion-studio/models"
)

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	return dbErr(s.db.WithContext(ctx).Create(n).Error, "Notification")
}

func (s *Store) ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var notifications []models.Notification
	err := q.Find(&notifications).Error
	return notifications, dbErr(err, "Notification")
}

func (s *Store) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, dbErr(err, "Notification")
}

func (s *Store) MarkRead(ctx context.Context, id, userID string) error {
	tx := s.db.WithContext(ctx)
	res := tx.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return dbErr(res.Error, "Notification")
	}
	if res.RowsAffected == 0 {
		return s.exists(tx, &models.Notification{}, "Notification", "id = ? AND user_id = ?", id, userID)
	}
	return nil
}

func (s *Store) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, dbErr(res.Error, "Notification")
}

func (s *Store) DeleteNotification(ctx context.Context, id, userID string) error {
	res := s.db.WithContext(ctx).Delete(&models.Notification{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return dbErr(res.Error, "Notification")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Notification not found")
	}
	return nil
}
