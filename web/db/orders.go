package db

import (
	"context"

	"gorm.io/gorm"

	"fashion-studio/models"
)

func (s *Store) PlaceOrder(ctx context.Context, o *models.Order, usage *models.CouponUsage) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if usage != nil {
			usage.OrderID = o.ID
			if err := redeem(tx, usage); err != nil {
				return err
			}
		}
		return dbErr(tx.Create(o).Error, "Order")
	})
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, dbErr(err, "Order")
	}
	return &o, nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error
	return orders, dbErr(err, "Order")
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&orders).Error
	return orders, dbErr(err, "Order")
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
		if res.Error != nil {
			return dbErr(res.Error, "Order")
		}
		return dbErr(tx.First(&o, "id = ?", id).Error, "Order")
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) OrderStats(ctx context.Context) (models.OrderStats, error) {
	var stats models.OrderStats
	tx := s.db.WithContext(ctx)

	if err := tx.Model(&models.Order{}).Count(&stats.Total).Error; err != nil {
		return stats, dbErr(err, "Order")
	}
	if err := tx.Model(&models.Order{}).Where("status = ?", models.OrderPending).Count(&stats.Pending).Error; err != nil {
		return stats, dbErr(err, "Order")
	}
	if err := tx.Model(&models.Order{}).Where("status = ?", models.OrderCompleted).Count(&stats.Completed).Error; err != nil {
		return stats, dbErr(err, "Order")
	}
	err := tx.Model(&models.Order{}).Select("COALESCE(SUM(final_price), 0)").Scan(&stats.Revenue).Error
	return stats, dbErr(err, "Order")
}
