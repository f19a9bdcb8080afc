package order

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fashion-studio/apperr"
	"fashion-studio/log"
	"fashion-studio/models"
)

var statusMessages = map[string]string{
	models.OrderPending:    "Your order %s is waiting for review.",
	models.OrderProcessing: "Your order %s is being tailored.",
	models.OrderCompleted:  "Your order %s is ready.",
	models.OrderCancelled:  "Your order %s was cancelled.",
}

func (a *Assembler) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return a.orders.ListOrdersByUser(ctx, userID)
}

func (a *Assembler) ListAll(ctx context.Context) ([]models.Order, error) {
	return a.orders.ListOrders(ctx)
}

// Get returns an order visible to userID. Admins pass an empty userID.
func (a *Assembler) Get(ctx context.Context, id, userID string) (*models.Order, error) {
	o, err := a.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if userID != "" && o.UserID != userID {
		return nil, apperr.NotFound("Order not found")
	}
	return o, nil
}

// UpdateStatus moves an order to one of the fixed statuses and tells the customer.
func (a *Assembler) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, apperr.InvalidArgumentf("invalid status %q", status)
	}
	o, err := a.orders.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if a.notifier != nil {
		msg := fmt.Sprintf(statusMessages[status], o.OrderNumber)
		if _, err := a.notifier.Notify(ctx, o.UserID, "Order status updated", msg, models.NotificationOrderStatus, o.ID); err != nil {
			log.L().Warn("status notification failed", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	return o, nil
}

type Counter interface {
	CountUsers(ctx context.Context) (int64, error)
	CountDesigns(ctx context.Context) (int64, error)
	CountShowcase(ctx context.Context) (int64, error)
	OrderStats(ctx context.Context) (models.OrderStats, error)
}

type Stats struct {
	TotalUsers    int64 `json:"total_users"`
	TotalDesigns  int64 `json:"total_designs"`
	TotalShowcase int64 `json:"total_showcase_designs"`
	models.OrderStats
}

// DashboardStats gathers the admin overview numbers.
func DashboardStats(ctx context.Context, c Counter) (Stats, error) {
	var st Stats
	var err error
	if st.TotalUsers, err = c.CountUsers(ctx); err != nil {
		return st, err
	}
	if st.TotalDesigns, err = c.CountDesigns(ctx); err != nil {
		return st, err
	}
	if st.TotalShowcase, err = c.CountShowcase(ctx); err != nil {
		return st, err
	}
	st.OrderStats, err = c.OrderStats(ctx)
	return st, err
}
