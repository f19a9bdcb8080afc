package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fashion-studio/log"
	"fashion-studio/models"
	"fashion-studio/store"
)

// ListLimit caps how many notifications a user sees at once.
const ListLimit = 50

type Mailer interface {
	Send(to, subject, body string) error
}

type UserLookup interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Notifier stores in-app notifications and mirrors them to email in the
// background. Email failures are logged and never reach the caller.
type Notifier struct {
	store  store.NotificationStore
	users  UserLookup
	mailer Mailer
	wg     sync.WaitGroup
}

// New builds a Notifier. mailer may be nil to disable email.
func New(s store.NotificationStore, users UserLookup, mailer Mailer) *Notifier {
	return &Notifier{store: s, users: users, mailer: mailer}
}

func (n *Notifier) Notify(ctx context.Context, userID, title, message, kind, orderID string) (*models.Notification, error) {
	note := &models.Notification{
		ID:             uuid.New().String(),
		UserID:         userID,
		Title:          title,
		Message:        message,
		Type:           kind,
		RelatedOrderID: orderID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := n.store.CreateNotification(ctx, note); err != nil {
		return nil, err
	}

	if n.mailer != nil && n.users != nil {
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			n.mail(userID, title, message)
		}()
	}
	return note, nil
}

func (n *Notifier) mail(userID, subject, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	u, err := n.users.GetUser(ctx, userID)
	if err != nil {
		log.L().Warn("notification email skipped", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if err := n.mailer.Send(u.Email, subject, body); err != nil {
		log.L().Warn("notification email failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// Wait blocks until pending emails have been attempted.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) List(ctx context.Context, userID string) ([]models.Notification, error) {
	return n.store.ListNotifications(ctx, userID, ListLimit)
}

func (n *Notifier) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return n.store.CountUnread(ctx, userID)
}

func (n *Notifier) MarkRead(ctx context.Context, id, userID string) error {
	return n.store.MarkRead(ctx, id, userID)
}

func (n *Notifier) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return n.store.MarkAllRead(ctx, userID)
}

func (n *Notifier) Delete(ctx context.Context, id, userID string) error {
	return n.store.DeleteNotification(ctx, id, userID)
}
