package notify

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashion-studio/models"
	"fashion-studio/web/db"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to+"|"+subject)
	return f.err
}

func setup(t *testing.T) *db.Store {
	gdb, err := db.Connect("sqlite", filepath.Join(t.TempDir(), "notify.db"))
	require.NoError(t, err)
	require.NoError(t, db.Sync(gdb))
	s := db.NewStore(gdb)
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func TestNotifyStoresAndMails(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	u := &models.User{ID: uuid.New().String(), Username: "lina", Email: "lina@example.com", DesignsLimit: 3}
	require.NoError(t, s.CreateUser(ctx, u))

	mailer := &fakeMailer{}
	n := New(s, s, mailer)

	note, err := n.Notify(ctx, u.ID, "Order received", "We got it", models.NotificationSuccess, "order-1")
	require.NoError(t, err)
	n.Wait()

	assert.Equal(t, "order-1", note.RelatedOrderID)
	assert.Equal(t, []string{"lina@example.com|Order received"}, mailer.sent)

	count, err := n.UnreadCount(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMailFailureIsNotReturned(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	n := New(s, s, &fakeMailer{err: errors.New("smtp down")})

	// the user does not exist either; both failures are only logged
	_, err := n.Notify(ctx, "ghost", "t", "m", models.NotificationInfo, "")
	n.Wait()
	assert.NoError(t, err)
}

func TestListAndMarkRead(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	n := New(s, nil, nil)

	for i := 0; i < ListLimit+5; i++ {
		_, err := n.Notify(ctx, "u1", "t", "m", models.NotificationInfo, "")
		require.NoError(t, err)
	}
	list, err := n.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, ListLimit)

	require.NoError(t, n.MarkRead(ctx, list[0].ID, "u1"))
	marked, err := n.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(ListLimit+4), marked)

	require.NoError(t, n.Delete(ctx, list[0].ID, "u1"))
}
