package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
	notifRepo "jigswap.app/jigswap/internal/modules/notification/repository"
)

func setupService(t *testing.T) (NotificationService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.User{}, &entity.Notification{}))

	return NewNotificationService(notifRepo.NewNotificationRepository(db), nil), db
}

func seedNotification(t *testing.T, svc NotificationService, userID uuid.UUID) *entity.Notification {
	t.Helper()
	notification := &entity.Notification{
		UserID:  userID,
		ActorID: uuid.New(),
		Type:    entity.NotificationTradeCreated,
		Title:   "New trade request",
	}
	require.NoError(t, svc.Create(context.Background(), notification))
	return notification
}

func TestChannelForUser(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, "user_notifications:"+id.String(), ChannelForUser(id.String()))
}

func TestNotificationLifecycle(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	recipient := uuid.New()
	other := uuid.New()

	first := seedNotification(t, svc, recipient)
	seedNotification(t, svc, recipient)
	seedNotification(t, svc, other)

	listed, err := svc.GetNotifications(ctx, recipient, 10, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	unread, err := svc.UnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	t.Run("mark as read is scoped to the recipient", func(t *testing.T) {
		require.NoError(t, svc.MarkAsRead(ctx, first.ID, other))

		unread, err := svc.UnreadCount(ctx, recipient)
		require.NoError(t, err)
		assert.Equal(t, int64(2), unread)
	})

	require.NoError(t, svc.MarkAsRead(ctx, first.ID, recipient))
	unread, err = svc.UnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	require.NoError(t, svc.MarkAllAsRead(ctx, recipient))
	unread, err = svc.UnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	// the other user's notification is untouched
	unread, err = svc.UnreadCount(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}
