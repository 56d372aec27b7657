package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
	"jigswap.app/jigswap/internal/modules/message/dto"
	"jigswap.app/jigswap/internal/modules/message/repository"
	notifRepo "jigswap.app/jigswap/internal/modules/notification/repository"
	notifService "jigswap.app/jigswap/internal/modules/notification/service"
	tradeRepo "jigswap.app/jigswap/internal/modules/trade/repository"
	userRepo "jigswap.app/jigswap/internal/modules/user/repository"
	"jigswap.app/jigswap/pkg/apperror"
)

type messageFixture struct {
	db        *gorm.DB
	svc       MessageService
	requester *entity.User
	owner     *entity.User
	trade     *entity.TradeRequest
}

func newMessageFixture(t *testing.T, tradeStatus string) *messageFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Puzzle{},
		&entity.PuzzleImage{},
		&entity.TradeRequest{},
		&entity.Message{},
		&entity.Notification{},
	))

	f := &messageFixture{db: db}
	f.svc = NewMessageService(
		repository.NewMessageRepository(db),
		tradeRepo.NewTradeRepository(db),
		userRepo.NewUserRepository(db),
		notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), nil),
	)

	f.requester = seedUser(t, db, "requester")
	f.owner = seedUser(t, db, "owner")

	puzzle := &entity.Puzzle{
		OwnerID:    f.owner.ID,
		Title:      "Canal Houses",
		PieceCount: 2000,
		Difficulty: entity.DifficultyExpert,
		Condition:  entity.ConditionGood,
	}
	require.NoError(t, db.Create(puzzle).Error)

	f.trade = &entity.TradeRequest{
		RequesterID:   f.requester.ID,
		OwnerID:       f.owner.ID,
		OwnerPuzzleID: puzzle.ID,
		Status:        tradeStatus,
	}
	require.NoError(t, db.Create(f.trade).Error)
	return f
}

func seedUser(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()
	user := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         entity.RoleMember,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestSendMessage(t *testing.T) {
	f := newMessageFixture(t, entity.TradeStatusAccepted)
	ctx := context.Background()

	sent, err := f.svc.Send(ctx, f.requester.ID, f.trade.ID, dto.SendMessageInput{Content: "when can we meet?"})
	require.NoError(t, err)
	assert.Equal(t, entity.MessageTypeText, sent.Type)
	assert.Equal(t, f.owner.ID, sent.ReceiverID)
	assert.False(t, sent.IsRead)

	var notifications []entity.Notification
	require.NoError(t, f.db.Where("user_id = ?", f.owner.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationMessageReceived, notifications[0].Type)

	t.Run("html is stripped", func(t *testing.T) {
		sent, err := f.svc.Send(ctx, f.owner.ID, f.trade.ID, dto.SendMessageInput{Content: "<script>alert(1)</script>sure"})
		require.NoError(t, err)
		assert.Equal(t, "sure", sent.Content)
	})
}

func TestSendMessageGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("closed conversation", func(t *testing.T) {
		for _, status := range []string{entity.TradeStatusDeclined, entity.TradeStatusCancelled} {
			f := newMessageFixture(t, status)
			_, err := f.svc.Send(ctx, f.requester.ID, f.trade.ID, dto.SendMessageInput{Content: "hello?"})
			require.ErrorIs(t, err, apperror.ErrConflict, "status %s", status)
		}
	})

	t.Run("completed trade stays open", func(t *testing.T) {
		f := newMessageFixture(t, entity.TradeStatusCompleted)
		_, err := f.svc.Send(ctx, f.requester.ID, f.trade.ID, dto.SendMessageInput{Content: "thanks again!"})
		require.NoError(t, err)
	})

	t.Run("non participant", func(t *testing.T) {
		f := newMessageFixture(t, entity.TradeStatusAccepted)
		stranger := seedUser(t, f.db, "stranger")
		_, err := f.svc.Send(ctx, stranger.ID, f.trade.ID, dto.SendMessageInput{Content: "let me in"})
		require.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestListAndMarkRead(t *testing.T) {
	f := newMessageFixture(t, entity.TradeStatusAccepted)
	ctx := context.Background()

	_, err := f.svc.Send(ctx, f.requester.ID, f.trade.ID, dto.SendMessageInput{Content: "first"})
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, f.requester.ID, f.trade.ID, dto.SendMessageInput{Content: "second"})
	require.NoError(t, err)

	messages, err := f.svc.ListByTrade(ctx, f.owner.ID, f.trade.ID, dto.MessageFilter{})
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)

	unread, err := f.svc.UnreadCount(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	require.NoError(t, f.svc.MarkRead(ctx, f.owner.ID, f.trade.ID))

	unread, err = f.svc.UnreadCount(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	t.Run("stranger cannot list", func(t *testing.T) {
		stranger := seedUser(t, f.db, "stranger")
		_, err := f.svc.ListByTrade(ctx, stranger.ID, f.trade.ID, dto.MessageFilter{})
		require.ErrorIs(t, err, apperror.ErrForbidden)
	})
}
