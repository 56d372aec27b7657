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
	msgRepo "jigswap.app/jigswap/internal/modules/message/repository"
	notifRepo "jigswap.app/jigswap/internal/modules/notification/repository"
	notifService "jigswap.app/jigswap/internal/modules/notification/service"
	puzzleRepo "jigswap.app/jigswap/internal/modules/puzzle/repository"
	"jigswap.app/jigswap/internal/modules/trade/dto"
	"jigswap.app/jigswap/internal/modules/trade/repository"
	userRepo "jigswap.app/jigswap/internal/modules/user/repository"
	"jigswap.app/jigswap/pkg/apperror"
)

type tradeFixture struct {
	db        *gorm.DB
	svc       TradeService
	requester *entity.User
	owner     *entity.User
	puzzle    *entity.Puzzle
	offered   *entity.Puzzle
}

func newTradeFixture(t *testing.T) *tradeFixture {
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

	svc := NewTradeService(
		repository.NewTradeRepository(db),
		puzzleRepo.NewPuzzleRepository(db),
		userRepo.NewUserRepository(db),
		msgRepo.NewMessageRepository(db),
		notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), nil),
		nil,
	)

	f := &tradeFixture{db: db, svc: svc}
	f.requester = f.seedUser(t, "requester")
	f.owner = f.seedUser(t, "owner")
	f.puzzle = f.seedPuzzle(t, f.owner.ID, "Winter Village", true)
	f.offered = f.seedPuzzle(t, f.requester.ID, "Starry Night", true)
	return f
}

func (f *tradeFixture) seedUser(t *testing.T, username string) *entity.User {
	t.Helper()
	user := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         entity.RoleMember,
		IsActive:     true,
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *tradeFixture) seedPuzzle(t *testing.T, ownerID uuid.UUID, title string, available bool) *entity.Puzzle {
	t.Helper()
	puzzle := &entity.Puzzle{
		OwnerID:     ownerID,
		Title:       title,
		PieceCount:  1000,
		Difficulty:  entity.DifficultyMedium,
		Condition:   entity.ConditionGood,
		IsAvailable: available,
	}
	require.NoError(t, f.db.Create(puzzle).Error)
	return puzzle
}

func (f *tradeFixture) createTrade(t *testing.T, withOffer bool) *entity.TradeRequest {
	t.Helper()
	input := dto.CreateTradeInput{OwnerPuzzleID: f.puzzle.ID.String(), Message: "interested!"}
	if withOffer {
		offeredID := f.offered.ID.String()
		input.OfferedPuzzleID = &offeredID
	}
	trade, err := f.svc.Create(context.Background(), f.requester.ID, input)
	require.NoError(t, err)
	return trade
}

func (f *tradeFixture) notificationsFor(t *testing.T, userID uuid.UUID) []entity.Notification {
	t.Helper()
	var notifications []entity.Notification
	require.NoError(t, f.db.Where("user_id = ?", userID).Order("created_at asc").Find(&notifications).Error)
	return notifications
}

func (f *tradeFixture) puzzleAvailable(t *testing.T, id uuid.UUID) bool {
	t.Helper()
	var puzzle entity.Puzzle
	require.NoError(t, f.db.First(&puzzle, "id = ?", id).Error)
	return puzzle.IsAvailable
}

func TestCreateTrade(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()

	trade := f.createTrade(t, true)
	assert.Equal(t, entity.TradeStatusPending, trade.Status)
	assert.Equal(t, f.requester.ID, trade.RequesterID)
	assert.Equal(t, f.owner.ID, trade.OwnerID)
	require.NotNil(t, trade.OfferedPuzzleID)
	assert.Equal(t, f.offered.ID, *trade.OfferedPuzzleID)

	notifications := f.notificationsFor(t, f.owner.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationTradeCreated, notifications[0].Type)
	assert.Equal(t, f.requester.ID, notifications[0].ActorID)

	t.Run("duplicate pending rejected", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.requester.ID, dto.CreateTradeInput{OwnerPuzzleID: f.puzzle.ID.String()})
		require.ErrorIs(t, err, apperror.ErrConflict)
	})
}

func TestCreateTradeValidation(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()

	t.Run("own puzzle", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.owner.ID, dto.CreateTradeInput{OwnerPuzzleID: f.puzzle.ID.String()})
		require.ErrorIs(t, err, apperror.ErrBadRequest)
	})

	t.Run("unavailable puzzle", func(t *testing.T) {
		parked := f.seedPuzzle(t, f.owner.ID, "Parked", false)
		_, err := f.svc.Create(ctx, f.requester.ID, dto.CreateTradeInput{OwnerPuzzleID: parked.ID.String()})
		require.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("missing puzzle", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.requester.ID, dto.CreateTradeInput{OwnerPuzzleID: uuid.NewString()})
		require.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("offered puzzle not owned by requester", func(t *testing.T) {
		other := f.seedPuzzle(t, f.owner.ID, "Another", true)
		otherID := other.ID.String()
		_, err := f.svc.Create(ctx, f.requester.ID, dto.CreateTradeInput{
			OwnerPuzzleID:   f.puzzle.ID.String(),
			OfferedPuzzleID: &otherID,
		})
		require.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("rejected create does not hold the slot", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.requester.ID, dto.CreateTradeInput{OwnerPuzzleID: uuid.NewString()})
		require.ErrorIs(t, err, apperror.ErrNotFound)

		trade, err := f.svc.Create(ctx, f.requester.ID, dto.CreateTradeInput{OwnerPuzzleID: f.puzzle.ID.String()})
		require.NoError(t, err)
		assert.Equal(t, entity.TradeStatusPending, trade.Status)
	})
}

func TestRespondAccept(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()
	trade := f.createTrade(t, true)

	msg := "deal!"
	updated, err := f.svc.Respond(ctx, f.owner.ID, trade.ID, dto.RespondTradeInput{Accept: true, ResponseMessage: &msg})
	require.NoError(t, err)
	assert.Equal(t, entity.TradeStatusAccepted, updated.Status)
	require.NotNil(t, updated.ResponseMessage)
	assert.Equal(t, msg, *updated.ResponseMessage)

	// accepting takes both puzzles off the market
	assert.False(t, f.puzzleAvailable(t, f.puzzle.ID))
	assert.False(t, f.puzzleAvailable(t, f.offered.ID))

	// a system message opens the conversation
	var messages []entity.Message
	require.NoError(t, f.db.Where("trade_request_id = ?", trade.ID).Find(&messages).Error)
	require.Len(t, messages, 1)
	assert.Equal(t, entity.MessageTypeSystem, messages[0].Type)
	assert.Equal(t, f.requester.ID, messages[0].ReceiverID)

	notifications := f.notificationsFor(t, f.requester.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationTradeAccepted, notifications[0].Type)
}

func TestRespondDecline(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()
	trade := f.createTrade(t, false)

	updated, err := f.svc.Respond(ctx, f.owner.ID, trade.ID, dto.RespondTradeInput{Accept: false})
	require.NoError(t, err)
	assert.Equal(t, entity.TradeStatusDeclined, updated.Status)

	// declining leaves the puzzle on the market
	assert.True(t, f.puzzleAvailable(t, f.puzzle.ID))

	notifications := f.notificationsFor(t, f.requester.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationTradeDeclined, notifications[0].Type)

	t.Run("cannot respond twice", func(t *testing.T) {
		_, err := f.svc.Respond(ctx, f.owner.ID, trade.ID, dto.RespondTradeInput{Accept: true})
		require.ErrorIs(t, err, apperror.ErrBadRequest)
	})
}

func TestRespondAuthorization(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()
	trade := f.createTrade(t, false)

	t.Run("requester cannot respond", func(t *testing.T) {
		_, err := f.svc.Respond(ctx, f.requester.ID, trade.ID, dto.RespondTradeInput{Accept: true})
		require.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("stranger cannot respond", func(t *testing.T) {
		stranger := f.seedUser(t, "stranger")
		_, err := f.svc.Respond(ctx, stranger.ID, trade.ID, dto.RespondTradeInput{Accept: true})
		require.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestCompleteTrade(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()
	trade := f.createTrade(t, false)

	t.Run("pending cannot complete", func(t *testing.T) {
		_, err := f.svc.Complete(ctx, f.requester.ID, trade.ID, dto.CompleteTradeInput{})
		require.ErrorIs(t, err, apperror.ErrBadRequest)
	})

	_, err := f.svc.Respond(ctx, f.owner.ID, trade.ID, dto.RespondTradeInput{Accept: true})
	require.NoError(t, err)

	shipping := "pickup"
	updated, err := f.svc.Complete(ctx, f.requester.ID, trade.ID, dto.CompleteTradeInput{ShippingMethod: &shipping})
	require.NoError(t, err)
	assert.Equal(t, entity.TradeStatusCompleted, updated.Status)
	require.NotNil(t, updated.ActualDate)
	require.NotNil(t, updated.ShippingMethod)
	assert.Equal(t, shipping, *updated.ShippingMethod)

	// the other party hears about completion
	notifications := f.notificationsFor(t, f.owner.ID)
	require.Len(t, notifications, 2) // trade_created + trade_completed
	assert.Equal(t, entity.NotificationTradeCompleted, notifications[1].Type)

	t.Run("completed is terminal", func(t *testing.T) {
		_, err := f.svc.Cancel(ctx, f.requester.ID, trade.ID)
		require.ErrorIs(t, err, apperror.ErrBadRequest)
	})
}

func TestCancelTrade(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()

	t.Run("pending cancel", func(t *testing.T) {
		trade := f.createTrade(t, false)
		updated, err := f.svc.Cancel(ctx, f.requester.ID, trade.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.TradeStatusCancelled, updated.Status)
		assert.True(t, f.puzzleAvailable(t, f.puzzle.ID))
	})

	t.Run("accepted cancel releases puzzles", func(t *testing.T) {
		f := newTradeFixture(t)
		trade := f.createTrade(t, true)
		_, err := f.svc.Respond(ctx, f.owner.ID, trade.ID, dto.RespondTradeInput{Accept: true})
		require.NoError(t, err)
		assert.False(t, f.puzzleAvailable(t, f.puzzle.ID))

		_, err = f.svc.Cancel(ctx, f.owner.ID, trade.ID)
		require.NoError(t, err)
		assert.True(t, f.puzzleAvailable(t, f.puzzle.ID))
		assert.True(t, f.puzzleAvailable(t, f.offered.ID))
	})
}

func TestListTrades(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()
	f.createTrade(t, false)

	t.Run("incoming for owner", func(t *testing.T) {
		result, err := f.svc.List(ctx, f.owner.ID, dto.TradeFilter{Direction: "incoming"})
		require.NoError(t, err)
		assert.Len(t, result.Trades, 1)
		assert.Equal(t, int64(1), result.Meta.TotalItems)
	})

	t.Run("incoming for requester is empty", func(t *testing.T) {
		result, err := f.svc.List(ctx, f.requester.ID, dto.TradeFilter{Direction: "incoming"})
		require.NoError(t, err)
		assert.Empty(t, result.Trades)
	})

	t.Run("status filter", func(t *testing.T) {
		result, err := f.svc.List(ctx, f.requester.ID, dto.TradeFilter{Status: entity.TradeStatusAccepted})
		require.NoError(t, err)
		assert.Empty(t, result.Trades)
	})
}

func TestGetTrade(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()
	trade := f.createTrade(t, false)

	found, err := f.svc.Get(ctx, f.owner.ID, trade.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.ID, found.ID)

	stranger := f.seedUser(t, "stranger")
	_, err = f.svc.Get(ctx, stranger.ID, trade.ID)
	require.ErrorIs(t, err, apperror.ErrForbidden)
}
