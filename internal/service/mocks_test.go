package service

import (
	"context"
	"io"
	"time"

	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

func testLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookingRepo) GetBookingWithParties(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingRepo) GetBookingForUser(ctx context.Context, id, userID int64) (*models.Booking, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingRepo) SetBookingStatus(
	ctx context.Context, id int64, status models.BookingStatus,
) (time.Time, error) {
	args := m.Called(ctx, id, status)
	updatedAt, _ := args.Get(0).(time.Time)
	return updatedAt, args.Error(1)
}

func (m *mockBookingRepo) ListBookerBookings(
	ctx context.Context, bookerID int64, state models.BookingState, page models.Page,
) ([]*models.Booking, error) {
	args := m.Called(ctx, bookerID, state, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *mockBookingRepo) ListOwnerBookings(
	ctx context.Context, ownerID int64, state models.BookingState, page models.Page,
) ([]*models.Booking, error) {
	args := m.Called(ctx, ownerID, state, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *mockBookingRepo) FindCompletedBookings(ctx context.Context, bookerID, itemID int64) ([]*models.Booking, error) {
	args := m.Called(ctx, bookerID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *mockBookingRepo) LastApprovedBooking(ctx context.Context, itemID int64) (*models.ShortBooking, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShortBooking), args.Error(1)
}

func (m *mockBookingRepo) NextApprovedBooking(ctx context.Context, itemID int64) (*models.ShortBooking, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShortBooking), args.Error(1)
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetUser(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUsers) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockItems struct {
	mock.Mock
}

func (m *mockItems) GetItemToBook(ctx context.Context, itemID, requesterID int64) (*models.Item, error) {
	args := m.Called(ctx, itemID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *mockItems) ExistsByOwner(ctx context.Context, ownerID int64) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}
