package service

import (
	"context"
	"errors"
	"fmt"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

const msgWaitingRequired = "booking should be in status WAITING"

// BookingService owns the booking lifecycle: creation, the single
// WAITING -> APPROVED|REJECTED verdict and party-scoped retrieval.
type BookingService struct {
	repo     domain.BookingRepository
	users    domain.UserDirectory
	items    domain.ItemCatalog
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(
	repo domain.BookingRepository,
	users domain.UserDirectory,
	items domain.ItemCatalog,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		users:    users,
		items:    items,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateBooking stores a WAITING booking of candidate's item for the requester.
// Checks run in order and the first failure is returned.
func (s *BookingService) CreateBooking(ctx context.Context, candidate *models.Booking, requesterID int64) (*models.Booking, error) {
	if candidate == nil || candidate.ItemID == 0 {
		return nil, domain.Preconditionf("booking candidate with item id is required")
	}
	if !candidate.End.After(candidate.Start) {
		return nil, domain.InvalidDateRange("end", "end must be after start")
	}

	booker, err := s.users.GetUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.GetItemToBook(ctx, candidate.ItemID, requesterID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, domain.ErrItemUnavailable
	}

	booking := &models.Booking{
		ItemID:     item.ID,
		ItemName:   item.Name,
		OwnerID:    item.OwnerID,
		BookerID:   booker.ID,
		BookerName: booker.Name,
		Start:      candidate.Start,
		End:        candidate.End,
		Status:     models.StatusWaiting,
	}

	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		switch {
		case errors.Is(err, database.ErrNotAvailable):
			return nil, domain.ErrItemUnavailable
		case errors.Is(err, database.ErrNotFound):
			return nil, domain.NotFound(domain.EntityItem, item.ID)
		default:
			return nil, fmt.Errorf("failed to save booking: %w", err)
		}
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", booking.ItemID).
		Int64("booker_id", booking.BookerID).
		Msg("Booking created")
	s.publishEvent(events.EventBookingCreated, booking, requesterID)

	return booking, nil
}

// GetBooking returns the booking to its booker or item owner. Anyone else gets
// the same NotFound as for a missing booking.
func (s *BookingService) GetBooking(ctx context.Context, id, requesterID int64) (*models.Booking, error) {
	booking, err := s.repo.GetBookingForUser(ctx, id, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, domain.NotFound(domain.EntityBooking, id)
	}
	return booking, nil
}

// ApplyBookingVerdict approves or rejects a WAITING booking on behalf of the item owner.
func (s *BookingService) ApplyBookingVerdict(ctx context.Context, id int64, approve bool, actingUserID int64) (*models.Booking, error) {
	booking, err := s.repo.GetBookingWithParties(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, domain.NotFound(domain.EntityBooking, id)
	}

	exists, err := s.users.Exists(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NotAllowed("Not authorized")
	}

	if booking.OwnerID != actingUserID {
		return nil, domain.NotFound(domain.EntityBooking, id)
	}
	if booking.Status != models.StatusWaiting {
		return nil, domain.InvalidState("status", msgWaitingRequired)
	}

	status := models.StatusRejected
	if approve {
		status = models.StatusApproved
	}

	updatedAt, err := s.repo.SetBookingStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, database.ErrConcurrentModification) {
			// another verdict won the race
			return nil, domain.InvalidState("status", msgWaitingRequired)
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	booking.Status = status
	booking.UpdatedAt = updatedAt

	s.logger.Info().
		Int64("booking_id", id).
		Str("status", string(status)).
		Int64("owner_id", actingUserID).
		Msg("Booking verdict applied")

	eventType := events.EventBookingRejected
	if approve {
		eventType = events.EventBookingApproved
	}
	s.publishEvent(eventType, booking, actingUserID)

	return booking, nil
}

// GetUserBookings lists the user's own bookings in the state, newest start first.
func (s *BookingService) GetUserBookings(
	ctx context.Context,
	userID int64,
	state models.BookingState,
	from, size int,
) ([]*models.Booking, error) {
	page, err := listPage(state, from, size)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NotFound(domain.EntityUser, userID)
	}

	bookings, err := s.repo.ListBookerBookings(ctx, userID, state, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}
	return bookings, nil
}

// GetOwnerBookings lists bookings of the user's items. Users without items are refused.
func (s *BookingService) GetOwnerBookings(
	ctx context.Context,
	userID int64,
	state models.BookingState,
	from, size int,
) ([]*models.Booking, error) {
	page, err := listPage(state, from, size)
	if err != nil {
		return nil, err
	}

	owns, err := s.items.ExistsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, domain.NotAllowed("user does not own any items")
	}

	bookings, err := s.repo.ListOwnerBookings(ctx, userID, state, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner bookings: %w", err)
	}
	return bookings, nil
}

// FindCompletedBookings returns the user's bookings of the item whose end has passed.
func (s *BookingService) FindCompletedBookings(ctx context.Context, userID, itemID int64) ([]*models.Booking, error) {
	bookings, err := s.repo.FindCompletedBookings(ctx, userID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to find completed bookings: %w", err)
	}
	return bookings, nil
}

func listPage(state models.BookingState, from, size int) (models.Page, error) {
	if !state.Valid() {
		return models.Page{}, domain.Preconditionf("booking state is required")
	}
	page := models.Page{From: from, Size: size}
	if !page.Valid() {
		return models.Page{}, domain.Preconditionf("invalid page from=%d size=%d", from, size)
	}
	return page, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, actorID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		ItemName:  booking.ItemName,
		OwnerID:   booking.OwnerID,
		BookerID:  booking.BookerID,
		Status:    string(booking.Status),
		Start:     booking.Start,
		End:       booking.End,
		ActorID:   actorID,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
