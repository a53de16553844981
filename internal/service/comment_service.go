package service

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// CompletedBookingFinder answers whether a user has finished renting an item.
type CompletedBookingFinder interface {
	FindCompletedBookings(ctx context.Context, userID, itemID int64) ([]*models.Booking, error)
}

type CommentService struct {
	comments domain.CommentRepository
	items    domain.ItemRepository
	users    domain.UserDirectory
	bookings CompletedBookingFinder
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewCommentService(
	comments domain.CommentRepository,
	items domain.ItemRepository,
	users domain.UserDirectory,
	bookings CompletedBookingFinder,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		items:    items,
		users:    users,
		bookings: bookings,
		eventBus: eventBus,
		logger:   logger,
	}
}

// AddComment lets a user comment on an item after at least one of their bookings of it has ended.
func (s *CommentService) AddComment(ctx context.Context, itemID, authorID int64, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.Invalid("text", "must not be blank")
	}

	author, err := s.users.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, domain.NotFound(domain.EntityItem, itemID)
	}

	completed, err := s.bookings.FindCompletedBookings(ctx, authorID, itemID)
	if err != nil {
		return nil, err
	}
	if len(completed) == 0 {
		return nil, domain.NotAllowed("user has not completed a booking of this item")
	}

	comment := &models.Comment{
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Text:       text,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.logger.Info().Int64("comment_id", comment.ID).Int64("item_id", itemID).Msg("Comment added")
	if s.eventBus != nil {
		payload := events.CommentEventPayload{CommentID: comment.ID, ItemID: itemID, AuthorID: authorID}
		if err := s.eventBus.PublishJSON(events.EventCommentAdded, payload); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
		}
	}

	return comment, nil
}
