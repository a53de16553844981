package service

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	repo     domain.ItemRepository
	bookings domain.BookingRepository
	comments domain.CommentRepository
	users    domain.UserDirectory
	logger   *zerolog.Logger
}

func NewItemService(
	repo domain.ItemRepository,
	bookings domain.BookingRepository,
	comments domain.CommentRepository,
	users domain.UserDirectory,
	logger *zerolog.Logger,
) *ItemService {
	return &ItemService{
		repo:     repo,
		bookings: bookings,
		comments: comments,
		users:    users,
		logger:   logger,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, item *models.Item, ownerID int64) (*models.Item, error) {
	if _, err := s.users.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	created := &models.Item{
		Name:        strings.TrimSpace(item.Name),
		Description: strings.TrimSpace(item.Description),
		Available:   item.Available,
		OwnerID:     ownerID,
		RequestID:   item.RequestID,
	}
	if err := s.repo.CreateItem(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.Info().Int64("item_id", created.ID).Int64("owner_id", ownerID).Msg("Item created")
	return created, nil
}

// UpdateItem applies upd for the owner. Other users see the item as missing.
func (s *ItemService) UpdateItem(ctx context.Context, id, ownerID int64, upd models.ItemUpdate) (*models.Item, error) {
	item, err := s.getItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, domain.NotFound(domain.EntityItem, id)
	}

	if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
		item.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil && strings.TrimSpace(*upd.Description) != "" {
		item.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Available != nil {
		item.Available = *upd.Available
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return item, nil
}

// GetItem returns the item card. Booking references are shown to the owner only.
func (s *ItemService) GetItem(ctx context.Context, id, userID int64) (*models.ItemDetails, error) {
	item, err := s.getItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, item, item.OwnerID == userID)
}

func (s *ItemService) ListOwnerItems(ctx context.Context, ownerID int64, from, size int) ([]*models.ItemDetails, error) {
	page, err := itemPage(from, size)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListOwnerItems(ctx, ownerID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner items: %w", err)
	}

	out := make([]*models.ItemDetails, 0, len(items))
	for _, item := range items {
		d, err := s.details(ctx, item, true)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// SearchItems finds available items by text. Blank text matches nothing.
func (s *ItemService) SearchItems(ctx context.Context, text string, from, size int) ([]*models.Item, error) {
	page, err := itemPage(from, size)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}

	items, err := s.repo.SearchAvailableItems(ctx, text, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return items, nil
}

// GetItemToBook resolves an item the requester may book. The requester's own
// items are reported as missing.
func (s *ItemService) GetItemToBook(ctx context.Context, itemID, requesterID int64) (*models.Item, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == requesterID {
		return nil, domain.NotFound(domain.EntityItem, itemID)
	}
	return item, nil
}

func (s *ItemService) ExistsByOwner(ctx context.Context, ownerID int64) (bool, error) {
	ok, err := s.repo.OwnerHasItems(ctx, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to check owner items: %w", err)
	}
	return ok, nil
}

func (s *ItemService) getItem(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, domain.NotFound(domain.EntityItem, id)
	}
	return item, nil
}

func (s *ItemService) details(ctx context.Context, item *models.Item, withBookings bool) (*models.ItemDetails, error) {
	comments, err := s.comments.ListItemComments(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	d := &models.ItemDetails{Item: *item, Comments: comments}
	if !withBookings {
		return d, nil
	}

	if d.LastBooking, err = s.bookings.LastApprovedBooking(ctx, item.ID); err != nil {
		return nil, fmt.Errorf("failed to get last booking: %w", err)
	}
	if d.NextBooking, err = s.bookings.NextApprovedBooking(ctx, item.ID); err != nil {
		return nil, fmt.Errorf("failed to get next booking: %w", err)
	}
	return d, nil
}

func itemPage(from, size int) (models.Page, error) {
	if from < 0 {
		return models.Page{}, domain.Invalid("from", "must not be negative")
	}
	if size <= 0 {
		return models.Page{}, domain.Invalid("size", "must be positive")
	}
	return models.Page{From: from, Size: size}, nil
}
