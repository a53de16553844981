package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Lookups return (nil, nil) when the record does not exist.

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context) ([]*models.User, error)
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	ListOwnerItems(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, error)
	SearchAvailableItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error)
	OwnerHasItems(ctx context.Context, ownerID int64) (bool, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingWithParties(ctx context.Context, id int64) (*models.Booking, error)
	GetBookingForUser(ctx context.Context, id, userID int64) (*models.Booking, error)
	SetBookingStatus(ctx context.Context, id int64, status models.BookingStatus) (time.Time, error)
	ListBookerBookings(ctx context.Context, bookerID int64, state models.BookingState, page models.Page) ([]*models.Booking, error)
	ListOwnerBookings(ctx context.Context, ownerID int64, state models.BookingState, page models.Page) ([]*models.Booking, error)
	FindCompletedBookings(ctx context.Context, bookerID, itemID int64) ([]*models.Booking, error)
	LastApprovedBooking(ctx context.Context, itemID int64) (*models.ShortBooking, error)
	NextApprovedBooking(ctx context.Context, itemID int64) (*models.ShortBooking, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListItemComments(ctx context.Context, itemID int64) ([]*models.Comment, error)
}

type RateLimitRepository interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
	Ping(ctx context.Context) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// UserDirectory resolves users for the booking engine.
type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// ItemCatalog resolves items for the booking engine.
type ItemCatalog interface {
	GetItemToBook(ctx context.Context, itemID, requesterID int64) (*models.Item, error)
	ExistsByOwner(ctx context.Context, ownerID int64) (bool, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, candidate *models.Booking, requesterID int64) (*models.Booking, error)
	GetBooking(ctx context.Context, id, requesterID int64) (*models.Booking, error)
	ApplyBookingVerdict(ctx context.Context, id int64, approve bool, actingUserID int64) (*models.Booking, error)
	GetUserBookings(ctx context.Context, userID int64, state models.BookingState, from, size int) ([]*models.Booking, error)
	GetOwnerBookings(ctx context.Context, userID int64, state models.BookingState, from, size int) ([]*models.Booking, error)
	FindCompletedBookings(ctx context.Context, userID, itemID int64) ([]*models.Booking, error)
}

type UserService interface {
	UserDirectory
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context) ([]*models.User, error)
}

type ItemService interface {
	ItemCatalog
	CreateItem(ctx context.Context, item *models.Item, ownerID int64) (*models.Item, error)
	UpdateItem(ctx context.Context, id, ownerID int64, upd models.ItemUpdate) (*models.Item, error)
	GetItem(ctx context.Context, id, userID int64) (*models.ItemDetails, error)
	ListOwnerItems(ctx context.Context, ownerID int64, from, size int) ([]*models.ItemDetails, error)
	SearchItems(ctx context.Context, text string, from, size int) ([]*models.Item, error)
}

type CommentService interface {
	AddComment(ctx context.Context, itemID, authorID int64, text string) (*models.Comment, error)
}
