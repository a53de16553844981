package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
)

// bookingSelect joins the item owner and the booker name onto booking rows.
func (db *DB) bookingSelect() *goqu.SelectDataset {
	return db.dialect.From(goqu.T("bookings").As("b")).
		Join(goqu.T("items").As("i"), goqu.On(goqu.I("i.id").Eq(goqu.I("b.item_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("b.booker_id")))).
		Select(
			goqu.I("b.id"),
			goqu.I("b.item_id"),
			goqu.I("b.item_name"),
			goqu.I("i.owner_id"),
			goqu.I("b.booker_id"),
			goqu.I("u.name").As("booker_name"),
			goqu.I("b.start_at"),
			goqu.I("b.end_at"),
			goqu.I("b.status"),
			goqu.I("b.created_at"),
			goqu.I("b.updated_at"),
		)
}

// CreateBooking re-checks item availability and inserts the booking in one transaction.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	now := db.clock()

	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		ds := db.dialect.From("items").Select("available").Where(goqu.Ex{"id": booking.ItemID})
		if db.driver == config.DriverPostgres {
			ds = ds.ForUpdate(exp.Wait)
		}
		query, args, err := build(ds.Prepared(true))
		if err != nil {
			return err
		}

		var available bool
		if err := tx.GetContext(ctx, &available, query, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to check availability in tx: %w", err)
		}
		if !available {
			return ErrNotAvailable
		}

		id, err := db.insert(ctx, tx, db.dialect.Insert("bookings").Rows(goqu.Record{
			"item_id":    booking.ItemID,
			"item_name":  booking.ItemName,
			"booker_id":  booking.BookerID,
			"start_at":   booking.Start.UTC(),
			"end_at":     booking.End.UTC(),
			"status":     string(booking.Status),
			"created_at": now,
			"updated_at": now,
		}))
		if err != nil {
			return fmt.Errorf("failed to insert booking in tx: %w", err)
		}
		booking.ID = id
		return nil
	})
	if err != nil {
		return err
	}

	booking.Start = booking.Start.UTC()
	booking.End = booking.End.UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

// GetBookingWithParties loads a booking with its booker and item owner resolved.
func (db *DB) GetBookingWithParties(ctx context.Context, id int64) (*models.Booking, error) {
	return db.getBooking(ctx, db.bookingSelect().Where(goqu.Ex{"b.id": id}))
}

// GetBookingForUser returns the booking only when userID is its booker or item owner.
func (db *DB) GetBookingForUser(ctx context.Context, id, userID int64) (*models.Booking, error) {
	return db.getBooking(ctx, db.bookingSelect().Where(
		goqu.Ex{"b.id": id},
		goqu.Or(
			goqu.Ex{"b.booker_id": userID},
			goqu.Ex{"i.owner_id": userID},
		),
	))
}

// SetBookingStatus moves a WAITING booking to status and returns the stored updated_at.
// It returns ErrConcurrentModification when the booking is no longer WAITING.
func (db *DB) SetBookingStatus(ctx context.Context, id int64, status models.BookingStatus) (time.Time, error) {
	now := db.clock()
	query, args, err := build(db.dialect.Update("bookings").
		Set(goqu.Record{"status": string(status), "updated_at": now}).
		Where(goqu.Ex{"id": id, "status": string(models.StatusWaiting)}).
		Prepared(true))
	if err != nil {
		return time.Time{}, err
	}

	err = db.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return ErrConcurrentModification
		}
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return now, nil
}

func (db *DB) ListBookerBookings(
	ctx context.Context,
	bookerID int64,
	state models.BookingState,
	page models.Page,
) ([]*models.Booking, error) {
	return db.listBookings(ctx, goqu.Ex{"b.booker_id": bookerID}, state, page)
}

func (db *DB) ListOwnerBookings(
	ctx context.Context,
	ownerID int64,
	state models.BookingState,
	page models.Page,
) ([]*models.Booking, error) {
	return db.listBookings(ctx, goqu.Ex{"i.owner_id": ownerID}, state, page)
}

func (db *DB) listBookings(
	ctx context.Context,
	party exp.Expression,
	state models.BookingState,
	page models.Page,
) ([]*models.Booking, error) {
	predicate, err := statePredicate(state, db.clock())
	if err != nil {
		return nil, err
	}

	where := []exp.Expression{party}
	if predicate != nil {
		where = append(where, predicate)
	}

	return db.selectBookings(ctx, db.bookingSelect().
		Where(where...).
		Order(goqu.I("b.start_at").Desc(), goqu.I("b.id").Desc()).
		Limit(uint(page.Size)).
		Offset(uint(page.Offset())))
}

// statePredicate translates a filter into a SQL predicate. ALL yields nil.
func statePredicate(state models.BookingState, now time.Time) (exp.Expression, error) {
	start, end := goqu.I("b.start_at"), goqu.I("b.end_at")

	switch state {
	case models.StateAll:
		return nil, nil
	case models.StateCurrent:
		return goqu.And(start.Lte(now), end.Gt(now)), nil
	case models.StatePast:
		return end.Lte(now), nil
	case models.StateFuture:
		return start.Gt(now), nil
	case models.StateWaiting:
		return goqu.Ex{"b.status": string(models.StatusWaiting)}, nil
	case models.StateRejected:
		return goqu.Ex{"b.status": string(models.StatusRejected)}, nil
	default:
		return nil, fmt.Errorf("unsupported booking state: %d", state)
	}
}

// FindCompletedBookings returns the user's bookings of the item whose window has elapsed.
func (db *DB) FindCompletedBookings(ctx context.Context, bookerID, itemID int64) ([]*models.Booking, error) {
	return db.selectBookings(ctx, db.bookingSelect().
		Where(
			goqu.Ex{"b.booker_id": bookerID, "b.item_id": itemID},
			goqu.I("b.end_at").Lte(db.clock()),
		).
		Order(goqu.I("b.end_at").Desc()))
}

// LastApprovedBooking is the latest approved booking of the item that has started.
func (db *DB) LastApprovedBooking(ctx context.Context, itemID int64) (*models.ShortBooking, error) {
	return db.nearestApproved(ctx, itemID, goqu.I("start_at").Lte(db.clock()), goqu.I("start_at").Desc())
}

// NextApprovedBooking is the earliest approved booking of the item that has not started.
func (db *DB) NextApprovedBooking(ctx context.Context, itemID int64) (*models.ShortBooking, error) {
	return db.nearestApproved(ctx, itemID, goqu.I("start_at").Gt(db.clock()), goqu.I("start_at").Asc())
}

func (db *DB) nearestApproved(
	ctx context.Context,
	itemID int64,
	bound exp.Expression,
	order exp.OrderedExpression,
) (*models.ShortBooking, error) {
	query, args, err := build(db.dialect.From("bookings").
		Select("id", "booker_id", "start_at", "end_at").
		Where(goqu.Ex{"item_id": itemID, "status": string(models.StatusApproved)}, bound).
		Order(order).
		Limit(1).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	var booking models.ShortBooking
	if err := db.GetContext(ctx, &booking, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get nearest booking: %w", err)
	}
	return &booking, nil
}

func (db *DB) getBooking(ctx context.Context, ds *goqu.SelectDataset) (*models.Booking, error) {
	query, args, err := build(ds.Prepared(true))
	if err != nil {
		return nil, err
	}

	var booking models.Booking
	if err := db.GetContext(ctx, &booking, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (db *DB) selectBookings(ctx context.Context, ds *goqu.SelectDataset) ([]*models.Booking, error) {
	query, args, err := build(ds.Prepared(true))
	if err != nil {
		return nil, err
	}

	bookings := []*models.Booking{}
	if err := db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}
