package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/models"

	"github.com/doug-martin/goqu/v9"
)

var userColumns = []interface{}{"id", "name", "email", "created_at", "updated_at"}

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	now := db.clock()
	ds := db.dialect.Insert("users").Rows(goqu.Record{
		"name":       user.Name,
		"email":      user.Email,
		"created_at": now,
		"updated_at": now,
	})

	id, err := db.insert(ctx, db.DB, ds)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query, args, err := build(db.dialect.From("users").
		Select(userColumns...).
		Where(goqu.Ex{"id": id}).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (db *DB) UserExists(ctx context.Context, id int64) (bool, error) {
	return db.exists(ctx, db.dialect.From("users").Where(goqu.Ex{"id": id}))
}

func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	now := db.clock()
	query, args, err := build(db.dialect.Update("users").
		Set(goqu.Record{
			"name":       user.Name,
			"email":      user.Email,
			"updated_at": now,
		}).
		Where(goqu.Ex{"id": user.ID}).
		Prepared(true))
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	user.UpdatedAt = now
	return nil
}

func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	query, args, err := build(db.dialect.Delete("users").Where(goqu.Ex{"id": id}).Prepared(true))
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) ListUsers(ctx context.Context) ([]*models.User, error) {
	query, args, err := build(db.dialect.From("users").
		Select(userColumns...).
		Order(goqu.I("id").Asc()).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	users := []*models.User{}
	if err := db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// exists reports whether ds matches at least one row.
func (db *DB) exists(ctx context.Context, ds *goqu.SelectDataset) (bool, error) {
	query, args, err := build(ds.Select(goqu.L("1")).Limit(1).Prepared(true))
	if err != nil {
		return false, err
	}
	var one int
	if err := db.GetContext(ctx, &one, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return true, nil
}
