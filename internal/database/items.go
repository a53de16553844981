package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shareit/internal/config"
	"shareit/internal/models"

	"github.com/doug-martin/goqu/v9"
)

var itemColumns = []interface{}{
	"id", "name", "description", "available", "owner_id", "request_id", "created_at", "updated_at",
}

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	now := db.clock()
	var requestID interface{}
	if item.RequestID != nil {
		requestID = *item.RequestID
	}
	ds := db.dialect.Insert("items").Rows(goqu.Record{
		"name":        item.Name,
		"description": item.Description,
		"available":   item.Available,
		"owner_id":    item.OwnerID,
		"request_id":  requestID,
		"created_at":  now,
		"updated_at":  now,
	})

	id, err := db.insert(ctx, db.DB, ds)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

func (db *DB) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	query, args, err := build(db.dialect.From("items").
		Select(itemColumns...).
		Where(goqu.Ex{"id": id}).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	var item models.Item
	if err := db.GetContext(ctx, &item, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	now := db.clock()
	query, args, err := build(db.dialect.Update("items").
		Set(goqu.Record{
			"name":        item.Name,
			"description": item.Description,
			"available":   item.Available,
			"updated_at":  now,
		}).
		Where(goqu.Ex{"id": item.ID}).
		Prepared(true))
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated item: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	item.UpdatedAt = now
	return nil
}

func (db *DB) ListOwnerItems(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, error) {
	return db.selectItems(ctx, db.dialect.From("items").
		Select(itemColumns...).
		Where(goqu.Ex{"owner_id": ownerID}).
		Order(goqu.I("id").Asc()).
		Limit(uint(page.Size)).
		Offset(uint(page.Offset())))
}

// SearchAvailableItems matches text case-insensitively against name and description.
func (db *DB) SearchAvailableItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*models.Item{}, nil
	}
	pattern := "%" + strings.ToLower(stripWildcards(text)) + "%"
	lower := db.lowerFunc()

	return db.selectItems(ctx, db.dialect.From("items").
		Select(itemColumns...).
		Where(
			goqu.Ex{"available": true},
			goqu.Or(
				goqu.Func(lower, goqu.I("name")).Like(pattern),
				goqu.Func(lower, goqu.I("description")).Like(pattern),
			),
		).
		Order(goqu.I("id").Asc()).
		Limit(uint(page.Size)).
		Offset(uint(page.Offset())))
}

func (db *DB) OwnerHasItems(ctx context.Context, ownerID int64) (bool, error) {
	return db.exists(ctx, db.dialect.From("items").Where(goqu.Ex{"owner_id": ownerID}))
}

func (db *DB) selectItems(ctx context.Context, ds *goqu.SelectDataset) ([]*models.Item, error) {
	query, args, err := build(ds.Prepared(true))
	if err != nil {
		return nil, err
	}

	items := []*models.Item{}
	if err := db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// lowerFunc names the SQL function that folds case the way strings.ToLower does.
func (db *DB) lowerFunc() string {
	if db.driver == config.DriverSQLite {
		return sqliteLower
	}
	return "LOWER"
}

func stripWildcards(s string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(s)
}
