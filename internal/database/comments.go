package database

import (
	"context"
	"fmt"

	"shareit/internal/models"

	"github.com/doug-martin/goqu/v9"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	now := db.clock()
	id, err := db.insert(ctx, db.DB, db.dialect.Insert("comments").Rows(goqu.Record{
		"item_id":    comment.ItemID,
		"author_id":  comment.AuthorID,
		"text":       comment.Text,
		"created_at": now,
	}))
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	comment.ID = id
	comment.CreatedAt = now
	return nil
}

func (db *DB) ListItemComments(ctx context.Context, itemID int64) ([]*models.Comment, error) {
	query, args, err := build(db.dialect.From(goqu.T("comments").As("c")).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("c.author_id")))).
		Select(
			goqu.I("c.id"),
			goqu.I("c.item_id"),
			goqu.I("c.author_id"),
			goqu.I("u.name").As("author_name"),
			goqu.I("c.text"),
			goqu.I("c.created_at"),
		).
		Where(goqu.Ex{"c.item_id": itemID}).
		Order(goqu.I("c.created_at").Asc(), goqu.I("c.id").Asc()).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	comments := []*models.Comment{}
	if err := db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
