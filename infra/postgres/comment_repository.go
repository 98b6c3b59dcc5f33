package postgres

import (
	"context"
	"fmt"

	"lostfound/domain"
)

const commentColumns = `id, item_id, text, created_at, updated_at`

type CommentRepository struct {
	conn *Connector
}

func NewCommentRepository(conn *Connector) *CommentRepository {
	return &CommentRepository{conn: conn}
}

func (r *CommentRepository) ListForItem(ctx context.Context, itemID string) ([]domain.Comment, error) {
	itemID, err := domain.ParseID(itemID)
	if err != nil {
		return nil, err
	}

	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, upstream("list comments", err)
	}

	comments := make([]domain.Comment, 0)
	query := `SELECT ` + commentColumns + ` FROM comments WHERE item_id = $1 ORDER BY created_at DESC, id DESC`

	if err := db.SelectContext(ctx, &comments, query, itemID); err != nil {
		return nil, upstream("list comments", err)
	}

	return comments, nil
}

// Create checks the referenced item exists before inserting the comment.
func (r *CommentRepository) Create(ctx context.Context, itemID, text string) (domain.Comment, error) {
	var c domain.Comment

	itemID, err := domain.ParseID(itemID)
	if err != nil {
		return c, err
	}

	text, err = domain.ValidateCommentText(text)
	if err != nil {
		return c, err
	}

	db, err := r.conn.DB(ctx)
	if err != nil {
		return c, upstream("create comment", err)
	}

	var exists bool
	if err := db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM items WHERE id = $1)`, itemID); err != nil {
		return c, upstream("create comment", err)
	}
	if !exists {
		return c, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}

	query := `INSERT INTO comments (item_id, text) VALUES ($1, $2) RETURNING ` + commentColumns
	if err := db.QueryRowxContext(ctx, query, itemID, text).StructScan(&c); err != nil {
		return c, upstream("create comment", err)
	}

	return c, nil
}
