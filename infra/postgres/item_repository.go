package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lostfound/domain"
)

const itemColumns = `id, title, description, contact_info, image_url, created_at, updated_at`

type ItemRepository struct {
	conn *Connector
}

func NewItemRepository(conn *Connector) *ItemRepository {
	return &ItemRepository{conn: conn}
}

// ListAll returns every item, most recent first.
func (r *ItemRepository) ListAll(ctx context.Context) ([]domain.Item, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, upstream("list items", err)
	}

	items := make([]domain.Item, 0)
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC, id DESC`

	if err := db.SelectContext(ctx, &items, query); err != nil {
		return nil, upstream("list items", err)
	}

	return items, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (domain.Item, error) {
	var i domain.Item

	id, err := domain.ParseID(id)
	if err != nil {
		return i, err
	}

	db, err := r.conn.DB(ctx)
	if err != nil {
		return i, upstream("get item", err)
	}

	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	if err := db.GetContext(ctx, &i, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return i, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
		}
		return i, upstream("get item", err)
	}

	return i, nil
}

func (r *ItemRepository) Create(ctx context.Context, item domain.NewItem) (domain.Item, error) {
	var i domain.Item

	item, err := domain.ValidateNewItem(item)
	if err != nil {
		return i, err
	}

	db, err := r.conn.DB(ctx)
	if err != nil {
		return i, upstream("create item", err)
	}

	query := `
		INSERT INTO items (title, description, contact_info, image_url)
		VALUES (:title, :description, :contact_info, :image_url)
		RETURNING ` + itemColumns

	rows, err := db.NamedQueryContext(ctx, query, item)
	if err != nil {
		return i, upstream("create item", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return i, upstream("create item", err)
		}
		return i, upstream("create item", sql.ErrNoRows)
	}
	if err := rows.StructScan(&i); err != nil {
		return i, upstream("create item", err)
	}

	return i, nil
}

func upstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstream, err)
}
