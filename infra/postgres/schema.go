package postgres

import (
	"context"
	"fmt"
)

// comments.item_id deliberately carries no foreign key; existence is
// checked on write.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    title        VARCHAR(100)  NOT NULL,
    description  VARCHAR(1000) NOT NULL,
    contact_info VARCHAR(200)  NOT NULL,
    image_url    TEXT          NOT NULL,
    created_at   TIMESTAMPTZ   NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ   NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_items_created_at ON items (created_at DESC);

CREATE TABLE IF NOT EXISTS comments (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    item_id    UUID         NOT NULL,
    text       VARCHAR(500) NOT NULL,
    created_at TIMESTAMPTZ  NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_comments_item_created_at ON comments (item_id, created_at DESC);
`

// EnsureSchema creates the items and comments tables if they are missing.
func EnsureSchema(ctx context.Context, conn *Connector) error {
	db, err := conn.DB(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
