package domain

import "time"

type Comment struct {
	ID        string    `db:"id" json:"id"`
	ItemID    string    `db:"item_id" json:"itemId"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

const MaxCommentLength = 500
