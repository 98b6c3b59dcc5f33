package domain

import "time"

// Item is a lost or found listing.
type Item struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	ContactInfo string    `db:"contact_info" json:"contactInfo"`
	ImageURL    string    `db:"image_url" json:"imageUrl"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// ItemDetails holds the user supplied text of a listing. It is validated
// before the image is uploaded.
type ItemDetails struct {
	Title       string `db:"title" json:"title" validate:"required,max=100"`
	Description string `db:"description" json:"description" validate:"required,max=1000"`
	ContactInfo string `db:"contact_info" json:"contactInfo" validate:"required,max=200"`
}

// NewItem is everything needed to persist an item.
type NewItem struct {
	ItemDetails
	ImageURL string `db:"image_url" json:"imageUrl" validate:"required,url"`
}
