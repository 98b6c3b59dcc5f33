package events

import "time"

const (
	ItemDomain   = "item"
	ItemExchange = "lostfound.item"
)

const (
	ItemCreatedEvent        = "item.created"
	ItemCommentCreatedEvent = "item.comment.created"
)

const (
	EventVersionV1 = "v1"
)

type ItemCreatedPayload struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ContactInfo string    `json:"contactInfo"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ItemCommentCreatedPayload struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"itemId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
