package app

import (
	"context"

	"lostfound/domain"
	"lostfound/pkg/events"

	"go.uber.org/zap"
)

// EventEmitter publishes domain events after successful writes. A nil
// publisher disables publishing; publish failures are only logged.
type EventEmitter struct {
	publisher events.Publisher
	service   string
}

func NewEventEmitter(publisher events.Publisher, service string) *EventEmitter {
	return &EventEmitter{
		publisher: publisher,
		service:   service,
	}
}

func (e *EventEmitter) ItemCreated(ctx context.Context, item domain.Item) {
	e.publish(ctx, events.ItemCreatedEvent, item.ID, events.ItemCreatedPayload{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		ContactInfo: item.ContactInfo,
		ImageURL:    item.ImageURL,
		CreatedAt:   item.CreatedAt,
	})
}

func (e *EventEmitter) CommentCreated(ctx context.Context, comment domain.Comment) {
	e.publish(ctx, events.ItemCommentCreatedEvent, comment.ItemID, events.ItemCommentCreatedPayload{
		ID:        comment.ID,
		ItemID:    comment.ItemID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	})
}

func (e *EventEmitter) publish(ctx context.Context, name, itemID string, payload any) {
	if e == nil || e.publisher == nil {
		return
	}

	headers := events.NewHeaders(e.service)
	event := events.NewEvent(name, events.EventVersionV1, payload, headers)

	if err := e.publisher.Publish(ctx, events.ItemExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish event",
			zap.String("event", name),
			zap.String("itemId", itemID),
			zap.Error(err),
		)
	}
}
