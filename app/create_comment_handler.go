package app

import (
	"context"
	"errors"

	"lostfound/domain"
	"lostfound/pkg/httperror"
	"lostfound/pkg/metrics"
)

type CreateCommentHandler struct {
	repository CommentRepository
	events     *EventEmitter
}

func NewCreateCommentHandler(repository CommentRepository, events *EventEmitter) *CreateCommentHandler {
	return &CreateCommentHandler{
		repository: repository,
		events:     events,
	}
}

type CreateCommentRequest struct {
	ItemID string `params:"id" json:"-"`
	Text   string `json:"text"`
}

func (h *CreateCommentHandler) Handle(ctx context.Context, req *CreateCommentRequest) (*domain.Comment, error) {
	itemID, err := domain.ParseID(req.ItemID)
	if err != nil {
		return nil, invalidItemID("comments.create.invalid_id")
	}

	if _, err := domain.ValidateCommentText(req.Text); err != nil {
		return nil, validationFailed("comments.create.validation_failed", err)
	}

	comment, err := h.repository.Create(ctx, itemID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, httperror.NotFound("comments.create.not_found", "Item not found", nil)
		case errors.Is(err, domain.ErrInvalidIdentifier):
			return nil, invalidItemID("comments.create.invalid_id")
		case errors.Is(err, domain.ErrValidation):
			return nil, validationFailed("comments.create.validation_failed", err)
		}

		return nil, httperror.InternalServerError(
			"comments.create.internal_error",
			"Failed to add comment",
			nil,
		).WithCause(err)
	}

	metrics.RecordCommentCreated()
	h.events.CommentCreated(ctx, comment)

	return &comment, nil
}
