package app

import (
	"context"
	"errors"

	"lostfound/domain"
	"lostfound/pkg/httperror"
)

type GetItemHandler struct {
	items    ItemRepository
	comments CommentRepository
}

func NewGetItemHandler(items ItemRepository, comments CommentRepository) *GetItemHandler {
	return &GetItemHandler{
		items:    items,
		comments: comments,
	}
}

type GetItemRequest struct {
	ItemID string `params:"id"`
}

type GetItemResponse struct {
	Item     domain.Item      `json:"item"`
	Comments []domain.Comment `json:"comments"`
}

func (h GetItemHandler) Handle(ctx context.Context, req *GetItemRequest) (*GetItemResponse, error) {
	id, err := domain.ParseID(req.ItemID)
	if err != nil {
		return nil, invalidItemID("item.show.invalid_id")
	}

	item, err := h.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperror.NotFound(
				"item.show.not_found",
				"Item not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"item.show.failed",
			"Failed to fetch item",
			nil,
		).WithCause(err)
	}

	comments, err := h.comments.ListForItem(ctx, id)
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.show.comments_failed",
			"Failed to fetch item",
			nil,
		).WithCause(err)
	}
	if comments == nil {
		comments = []domain.Comment{}
	}

	return &GetItemResponse{
		Item:     item,
		Comments: comments,
	}, nil
}
