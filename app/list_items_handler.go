package app

import (
	"context"

	"lostfound/domain"
	"lostfound/pkg/httperror"
)

type ListItemsHandler struct {
	repository ItemRepository
}

func NewListItemsHandler(repository ItemRepository) *ListItemsHandler {
	return &ListItemsHandler{
		repository: repository,
	}
}

type ListItemsRequest struct{}

type ListItemsResponse []domain.Item

func (h ListItemsHandler) Handle(ctx context.Context, _ *ListItemsRequest) (*ListItemsResponse, error) {
	items, err := h.repository.ListAll(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.index.failed",
			"Failed to fetch items",
			nil,
		).WithCause(err)
	}

	res := ListItemsResponse(items)
	return &res, nil
}
