package app

import (
	"context"
	"time"

	"lostfound/domain"
	"lostfound/pkg/aws"
)

type ItemRepository interface {
	ListAll(ctx context.Context) ([]domain.Item, error)
	GetByID(ctx context.Context, id string) (domain.Item, error)
	Create(ctx context.Context, item domain.NewItem) (domain.Item, error)
}

type CommentRepository interface {
	ListForItem(ctx context.Context, itemID string) ([]domain.Comment, error)
	Create(ctx context.Context, itemID, text string) (domain.Comment, error)
}

// ImageStorage is the object storage the API uploads listing images to.
type ImageStorage interface {
	Upload(ctx context.Context, data []byte, fileName, contentType string) (string, error)
	PresignUpload(ctx context.Context, fileName, contentType string, expiry time.Duration) (aws.PresignedUpload, error)
}
