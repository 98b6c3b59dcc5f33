package app

import (
	"context"
	"errors"
	"time"

	"lostfound/pkg/aws"
	"lostfound/pkg/httperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type PresignUploadHandler struct {
	storage ImageStorage
}

func NewPresignUploadHandler(storage ImageStorage) *PresignUploadHandler {
	return &PresignUploadHandler{
		storage: storage,
	}
}

type PresignUploadRequest struct {
	FileName    string `query:"fileName" validate:"required,max=255"`
	ContentType string `query:"contentType" validate:"required"`
	ExpiresIn   int    `query:"expiresIn" validate:"gte=0"`
}

func (h *PresignUploadHandler) Handle(ctx context.Context, req *PresignUploadRequest) (*aws.PresignedUpload, error) {
	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return nil, httperror.BadRequest(
				"uploads.presign.validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"uploads.presign.validation_error",
			"An unexpected validation error occurred",
			nil,
		).WithCause(err)
	}

	upload, err := h.storage.PresignUpload(ctx, req.FileName, req.ContentType, time.Duration(req.ExpiresIn)*time.Second)
	if err != nil {
		if errors.Is(err, aws.ErrNotImage) {
			return nil, httperror.BadRequest("uploads.presign.invalid_image_type", "File must be an image", nil)
		}

		return nil, httperror.InternalServerError(
			"uploads.presign.failed",
			"Failed to create upload URL",
			nil,
		).WithCause(err)
	}

	return &upload, nil
}
