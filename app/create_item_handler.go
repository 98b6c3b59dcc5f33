package app

import (
	"context"
	"errors"
	"io"
	"mime/multipart"

	"lostfound/domain"
	"lostfound/pkg/aws"
	"lostfound/pkg/httperror"
	"lostfound/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CreateItemHandler struct {
	repository ItemRepository
	storage    ImageStorage
	events     *EventEmitter
}

type CreateItemRequest struct {
	Title       string                `form:"title"`
	Description string                `form:"description"`
	ContactInfo string                `form:"contactInfo"`
	Image       *multipart.FileHeader `form:"-" query:"-" params:"-"`
}

// BindFiles picks the image part out of the multipart form. A missing part
// is reported by the handler, not here.
func (r *CreateItemRequest) BindFiles(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err == nil {
		r.Image = file
	}
	return nil
}

func NewCreateItemHandler(repository ItemRepository, storage ImageStorage, events *EventEmitter) *CreateItemHandler {
	return &CreateItemHandler{
		repository: repository,
		storage:    storage,
		events:     events,
	}
}

// Handle validates the form, uploads the image and only then writes the
// item. A failed write after a successful upload leaves the image in the
// bucket.
func (h CreateItemHandler) Handle(ctx context.Context, req *CreateItemRequest) (*domain.Item, error) {
	if req.Title == "" || req.Description == "" || req.ContactInfo == "" || req.Image == nil {
		return nil, httperror.BadRequest(
			"item.create.missing_fields",
			"All fields are required",
			nil,
		)
	}

	details, err := domain.ValidateItemDetails(domain.ItemDetails{
		Title:       req.Title,
		Description: req.Description,
		ContactInfo: req.ContactInfo,
	})
	if err != nil {
		return nil, validationFailed("item.create.validation_failed", err)
	}

	data, err := readFile(req.Image)
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.create.file_read_error",
			"Failed to read uploaded file",
			nil,
		).WithCause(err)
	}

	imageURL, err := h.storage.Upload(ctx, data, req.Image.Filename, req.Image.Header.Get(fiber.HeaderContentType))
	if err != nil {
		return nil, uploadFailed(err)
	}
	metrics.RecordImageUpload(metrics.UploadSuccess)

	item, err := h.repository.Create(ctx, domain.NewItem{
		ItemDetails: details,
		ImageURL:    imageURL,
	})
	if err != nil {
		zap.L().Warn("Item write failed after image upload", zap.String("imageUrl", imageURL), zap.Error(err))

		if errors.Is(err, domain.ErrValidation) {
			return nil, validationFailed("item.create.validation_failed", err)
		}
		return nil, httperror.InternalServerError(
			"item.create.create_failed",
			"Failed to create item",
			nil,
		).WithCause(err)
	}

	metrics.RecordItemCreated()
	h.events.ItemCreated(ctx, item)

	return &item, nil
}

func uploadFailed(err error) error {
	switch {
	case errors.Is(err, aws.ErrNotImage):
		metrics.RecordImageUpload(metrics.UploadRejected)
		return httperror.BadRequest("item.create.invalid_image_type", "File must be an image", nil)
	case errors.Is(err, aws.ErrImageTooLarge):
		metrics.RecordImageUpload(metrics.UploadRejected)
		return httperror.BadRequest("item.create.image_too_large", "File size must be less than 5MB", nil)
	default:
		metrics.RecordImageUpload(metrics.UploadFailed)
		return httperror.InternalServerError(
			"item.create.upload_failed",
			"Failed to upload image",
			nil,
		).WithCause(err)
	}
}

func readFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}
