package router

import (
	"context"
	"errors"
	"time"

	"lostfound/app"
	"lostfound/domain"
	"lostfound/internal/middleware"
	"lostfound/pkg/aws"
	"lostfound/pkg/httperror"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BodyLimit sits above the 5 MB image cap so oversized images reach
// upload validation instead of being cut off by the server.
const BodyLimit = 12 * 1024 * 1024

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

// fileBinder is implemented by requests that carry multipart files.
type fileBinder interface {
	BindFiles(c *fiber.Ctx) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type PoolReporter interface {
	PoolStats() map[string]any
}

// BrokerHealth reports whether the event broker connection is open.
type BrokerHealth interface {
	IsHealthy() bool
}

// Envelope wraps every response body.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
	Message string `json:"message,omitempty"`
}

type Dependencies struct {
	Items       app.ItemRepository
	Comments    app.CommentRepository
	Storage     app.ImageStorage
	Events      *app.EventEmitter
	Store       Pinger
	Pool        PoolReporter
	Broker      BrokerHealth
	ServiceName string
}

func New(deps Dependencies) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
		BodyLimit:    BodyLimit,
		AppName:      deps.ServiceName,
		ErrorHandler: writeError,
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(middleware.NewRequestLogger())

	fiberApp.Get("/health", health(deps))
	fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	listItemsHandler := app.NewListItemsHandler(deps.Items)
	createItemHandler := app.NewCreateItemHandler(deps.Items, deps.Storage, deps.Events)
	getItemHandler := app.NewGetItemHandler(deps.Items, deps.Comments)
	createCommentHandler := app.NewCreateCommentHandler(deps.Comments, deps.Events)
	presignUploadHandler := app.NewPresignUploadHandler(deps.Storage)

	publicRoutes := fiberApp.Group("/api")
	publicRoutes.Get("/items", handle[app.ListItemsRequest, app.ListItemsResponse](listItemsHandler, fiber.StatusOK, ""))
	publicRoutes.Post("/items", handle[app.CreateItemRequest, domain.Item](createItemHandler, fiber.StatusCreated, "Item uploaded successfully"))
	publicRoutes.Get("/items/:id", handle[app.GetItemRequest, app.GetItemResponse](getItemHandler, fiber.StatusOK, ""))
	publicRoutes.Post("/items/:id/comments", handle[app.CreateCommentRequest, domain.Comment](createCommentHandler, fiber.StatusCreated, "Comment added successfully"))
	publicRoutes.Get("/uploads/presign", handle[app.PresignUploadRequest, aws.PresignedUpload](presignUploadHandler, fiber.StatusOK, ""))

	return fiberApp
}

func handle[R Request, Res Response](handler HandlerInterface[R, Res], status int, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return writeError(c, httperror.BadRequest(
				"request.invalid_body",
				"Invalid body",
				fiber.Map{"error": err.Error()},
			))
		}

		if binder, ok := any(&req).(fileBinder); ok {
			if err := binder.BindFiles(c); err != nil {
				return writeError(c, httperror.BadRequest(
					"request.invalid_files",
					"Invalid files",
					fiber.Map{"error": err.Error()},
				))
			}
		}

		if err := c.ParamsParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_path_params",
				"Invalid path params",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.QueryParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_query_params",
				"Invalid query params",
				fiber.Map{"error": err.Error()},
			))
		}

		res, err := handler.Handle(c.UserContext(), &req)
		if err != nil {
			return writeError(c, err)
		}

		return c.Status(status).JSON(Envelope{
			Success: true,
			Data:    res,
			Message: message,
		})
	}
}

// health fails only when the store is unreachable. Events are optional, so a
// broker outage is reported without failing the check.
func health(deps Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Store != nil {
			if err := deps.Store.Ping(c.UserContext()); err != nil {
				return writeError(c, httperror.ServiceUnavailable(
					"health.store_unavailable",
					"Store unavailable",
					nil,
				).WithCause(err))
			}
		}

		data := fiber.Map{"status": "ok"}
		if deps.Pool != nil {
			if stats := deps.Pool.PoolStats(); stats != nil {
				data["pool"] = stats
			}
		}
		if deps.Broker != nil {
			data["events"] = "down"
			if deps.Broker.IsHealthy() {
				data["events"] = "up"
			}
		}

		return c.JSON(Envelope{
			Success: true,
			Data:    data,
		})
	}
}

func writeError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		payload := Envelope{
			Success: false,
			Code:    httpErr.Code,
			Error:   httpErr.Message,
			Details: httpErr.Details,
		}

		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		}

		return c.Status(httpErr.Status).JSON(payload)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code == fiber.StatusRequestEntityTooLarge {
		// Bodies over BodyLimit are rejected before routing. On the upload
		// route the only field that size is the image.
		code, message := "request.too_large", "Request body too large"
		if c.Method() == fiber.MethodPost && c.Path() == "/api/items" {
			code, message = "item.create.image_too_large", "File size must be less than 5MB"
		}
		zap.L().Warn("Request body too large", zap.String("path", c.Path()))
		return c.Status(fiber.StatusBadRequest).JSON(Envelope{
			Success: false,
			Code:    code,
			Error:   message,
		})
	}

	if errors.As(err, &fiberErr) {
		zap.L().Warn("Fiber error", zap.String("message", fiberErr.Message), zap.Error(err))
		return c.Status(fiberErr.Code).JSON(Envelope{
			Success: false,
			Code:    "request.invalid",
			Error:   fiberErr.Message,
		})
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(Envelope{
		Success: false,
		Code:    "internal_server_error",
		Error:   "Internal server error.",
	})
}
