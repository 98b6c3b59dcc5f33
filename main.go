package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lostfound/app"
	"lostfound/infra/postgres"
	"lostfound/infra/rabbitmq"
	"lostfound/internal/router"
	"lostfound/pkg/aws"
	"lostfound/pkg/config"
	"lostfound/pkg/logging"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	appConfig, err := config.Read()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.Setup(appConfig.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	zap.L().Info("app starting...", zap.String("service", appConfig.ServiceName))

	if err := appConfig.Validate(); err != nil {
		zap.L().Fatal("invalid configuration", zap.Error(err))
	}

	connector, err := postgres.NewConnector(appConfig.DatabaseURL)
	if err != nil {
		zap.L().Fatal("failed to create database connector", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := postgres.EnsureSchema(ctx, connector); err != nil {
		cancel()
		zap.L().Fatal("failed to prepare database schema", zap.Error(err))
	}
	cancel()

	storage := aws.NewS3Bucket(aws.Config{
		Endpoint:  appConfig.AWSEndpoint,
		Bucket:    appConfig.AWSBucket,
		Region:    appConfig.AWSRegion,
		AccessKey: appConfig.AWSAccessKeyID,
		SecretKey: appConfig.AWSSecretAccessKey,
	})

	deps := router.Dependencies{
		Items:       postgres.NewItemRepository(connector),
		Comments:    postgres.NewCommentRepository(connector),
		Storage:     storage,
		Events:      app.NewEventEmitter(nil, appConfig.ServiceName),
		Store:       connector,
		Pool:        connector,
		ServiceName: appConfig.ServiceName,
	}

	var publisher *rabbitmq.RabbitMQPublisher
	if appConfig.RabbitMQURL != "" {
		publisher, err = rabbitmq.NewRabbitMQPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			zap.L().Warn("event publishing disabled", zap.Error(err))
			publisher = nil
		} else {
			deps.Events = app.NewEventEmitter(publisher, appConfig.ServiceName)
			deps.Broker = publisher
		}
	}

	fiberApp := router.New(deps)

	go func() {
		if err := fiberApp.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(fiberApp)

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			zap.L().Warn("failed to close event publisher", zap.Error(err))
		}
	}
	if err := connector.Close(); err != nil {
		zap.L().Warn("failed to close database pool", zap.Error(err))
	}
}

func gracefulShutdown(fiberApp *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := fiberApp.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}
