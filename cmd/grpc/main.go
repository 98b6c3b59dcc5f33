package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lostfound/infra/grpc"
	"lostfound/infra/postgres"
	"lostfound/pkg/config"
	"lostfound/pkg/logging"

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

	zap.L().Info("Lost and found gRPC service starting...")

	if appConfig.DatabaseURL == "" {
		zap.L().Fatal("DATABASE_URL is required")
	}

	connector, err := postgres.NewConnector(appConfig.DatabaseURL)
	if err != nil {
		zap.L().Fatal("failed to create database connector", zap.Error(err))
	}
	defer connector.Close()

	grpcServer, err := grpc.NewServer(appConfig.GRPCPort)
	if err != nil {
		zap.L().Error("failed to create grpc server", zap.Error(err))
		os.Exit(1)
	}

	itemService := grpc.NewItemServiceServer(
		postgres.NewItemRepository(connector),
		postgres.NewCommentRepository(connector),
	)
	grpc.RegisterItemService(grpcServer.GetGRPCServer(), itemService)

	zap.L().Info("starting gRPC server...", zap.String("port", appConfig.GRPCPort))
	go func() {
		if err := grpcServer.Start(); err != nil {
			zap.L().Error("failed to start grpc server", zap.Error(err))
			os.Exit(1)
		}
	}()

	gracefulShutdown(grpcServer)
}

func gracefulShutdown(grpcServer *grpc.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	grpcServer.GracefulStop()

	zap.L().Info("Server gracefully stopped")
}
