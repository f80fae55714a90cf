package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rideshare-market/backend/internal/api"
	"github.com/rideshare-market/backend/internal/api/handler"
	"github.com/rideshare-market/backend/internal/app/service"
	"github.com/rideshare-market/backend/internal/client"
	"github.com/rideshare-market/backend/internal/domain/repository"
	"github.com/rideshare-market/backend/internal/platform/config"
	"github.com/rideshare-market/backend/internal/platform/database"
	"github.com/rideshare-market/backend/internal/platform/logging"
)

func main() {
	config.Load("availability")
	cfg := config.AppConfig

	logger, err := logging.New("availability")
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	defer logger.Sync()

	database.Connect()
	defer database.Close()

	if err := database.Migrate(context.Background(), database.DB, "availability"); err != nil {
		logger.Fatal("schema migration failed", zap.Error(err))
	}

	listingRepo := repository.NewPgListingRepository(database.DB)
	identityClient := client.NewIdentityClient(cfg.IdentityURL, cfg.InternalKey, cfg.PeerTimeout)

	availabilityService := service.NewAvailabilityService(listingRepo, identityClient, logger)

	reset := func(ctx context.Context) error {
		return database.Reset(ctx, database.DB, "availability")
	}
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService, identityClient, reset, logger)

	router := api.NewRouter(availabilityHandler, cfg.InternalKey, logger)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("availability service listening", zap.String("port", cfg.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-stop

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown failed", zap.Error(err))
	}
}
