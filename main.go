package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/address-resolver/app/bootstrap"
	"github.com/address-resolver/app/config"
	"github.com/address-resolver/app/controllers"
	"github.com/address-resolver/app/services"
	"github.com/address-resolver/routes"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatal("Cannot load settings:", err)
	}

	// 2. Khởi tạo logger
	logger, err := bootstrap.NewLogger(settings)
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting Address Resolver Service", zap.String("env", settings.Env))

	// 3. Nạp gazetteer (file hoặc MongoDB)
	idx, err := bootstrap.LoadIndex(context.Background(), settings, logger)
	if err != nil {
		logger.Fatal("Failed to load gazetteer", zap.Error(err))
	}

	// 4. Khởi tạo resolver
	res, err := bootstrap.NewResolver(settings, idx, logger)
	if err != nil {
		logger.Fatal("Failed to initialize resolver", zap.Error(err))
	}

	// 5. Cache (memory L1 + Redis L2 nếu có)
	cacheService := bootstrap.NewCache(settings, logger)
	if cacheService != nil {
		defer cacheService.Close()
	}

	// 6. Meilisearch publisher (tùy chọn)
	publisher := bootstrap.NewPublisher(settings, logger)

	// 7. Khởi tạo services
	addressService := services.NewAddressService(res, cacheService, settings.BatchWorkers, logger)
	adminService := services.NewAdminService(res, addressService, cacheService, publisher, logger)

	// 8. Khởi tạo controllers
	addressController := controllers.NewAddressController(addressService, logger)
	adminController := controllers.NewAdminController(adminService, addressService, logger)

	// 9. Khởi tạo Gin router
	if settings.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, addressController, adminController, routes.Options{
		RateLimitPerSecond: settings.RateLimitPerSecond,
		RateLimitBurst:     settings.RateLimitBurst,
	}, logger)

	// 10. Khởi động server
	server := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Address Resolver Service listening", zap.String("port", settings.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
}
