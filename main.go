// File: servilink/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servilink/config"
	"servilink/database"
	availabilityRepoPkg "servilink/database/repository/availability"
	earningsRepoPkg "servilink/database/repository/earnings"
	providerRepoPkg "servilink/database/repository/provider"
	serviceCatalogRepoPkg "servilink/database/repository/servicecatalog"
	sessionRepoPkg "servilink/database/repository/session"
	sessionConfigRepoPkg "servilink/database/repository/sessionconfig"
	trackingRepoPkg "servilink/database/repository/tracking"
	userRepoPkg "servilink/database/repository/user"
	"servilink/handlers"
	"servilink/middleware"
	"servilink/routes"
	"servilink/services/availability"
	"servilink/services/pricing"
	"servilink/services/session"
	"servilink/services/tracking"
	"servilink/services/wallet"
	"servilink/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Repositories.
	sessionRepo := sessionRepoPkg.NewMongoSessionRepo()
	availabilityRepo := availabilityRepoPkg.NewMongoAvailabilityRepo()
	trackingRepo := trackingRepoPkg.NewMongoTrackingRepo()
	sessionConfigRepo := sessionConfigRepoPkg.NewMongoSessionConfigRepo()
	catalogRepo := serviceCatalogRepoPkg.NewMongoServiceCatalogRepo()
	providerRepo := providerRepoPkg.NewMongoProviderRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	earningsRepo := earningsRepoPkg.NewMongoEarningsRepo()

	ensureIndexes(sessionRepo, availabilityRepo, trackingRepo, earningsRepo)

	// Queue client for settlement publishing.
	redisOpt := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
	queueClient := asynq.NewClient(redisOpt)
	defer queueClient.Close()

	// Services.
	configSource := &pricing.RepoConfigSource{
		Repo:  sessionConfigRepo,
		Cache: utils.GetCacheClient(),
	}
	pricingEngine := &pricing.DefaultEngine{Config: configSource}

	availabilityService := &availability.DefaultAvailabilityService{
		Repo:        availabilityRepo,
		SessionRepo: sessionRepo,
	}

	sessionService := &session.DefaultSessionService{
		Repo:         sessionRepo,
		CatalogRepo:  catalogRepo,
		ProviderRepo: providerRepo,
		UserRepo:     userRepo,
		Pricing:      pricingEngine,
		Availability: availabilityService,
		Settlement:   wallet.NewAsynqPublisher(queueClient),
		Lock:         utils.NewRedisLock(utils.GetLockClient()),
		Opts: session.Options{
			RequireAdminAssignment: config.AppConfig.RequireAdminAssignment,
			AutoConfirmOnAssign:    config.AppConfig.AutoConfirmOnAssign,
			Currency:               config.AppConfig.Currency,
		},
	}

	trackingService := &tracking.DefaultTrackingService{
		Repo:     trackingRepo,
		Sessions: sessionService,
		Proximity: tracking.ProximityPolicy{
			ArrivalRadiusMeters: config.AppConfig.ArrivalRadiusMeters,
		},
	}

	earningsProcessor := &wallet.DefaultEarningsProcessor{Repo: earningsRepo}

	// Settlement worker.
	queueServer := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{"default": 1},
	})
	mux := asynq.NewServeMux()
	taskHandler := &wallet.EarningsTaskHandler{Processor: earningsProcessor}
	taskHandler.RegisterTasks(mux)
	go func() {
		if err := queueServer.Run(mux); err != nil {
			logger.Sugar().Fatalf("main: settlement worker failed: %v", err)
		}
	}()

	// HTTP surface.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	handlerBundle := &handlers.HandlerBundle{
		Session:      handlers.NewSessionHandler(sessionService, logger),
		Tracking:     handlers.NewTrackingHandler(trackingService),
		Availability: handlers.NewAvailabilityHandler(availabilityService),
		Admin:        handlers.NewAdminHandler(sessionService, providerRepo, configSource),
		Wallet:       handlers.NewWalletHandler(earningsProcessor),
	}
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	queueServer.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

type indexed interface {
	EnsureIndexes(ctx context.Context) error
}

func ensureIndexes(repos ...indexed) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, repo := range repos {
		if err := repo.EnsureIndexes(ctx); err != nil {
			utils.GetLogger().Sugar().Fatalf("main: failed to ensure indexes: %v", err)
		}
	}
}
