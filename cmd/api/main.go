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

	"event-staffing-backend/config"
	_ "event-staffing-backend/docs" // Important for Swagger
	v1 "event-staffing-backend/internal/delivery/http/v1"
	"event-staffing-backend/internal/domain"
	"event-staffing-backend/internal/repository/postgres"
	"event-staffing-backend/internal/session"
	"event-staffing-backend/internal/usecase"
	"event-staffing-backend/pkg/database"
	"event-staffing-backend/pkg/logger"
	"event-staffing-backend/pkg/querycache"
	"event-staffing-backend/pkg/redis"
	"event-staffing-backend/pkg/security"
	"event-staffing-backend/pkg/supabase"
	"event-staffing-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Event Staffing API
// @version         1.0
// @description     Backend for the event staffing marketplace: companies post event shifts, promoters apply and get paid.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name sb_session
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting event staffing backend", "port", cfg.Port)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional)
	redisClient, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		redisClient = nil
	case err != nil:
		logger.Log.Warn("Redis unavailable, falling back to in-memory state", "error", err)
		redisClient = nil
	default:
		defer redisClient.Close()
		logger.Log.Info("Redis connection established")
	}

	// 5. Setup Storage (optional)
	var storage domain.FileStorage
	bucket, err := supabase.NewStorage(ctx, supabase.StorageConfig{
		ProjectURL:      cfg.SupabaseURL,
		Region:          cfg.StorageRegion,
		AccessKeyID:     cfg.StorageAccessKeyID,
		SecretAccessKey: cfg.StorageSecretAccessKey,
		Bucket:          cfg.StorageBucket,
	})
	if err != nil {
		logger.Log.Warn("Storage not available - avatar and logo uploads are disabled", "error", err)
		bucket = nil
	} else {
		storage = bucket
	}

	// 6. Setup Auth
	var sessionStore supabase.SessionStore
	if redisClient != nil {
		sessionStore = supabase.NewRedisSessionStore(redisClient, cfg.SessionTTL)
	} else {
		sessionStore = supabase.NewMemorySessionStore(cfg.SessionTTL)
	}
	authClient := supabase.NewAuth(
		supabase.NewGoTrue(cfg.SupabaseURL, cfg.SupabaseKey, cfg.AuthTimeout),
		supabase.NewVerifier(cfg.SupabaseURL, cfg.SupabaseJWTSecret),
		sessionStore,
	)

	// 7. Setup Repositories
	profileRepo := postgres.NewProfileRepository(dbPool)
	companyRepo := postgres.NewCompanyRepository(dbPool)
	eventRepo := postgres.NewEventRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	messageRepo := postgres.NewMessageRepository(dbPool)
	notificationRepo := postgres.NewNotificationRepository(dbPool)
	ratingRepo := postgres.NewRatingRepository(dbPool)
	paymentRepo := postgres.NewPaymentRepository(dbPool)
	walletRepo := postgres.NewWalletRepository(dbPool)

	// 8. Setup UseCases
	validate := validation.New()
	cache := querycache.New(redisClient, cfg.QueryCacheTTL)
	tracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: cfg.FailedLoginBlock,
		BlockDuration: cfg.FailedLoginBlock,
		UseIPTracking: true,
	}, redisClient)

	notificationUC := usecase.NewNotificationUsecase(notificationRepo, cache)
	authUC := usecase.NewAuthUsecase(authClient, profileRepo, tracker, validate)
	profileUC := usecase.NewProfileUsecase(profileRepo, storage, validate)
	companyUC := usecase.NewCompanyUsecase(companyRepo, storage, validate)
	eventUC := usecase.NewEventUsecase(eventRepo, companyRepo, cache, validate)
	jobUC := usecase.NewJobUsecase(jobRepo, eventRepo, companyRepo, cache, validate)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo, companyRepo, notificationUC, cache)
	messageUC := usecase.NewMessageUsecase(messageRepo, notificationUC, cache, validate)
	ratingUC := usecase.NewRatingUsecase(ratingRepo, notificationUC, validate)
	paymentUC := usecase.NewPaymentUsecase(paymentRepo, jobRepo, companyRepo, notificationUC, cache, validate)
	walletUC := usecase.NewWalletUsecase(walletRepo, paymentUC)
	overviewUC := usecase.NewOverviewUsecase(usecase.OverviewDeps{
		ProfileRepo:     profileRepo,
		JobRepo:         jobRepo,
		EventRepo:       eventRepo,
		CompanyRepo:     companyRepo,
		ApplicationRepo: applicationRepo,
		Applications:    applicationUC,
		Events:          eventUC,
		Jobs:            jobUC,
		Messages:        messageUC,
		Notifications:   notificationUC,
		Payments:        paymentUC,
		Cache:           cache,
	})
	healthUC := usecase.NewHealthUsecase(healthChecks(dbPool.Ping, redisClient, bucket))

	// 9. Setup Session Manager
	sessions := session.NewManager(authClient, authUC, cfg.ProfileFetchTimeout)
	sessions.Start(ctx)
	defer sessions.Stop()

	// 10. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:         authUC,
		ProfileUC:      profileUC,
		CompanyUC:      companyUC,
		EventUC:        eventUC,
		JobUC:          jobUC,
		ApplicationUC:  applicationUC,
		MessageUC:      messageUC,
		NotificationUC: notificationUC,
		RatingUC:       ratingUC,
		PaymentUC:      paymentUC,
		WalletUC:       walletUC,
		OverviewUC:     overviewUC,
		HealthUC:       healthUC,
		Auth:           authClient,
		Sessions:       sessions,
		UploadLimiter:  security.NewUploadLimiter(redisClient, 10, 50),
		Redis:          redisClient,
		Config:         cfg,
	})

	// 11. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

func healthChecks(pingDB usecase.HealthCheck, redisClient *goredis.Client, bucket *supabase.Storage) map[string]usecase.HealthCheck {
	checks := map[string]usecase.HealthCheck{"database": pingDB}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redis.HealthCheck(ctx, redisClient)
		}
	}
	if bucket != nil {
		checks["storage"] = bucket.Ping
	}
	return checks
}
