package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mentorify/mentorify-api/config"
	"github.com/mentorify/mentorify-api/internal/cache"
	"github.com/mentorify/mentorify-api/internal/handlers"
	"github.com/mentorify/mentorify-api/internal/lock"
	"github.com/mentorify/mentorify-api/internal/middleware"
	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/internal/repository"
	"github.com/mentorify/mentorify-api/internal/schedule"
	"github.com/mentorify/mentorify-api/internal/services"
	"github.com/mentorify/mentorify-api/pkg/db"
	"github.com/mentorify/mentorify-api/pkg/httpclient"
	"github.com/mentorify/mentorify-api/pkg/jwt"
	"github.com/mentorify/mentorify-api/pkg/logger"
	"github.com/mentorify/mentorify-api/pkg/metrics"
	"github.com/mentorify/mentorify-api/pkg/otp"
	"github.com/mentorify/mentorify-api/pkg/profiling"
	"github.com/mentorify/mentorify-api/pkg/storage"
	"github.com/mentorify/mentorify-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerAuthRoutes registers the public authentication endpoints.
// Mentee and mentor signup/login share handlers; the route decides the role.
func registerAuthRoutes(
	group *gin.RouterGroup,
	authRateLimiter *middleware.RateLimiter,
	authHandler *handlers.AuthHandler,
) {
	group.POST("/send-otp", authRateLimiter.Middleware(), authHandler.SendOTP)
	group.POST("/verify-otp", authRateLimiter.Middleware(), authHandler.VerifyOTP)
	group.POST("/signup", authRateLimiter.Middleware(), authHandler.Signup(models.RoleMentee))
	group.POST("/mentor-signup", authRateLimiter.Middleware(), authHandler.Signup(models.RoleMentor))
	group.POST("/login", authRateLimiter.Middleware(), authHandler.Login(models.RoleMentee))
	group.POST("/mentor-login", authRateLimiter.Middleware(), authHandler.Login(models.RoleMentor))
	group.POST("/logout", authRateLimiter.Middleware(), authHandler.Logout)
}

// registerPublicRoutes registers the mentor directory endpoints that need no session
func registerPublicRoutes(
	group *gin.RouterGroup,
	generalRateLimiter *middleware.RateLimiter,
	mentorHandler *handlers.MentorHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	reviewHandler *handlers.ReviewHandler,
	profileHandler *handlers.ProfileHandler,
) {
	group.GET("/mentors", generalRateLimiter.Middleware(), mentorHandler.GetMentorData)
	group.GET("/mentors/:mentorId", generalRateLimiter.Middleware(), mentorHandler.GetMentorByID)
	group.GET("/mentors/:mentorId/availability", generalRateLimiter.Middleware(), availabilityHandler.GetMentorAvailability)
	group.GET("/mentors/:mentorId/reviews", generalRateLimiter.Middleware(), reviewHandler.ListMentorReviews)
	group.POST("/mentor-image-url", generalRateLimiter.Middleware(), profileHandler.GetImageURL)
}

// registerMenteeRoutes registers the mentee-facing booking and review endpoints
func registerMenteeRoutes(
	group *gin.RouterGroup,
	bookingRateLimiter *middleware.RateLimiter,
	bookingHandler *handlers.BookingHandler,
	reviewHandler *handlers.ReviewHandler,
) {
	group.POST("/sessions", bookingRateLimiter.Middleware(), bookingHandler.BookSession)
	group.GET("/sessions", bookingHandler.ListSessions)
	group.POST("/sessions/:sessionId/cancel", bookingHandler.CancelSession)
	group.GET("/sessions/:sessionId/meeting-link", bookingHandler.GetMeetingLink)
	group.GET("/sessions/:sessionId/review", reviewHandler.GetSessionReview)
	group.POST("/reviews", bookingRateLimiter.Middleware(), reviewHandler.SubmitReview)
}

// registerMentorRoutes registers the mentor-facing schedule, session and profile endpoints
func registerMentorRoutes(
	group *gin.RouterGroup,
	profileRateLimiter *middleware.RateLimiter,
	availabilityHandler *handlers.AvailabilityHandler,
	mentorSessionsHandler *handlers.MentorSessionsHandler,
	profileHandler *handlers.ProfileHandler,
) {
	group.POST("/availability", availabilityHandler.SetAvailability)
	group.PUT("/availability", availabilityHandler.UpdateAvailability)
	group.GET("/availability", availabilityHandler.GetOwnAvailability)

	group.GET("/sessions/pending", mentorSessionsHandler.PendingRequests)
	group.GET("/sessions", mentorSessionsHandler.ListSessions)
	group.POST("/sessions/:sessionId/accept", mentorSessionsHandler.AcceptSession)
	group.POST("/sessions/:sessionId/complete", mentorSessionsHandler.CompleteSession)
	group.POST("/sessions/:sessionId/cancel", mentorSessionsHandler.CancelSession)
	group.POST("/sessions/:sessionId/meeting-link", mentorSessionsHandler.AttachMeetingLink)

	group.PUT("/profile", profileRateLimiter.Middleware(), profileHandler.UpdateProfile)
	group.POST("/profile/picture", profileRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024*1024), profileHandler.UploadPicture)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Mentorify API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Continuous profiling (no-op unless enabled)
	profilerStop, err := profiling.InitProfiler(
		cfg.Profiling,
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
	)
	if err != nil {
		logger.Error("Failed to initialize profiler", zap.Error(err))
	} else {
		defer profilerStop()
	}

	// Initialize metrics with service name from config
	metrics.Init(cfg.Observability.ServiceName)
	metrics.RecordInfrastructureMetrics()

	// Initialize PostgreSQL connection pool
	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// NOTE: Database migrations run separately via the migrate command

	// Redis backs OTP storage and slot booking locks
	redisClient, err := db.NewRedisClient(context.Background(), db.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Object storage for profile pictures (optional in development)
	var storageClient *storage.Client
	if cfg.Storage.AccessKeyID != "" && cfg.Storage.SecretAccessKey != "" {
		storageClient, err = storage.NewClient(
			cfg.Storage.AccessKeyID,
			cfg.Storage.SecretAccessKey,
			cfg.Storage.BucketName,
			cfg.Storage.Endpoint,
			cfg.Storage.Region,
		)
		if err != nil {
			logger.Fatal("Failed to initialize object storage client", zap.Error(err))
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	mentorRepo := repository.NewMentorRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)

	// Mentor directory cache, populated synchronously before the container is
	// marked healthy
	mentorCache := cache.NewMentorCache(mentorRepo, cfg.Cache.MentorTTLSeconds)
	if cfg.Cache.DisableMentorsCache {
		logger.Warn("Mentor cache is DISABLED - reading from database on every request")
	} else {
		if err := mentorCache.Initialize(); err != nil {
			logger.Fatal("Failed to initialize mentor cache", zap.Error(err))
		}
	}

	// Supporting infrastructure
	httpClient := httpclient.NewStandardClient()
	tokenManager := jwt.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.SessionTTLHours)
	otpStore := otp.NewStore(
		redisClient,
		time.Duration(cfg.OTP.CodeTTLMinutes)*time.Minute,
		time.Duration(cfg.OTP.VerifiedTTLMinutes)*time.Minute,
	)
	slotLocker := lock.NewRedisLock(redisClient)
	projector := schedule.NewProjector(schedule.SystemClock{})

	// Initialize services
	authService := services.NewAuthService(userRepo, otpStore, tokenManager, cfg, httpClient)
	mentorService := services.NewMentorService(mentorRepo, mentorCache, cfg)
	availabilityService := services.NewAvailabilityService(availabilityRepo)
	bookingService := services.NewBookingService(sessionRepo, availabilityRepo, projector, slotLocker, cfg, httpClient)
	reviewService := services.NewReviewService(reviewRepo, sessionRepo, mentorService, cfg, httpClient)
	profileService := services.NewProfileService(mentorRepo, storageClient, mentorService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	mentorHandler := handlers.NewMentorHandler(mentorService)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	mentorSessionsHandler := handlers.NewMentorSessionsHandler(bookingService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	profileHandler := handlers.NewProfileHandler(profileService)

	cacheReadyFunc := mentorCache.IsReady
	if cfg.Cache.DisableMentorsCache {
		cacheReadyFunc = func() bool { return true }
	}
	healthHandler := handlers.NewHealthHandler(cacheReadyFunc)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS: only allow configured origins; localhost added in development
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiters per endpoint class
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	authRateLimiter := middleware.NewRateLimiter(2, 5)        // login and OTP abuse prevention
	bookingRateLimiter := middleware.NewRateLimiter(5, 10)    // 5 req/sec, burst of 10
	profileRateLimiter := middleware.NewRateLimiter(10, 20)   // 10 req/sec, burst of 20
	for _, rl := range []*middleware.RateLimiter{generalRateLimiter, authRateLimiter, bookingRateLimiter, profileRateLimiter} {
		defer rl.Stop()
	}

	// Utility endpoints (not versioned)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.BodySizeLimitMiddleware(1 * 1024 * 1024))
	registerAuthRoutes(v1, authRateLimiter, authHandler)
	registerPublicRoutes(v1, generalRateLimiter, mentorHandler, availabilityHandler, reviewHandler, profileHandler)

	mentee := v1.Group("/mentee")
	mentee.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRole(models.RoleMentee))
	registerMenteeRoutes(mentee, bookingRateLimiter, bookingHandler, reviewHandler)

	mentor := v1.Group("/mentor")
	mentor.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRole(models.RoleMentor))
	registerMentorRoutes(mentor, profileRateLimiter, availabilityHandler, mentorSessionsHandler, profileHandler)

	// Create HTTP server
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
