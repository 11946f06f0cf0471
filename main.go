package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutorlink/config"
	"tutorlink/cron"
	"tutorlink/database"
	tuitionRepoPkg "tutorlink/database/repository/tuition"
	userRepoPkg "tutorlink/database/repository/user"
	"tutorlink/handlers"
	"tutorlink/routes"
	"tutorlink/services/tuition"
	"tutorlink/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.Connect(ctx, config.AppConfig.DatabaseURL, config.AppConfig.DatabaseName)
	cancel()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to connect to MongoDB: %v", err)
	}

	cache, err := utils.NewCacheClient()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to connect to Redis: %v", err)
	}

	authClient, err := utils.NewFirebaseAuthClient(context.Background())
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize Firebase auth: %v", err)
	}

	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	tuitionRepo := tuitionRepoPkg.NewMongoTuitionRepo(db)
	userRepo := userRepoPkg.NewMongoUserRepo(db)

	// services.
	tuitionService := &tuition.DefaultTuitionService{
		Repo:          tuitionRepo,
		UserRepo:      userRepo,
		Gateway:       &tuition.StripeCheckoutGateway{},
		WebhookSecret: config.AppConfig.StripeWebhookSecret,
		Cache:         cache,
		Logger:        logger,
	}

	// handlers.
	tuitionHandler := handlers.NewTuitionHandler(tuitionService)
	teacherHandler := handlers.NewTeacherHandler(userRepo)
	adminHandler := handlers.NewAdminHandler(tuitionService, tuitionRepo)
	handlerBundle := handlers.NewHandlerBundle(tuitionHandler, teacherHandler, adminHandler)

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle, authClient, userRepo, config.AppConfig.FrontendURL)

	// Background sweep for stale open tuitions.
	cron.InitExpiryWorker(tuitionService)

	// Start the HTTP server.
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := db.Close(shutdownCtx); err != nil {
		logger.Sugar().Warnf("main: error closing MongoDB connection: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
