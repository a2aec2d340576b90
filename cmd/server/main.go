package main

import (
	"coachfit/coaching-app/internal/api"
	"coachfit/coaching-app/internal/config"
	"coachfit/coaching-app/internal/repository/mongo"
	"coachfit/coaching-app/internal/service"
	"coachfit/coaching-app/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title Coaching App API
// @version 1.0
// @description API for coaches building workout plans and clients executing them.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Coaching App Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Schema Migrations ---
	// Migrations run before the server accepts traffic; a failed step aborts
	// startup rather than serving against an inconsistent schema.
	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := mongo.RunMigrations(migrateCtx, appDB); err != nil {
		cancelMigrate()
		log.Fatalf("FATAL: Schema migration failed: %v", err)
	}
	cancelMigrate()
	log.Println("Schema migrations applied.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("workout_plans"))
		mongo.EnsureCheckInIndexes(ctx, appDB.Collection("checkins"))
		mongo.EnsureCheckInScheduleIndexes(ctx, appDB.Collection("checkin_schedules"))
		mongo.EnsureCompletionIndexes(ctx, appDB.Collection("workout_completions"))
		mongo.EnsureMeasurementIndexes(ctx, appDB.Collection("measurements"))
		mongo.EnsureMessageIndexes(ctx, appDB.Collection("messages"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	checkInRepo := mongo.NewMongoCheckInRepository(appDB)
	scheduleRepo := mongo.NewMongoCheckInScheduleRepository(appDB)
	completionRepo := mongo.NewMongoCompletionRepository(appDB)
	measurementRepo := mongo.NewMongoMeasurementRepository(appDB)
	messageRepo := mongo.NewMongoMessageRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	coachService := service.NewCoachService(userRepo, planRepo, checkInRepo, scheduleRepo)
	clientService := service.NewClientService(userRepo, planRepo, checkInRepo, completionRepo, measurementRepo, fileStorage)
	messageService := service.NewMessageService(userRepo, messageRepo)

	// --- Startup Check-In Sweep ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		created, err := coachService.GenerateDueCheckIns(ctx)
		if err != nil {
			log.Printf("ERROR: Due check-in sweep failed: %v", err)
			return
		}
		log.Printf("Due check-in sweep created %d check-in(s).", created)
	}()

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, coachService, clientService, messageService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
