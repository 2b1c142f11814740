package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formpulse/internal/cache"
	"formpulse/internal/config"
	"formpulse/internal/repository"
	"formpulse/internal/service"
	"formpulse/internal/transport/rest"
	"formpulse/internal/transport/ws"
)

// @title Formpulse Questionnaire API
// @version 1.0
// @description Questionnaire authoring and response-collection service
// @host localhost:8080
// @BasePath /v1
func main() {
	ctx := context.Background()
	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal("Failed to create upload dir:", err)
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	questionnaireRepo := repository.NewQuestionnaireRepo(db)
	responseRepo := repository.NewResponseRepo(db)

	// Initialize caches
	draftCache := cache.NewDraftCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(cfg.EditorUsername, cfg.EditorPassword, cfg.JWTSecret)
	questionnaireSvc := service.NewQuestionnaireService(questionnaireRepo, responseRepo)
	responseSvc := service.NewResponseService(questionnaireRepo, responseRepo, draftCache)
	statisticsSvc := service.NewStatisticsService(questionnaireRepo, responseRepo)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	responseSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:          authSvc,
		QuestionnaireService: questionnaireSvc,
		ResponseService:      responseSvc,
		StatisticsService:    statisticsSvc,
		WSHub:                wsHub,
		UploadDir:            cfg.UploadDir,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/sessions")
		log.Println("  POST/GET /v1/questionnaires")
		log.Println("  GET/PUT/DELETE /v1/questionnaires/{id}")
		log.Println("  POST/GET /v1/questionnaires/{id}/progress")
		log.Println("  POST /v1/questionnaires/{id}/submit")
		log.Println("  GET  /v1/questionnaires/{id}/statistics")
		log.Println("  POST /v1/uploads")
		log.Println("  WS   /v1/ws/questionnaires/{id}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
