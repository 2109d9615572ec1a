package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"jitutong/backend/internal/api/handler"
	"jitutong/backend/internal/audit"
	"jitutong/backend/internal/auth"
	"jitutong/backend/internal/config"
	"jitutong/backend/internal/models"
	"jitutong/backend/internal/moderation"
	"jitutong/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Category{},
		&models.Tag{},
		&models.Location{},
		&models.LocationView{},
		&models.Review{},
		&models.ReviewLike{},
		&models.ReviewReply{},
		&models.ReviewReport{},
		&models.ReviewReplyReport{},
		&models.WikiSuggestion{},
		&models.Message{},
		&models.Favorite{},
		&models.History{},
		&models.FavoriteRoute{},
		&models.UserLog{},
		&models.UserLoginLog{},
		&models.SearchLog{},
		&models.SystemSetting{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Jitutong Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, rdb := setupDependencies(cfg)
	store := storage.NewService(db)

	tokens := auth.NewTokenService(cfg.SecretKey)
	guard := auth.NewGuard(tokens, store)
	mod := moderation.NewService(store)
	auditor := audit.NewLogger(store)

	r := gin.Default()
	h := handler.NewHandler(store, tokens, mod, auditor, rdb, cfg)
	h.RegisterRoutes(r, guard)

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("Listening on %s", cfg.ListenAddr)
	log.Fatal(server.ListenAndServe())
}
