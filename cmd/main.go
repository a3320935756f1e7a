package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"denuncias/backend/internal/api/handler"
	"denuncias/backend/internal/complaint"
	"denuncias/backend/internal/config"
	"denuncias/backend/internal/localization"
	"denuncias/backend/internal/storage"
	"denuncias/backend/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	// 1. Database (DATABASE_URL or the local SQLite file)
	target, err := cfg.ResolveDatabase()
	if err != nil {
		log.Fatalf("Invalid database configuration: %v", err)
	}

	db, err := storage.Open(target)
	if err != nil {
		log.Fatalf("Failed to connect %s: %v", target.Driver, err)
	}

	// 2. Redis (optional, only for complaint events)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rdb, err := storage.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// The schema is managed by `admin upgrade`; nothing is migrated here.
	if rdb != nil {
		log.Printf("Database (%s) and Redis connections established.", target.Driver)
	} else {
		log.Printf("Database (%s) connection established, Redis disabled.", target.Driver)
	}
	return db, rdb
}

func main() {
	log.Println("Starting Denuncias Backend...")

	cfg := config.Load()
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// 1. Dependencies
	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	complaints := complaint.NewService(s)

	messages, err := localization.NewLocalizer(web.Locales(), web.LocalesDir)
	if err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	// 2. Gin and routing
	r, err := handler.NewRouter(handler.NewHandler(complaints, messages))
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("Listening on %s", cfg.HTTPAddr)
	log.Fatal(server.ListenAndServe())
}
