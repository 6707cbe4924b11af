package main

import (
	"log"

	"github.com/redis/go-redis/v9"
	"henryedu.com/henryplatform/internal/bootstrap"
	"henryedu.com/henryplatform/internal/config"
	"henryedu.com/henryplatform/internal/server"
	"henryedu.com/henryplatform/pkg/database"
)

func main() {
	cfg := config.Load()

	db := database.Connect()

	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	if err := bootstrap.SeedDemoUsers(db); err != nil {
		log.Fatalf("failed to seed demo users: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, counters and rate limiting run without buffering")
	}

	srv := server.NewServer(cfg, db, redisClient)

	log.Printf("Starting server on port %s (%s)", cfg.Port, cfg.AppEnv)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
