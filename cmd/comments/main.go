// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/vidora/vidora/comments"
	commentHandlers "github.com/vidora/vidora/comments/handlers"
	"github.com/vidora/vidora/internal/propagator"
	commentRepository "github.com/vidora/vidora/comments/repository"
	commentServices "github.com/vidora/vidora/comments/services"
	"github.com/vidora/vidora/internal/cache"
	"github.com/vidora/vidora/internal/database/postgres"
	platformconfig "github.com/vidora/vidora/internal/platform/config"
	"github.com/vidora/vidora/internal/realtime"
	reactionRepository "github.com/vidora/vidora/reactions/repository"
	reactionServices "github.com/vidora/vidora/reactions/services"
)

func main() {
	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load platform config: %v", err)
	}

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database.Postgres)
	if err != nil {
		log.Fatalf("Failed to create postgres client: %v", err)
	}
	defer pgClient.Close()

	cacheService := buildCacheService(cfg)
	defer cacheService.Close()

	// Repositories
	commentRepo := commentRepository.NewPostgresCommentRepository(pgClient)
	reactionRepo := reactionRepository.NewPostgresReactionRepository(pgClient, "comment_reactions")

	// The ledger's counter store is the comment repository itself
	ledger := reactionServices.NewLedger(reactionRepo, commentRepo)

	hub := realtime.NewHub()

	statsUpdater := propagator.NewHTTPStatsUpdater(cfg.PrimaryService.BaseURL, cfg.PrimaryService.RequestTimeout)

	commentService := commentServices.NewCommentService(commentRepo, ledger, statsUpdater, hub, cacheService)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if len(c.Response().Body()) > 0 {
				return nil
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.WebDomain,
		AllowCredentials: cfg.Server.WebDomain != "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, OPTIONS",
	}))

	comments.RegisterRoutes(app, &comments.CommentsHandlers{
		CommentHandler: commentHandlers.NewCommentHandler(commentService, pgClient),
	})

	realtime.RegisterRoutes(app, hub)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		log.Printf("Starting Comment Service on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Comment Service")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// buildCacheService wires Redis when caching is enabled, otherwise a
// disabled service that answers every lookup with a miss.
func buildCacheService(cfg *platformconfig.Config) *cache.GenericCacheService {
	cacheConfig := &cache.CacheConfig{
		Enabled: cfg.Cache.Enabled,
		TTL:     cfg.Cache.TTL,
		Prefix:  cfg.Cache.Prefix,
		Redis: cache.RedisConfig{
			Address:  cfg.Cache.Redis.Address,
			Password: cfg.Cache.Redis.Password,
			Database: cfg.Cache.Redis.Database,
			PoolSize: cfg.Cache.Redis.PoolSize,
		},
	}

	if !cacheConfig.Enabled {
		return cache.NewGenericCacheService(nil, cacheConfig)
	}

	redisCache, err := cache.NewRedisCache(cacheConfig)
	if err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
		cacheConfig.Enabled = false
		return cache.NewGenericCacheService(nil, cacheConfig)
	}

	return cache.NewGenericCacheService(redisCache, cacheConfig)
}
