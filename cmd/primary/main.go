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

	commentRepository "github.com/vidora/vidora/comments/repository"
	commentServices "github.com/vidora/vidora/comments/services"
	"github.com/vidora/vidora/gateway"
	gatewayHandlers "github.com/vidora/vidora/gateway/handlers"
	"github.com/vidora/vidora/internal/adapters"
	gatewayServices "github.com/vidora/vidora/gateway/services"
	"github.com/vidora/vidora/internal/cache"
	"github.com/vidora/vidora/internal/database/postgres"
	"github.com/vidora/vidora/internal/health"
	platformconfig "github.com/vidora/vidora/internal/platform/config"
	"github.com/vidora/vidora/internal/realtime"
	profileRepository "github.com/vidora/vidora/profile/repository"
	reactionRepository "github.com/vidora/vidora/reactions/repository"
	reactionServices "github.com/vidora/vidora/reactions/services"
	"github.com/vidora/vidora/shared/interfaces"
	"github.com/vidora/vidora/videos"
	videoHandlers "github.com/vidora/vidora/videos/handlers"
	videoRepository "github.com/vidora/vidora/videos/repository"
	videoServices "github.com/vidora/vidora/videos/services"
)

// commentServiceName is the key the health monitor tracks the comment
// service under.
const commentServiceName = "comment-service"

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
	videoRepo := videoRepository.NewPostgresVideoRepository(pgClient)
	subRepo := videoRepository.NewPostgresSubscriptionRepository(pgClient)
	historyRepo := videoRepository.NewPostgresHistoryRepository(pgClient)
	profileRepo := profileRepository.NewPostgresProfileRepository(pgClient)
	reactionRepo := reactionRepository.NewPostgresReactionRepository(pgClient, "video_reactions")

	// The ledger's counter store is the video repository itself
	ledger := reactionServices.NewLedger(reactionRepo, videoRepo)

	videoService := videoServices.NewVideoService(videoRepo, subRepo, historyRepo, profileRepo, ledger, cacheService)

	var (
		commentClient interfaces.CommentServiceClient
		circuit       gatewayServices.HealthChecker
		hub           *realtime.Hub
	)

	if cfg.CommentService.Mode == platformconfig.CommentModeDirect {
		// Single-binary mode: the comment service runs in-process, stats
		// propagation is a direct method call and the circuit never opens.
		commentRepo := commentRepository.NewPostgresCommentRepository(pgClient)
		commentReactions := reactionRepository.NewPostgresReactionRepository(pgClient, "comment_reactions")
		commentLedger := reactionServices.NewLedger(commentReactions, commentRepo)
		hub = realtime.NewHub()

		commentService := commentServices.NewCommentService(commentRepo, commentLedger, videoService, hub, cacheService)
		commentClient = adapters.NewDirectCallClient(commentService)
		circuit = health.AlwaysUp{}
	} else {
		// Health monitor for the comment service circuit
		monitor := health.NewMonitor(
			map[string]string{commentServiceName: cfg.CommentService.BaseURL + "/health"},
			health.Config{
				ProbeInterval: cfg.Health.ProbeInterval,
				ProbeTimeout:  cfg.Health.ProbeTimeout,
			},
		)

		monitorCtx, stopMonitor := context.WithCancel(ctx)
		defer stopMonitor()
		go monitor.Run(monitorCtx)

		commentClient = adapters.NewHTTPCommentClient(cfg.CommentService.BaseURL, cfg.CommentService.RequestTimeout)
		circuit = monitor
	}

	forwarder := gatewayServices.NewForwarderService(commentClient, circuit, videoRepo, profileRepo, commentServiceName)

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

	videos.RegisterRoutes(app, &videos.VideosHandlers{
		VideoHandler: videoHandlers.NewVideoHandler(videoService),
	}, cfg)

	gateway.RegisterRoutes(app, &gateway.GatewayHandlers{
		GatewayHandler: gatewayHandlers.NewGatewayHandler(forwarder),
	}, cfg)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "primary-service", "status": "OK"})
	})

	if hub != nil {
		realtime.RegisterRoutes(app, hub)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		log.Printf("Starting Primary Service on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Primary Service")
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
