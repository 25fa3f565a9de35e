// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package videos

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vidora/vidora/internal/middleware/authjwt"
	platformconfig "github.com/vidora/vidora/internal/platform/config"
	"github.com/vidora/vidora/videos/handlers"
)

// VideosHandlers holds all the handlers this router needs.
type VideosHandlers struct {
	VideoHandler *handlers.VideoHandler
}

// RegisterRoutes is the single entry point for setting up video routes.
// The stats ingest route stays outside the auth middleware: the comment
// service calls it service-to-service without a user token.
func RegisterRoutes(app *fiber.App, h *VideosHandlers, cfg *platformconfig.Config) {
	auth := authjwt.New(authjwt.Config{Secret: cfg.JWT.Secret})

	group := app.Group("/api/videos")

	// Internal, unauthenticated
	group.Post("/:videoId/stats/comments", h.VideoHandler.UpdateCommentStats)

	// Public reads
	group.Get("/trending", h.VideoHandler.GetTrending)
	group.Get("/channel/:channelId", h.VideoHandler.GetChannelVideos)

	// Authenticated
	group.Post("/", auth, h.VideoHandler.CreateVideo)
	group.Get("/subscriptions", auth, h.VideoHandler.GetSubscriptionsFeed)
	group.Get("/history", auth, h.VideoHandler.GetWatchHistory)
	group.Post("/channel/:channelId/subscribe", auth, h.VideoHandler.Subscribe)
	group.Delete("/channel/:channelId/subscribe", auth, h.VideoHandler.Unsubscribe)
	group.Get("/channel/:channelId/subscription", auth, h.VideoHandler.GetSubscriptionStatus)
	group.Get("/:videoId", auth, h.VideoHandler.WatchVideo)
	group.Post("/:videoId/action", auth, h.VideoHandler.VideoAction)
	group.Delete("/:videoId/action", auth, h.VideoHandler.RemoveVideoAction)
	group.Get("/:videoId/status", auth, h.VideoHandler.GetActionStatus)

	stats := app.Group("/api/stats")
	stats.Get("/video/:videoId", h.VideoHandler.GetVideoStats)
	stats.Get("/channel/:channelId", h.VideoHandler.GetChannelStats)
	stats.Get("/dashboard", auth, h.VideoHandler.GetDashboardStats)
}
