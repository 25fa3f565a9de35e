// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gateway

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vidora/vidora/gateway/handlers"
	"github.com/vidora/vidora/internal/middleware/authjwt"
	platformconfig "github.com/vidora/vidora/internal/platform/config"
)

// GatewayHandlers holds all the handlers this router needs.
type GatewayHandlers struct {
	GatewayHandler *handlers.GatewayHandler
}

// RegisterRoutes is the single entry point for setting up the comment
// gateway routes. Reads are public; writes require a valid token since the
// forwarded identity snapshot comes from its claims.
func RegisterRoutes(app *fiber.App, h *GatewayHandlers, cfg *platformconfig.Config) {
	auth := authjwt.New(authjwt.Config{Secret: cfg.JWT.Secret})

	group := app.Group("/api/comments")
	group.Get("/:videoId", h.GatewayHandler.GetVideoComments)
	group.Post("/", auth, h.GatewayHandler.CreateComment)
	group.Post("/:commentId/action", auth, h.GatewayHandler.CommentAction)
}
