// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package comments

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vidora/vidora/comments/handlers"
)

// CommentsHandlers holds all the handlers this router needs.
type CommentsHandlers struct {
	CommentHandler *handlers.CommentHandler
}

// RegisterRoutes is the single entry point for setting up comment routes.
// No auth middleware here: the gateway authenticates users and forwards
// requests with the identity already resolved into the payload. The comment
// service trusts its private network edge.
func RegisterRoutes(app *fiber.App, h *CommentsHandlers) {
	app.Get("/health", h.CommentHandler.Health)

	group := app.Group("/comments")
	group.Post("/", h.CommentHandler.CreateComment)
	group.Get("/:videoId", h.CommentHandler.GetVideoComments)
	group.Get("/:videoId/reactions", h.CommentHandler.GetCommentReactions)
	group.Get("/:commentId/replies", h.CommentHandler.GetReplies)
	group.Post("/:commentId/action", h.CommentHandler.CommentAction)
}
