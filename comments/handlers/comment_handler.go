// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"

	"github.com/vidora/vidora/comments/errors"
	"github.com/vidora/vidora/comments/models"
	"github.com/vidora/vidora/comments/services"
	"github.com/vidora/vidora/internal/database/postgres"
)

// CommentHandler handles all comment-related HTTP requests
type CommentHandler struct {
	commentService *services.CommentService
	dbClient       *postgres.Client
}

// NewCommentHandler creates a new CommentHandler with injected dependencies
func NewCommentHandler(commentService *services.CommentService, dbClient *postgres.Client) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		dbClient:       dbClient,
	}
}

// Health reports service liveness. The primary service's monitor probes this
// endpoint; any 2xx counts as UP regardless of the body.
func (h *CommentHandler) Health(c *fiber.Ctx) error {
	database := "Connected"
	if h.dbClient == nil || h.dbClient.HealthCheck(c.Context()) != nil {
		database = "Disconnected"
	}

	return c.Status(http.StatusOK).JSON(models.HealthResponse{
		Service:   "comment-service",
		Status:    "UP",
		Database:  database,
		Timestamp: time.Now().UTC(),
	})
}

// CreateComment stores a comment forwarded by the gateway
func (h *CommentHandler) CreateComment(c *fiber.Ctx) error {
	var req models.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	if req.UserID == "" {
		return errors.HandleValidationError(c, "userId is required")
	}
	if req.VideoID == "" {
		return errors.HandleValidationError(c, "videoId is required")
	}

	comment, err := h.commentService.CreateComment(c.Context(), &req)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(comment)
}

// GetVideoComments returns a video's top-level comments, newest first
func (h *CommentHandler) GetVideoComments(c *fiber.Ctx) error {
	videoID, err := uuid.FromString(c.Params("videoId"))
	if err != nil {
		return errors.HandleUUIDError(c, "videoId")
	}

	comments, err := h.commentService.GetVideoComments(c.Context(), videoID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(comments)
}

// GetCommentReactions reports the caller's reaction per comment on a video.
// The caller's id arrives as a query parameter; the gateway authenticated it.
func (h *CommentHandler) GetCommentReactions(c *fiber.Ctx) error {
	videoID, err := uuid.FromString(c.Params("videoId"))
	if err != nil {
		return errors.HandleUUIDError(c, "videoId")
	}

	userID, err := uuid.FromString(c.Query("userId"))
	if err != nil {
		return errors.HandleUUIDError(c, "userId")
	}

	statuses, err := h.commentService.GetCommentReactions(c.Context(), userID, videoID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(statuses)
}

// GetReplies returns a comment's replies, oldest first
func (h *CommentHandler) GetReplies(c *fiber.Ctx) error {
	commentID, err := uuid.FromString(c.Params("commentId"))
	if err != nil {
		return errors.HandleUUIDError(c, "commentId")
	}

	replies, err := h.commentService.GetReplies(c.Context(), commentID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(replies)
}

// CommentAction toggles a reaction on a comment
func (h *CommentHandler) CommentAction(c *fiber.Ctx) error {
	commentID, err := uuid.FromString(c.Params("commentId"))
	if err != nil {
		return errors.HandleUUIDError(c, "commentId")
	}

	var req models.CommentActionRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}
	if req.UserID == "" {
		return errors.HandleValidationError(c, "userId is required")
	}

	result, err := h.commentService.CommentAction(c.Context(), commentID, &req)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(result)
}
