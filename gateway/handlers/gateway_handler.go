// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"

	"github.com/vidora/vidora/gateway/errors"
	"github.com/vidora/vidora/gateway/services"
	"github.com/vidora/vidora/internal/types"
)

// GatewayHandler fronts the comment service for authenticated clients
type GatewayHandler struct {
	forwarder *services.ForwarderService
}

// NewGatewayHandler creates a new GatewayHandler with injected dependencies
func NewGatewayHandler(forwarder *services.ForwarderService) *GatewayHandler {
	return &GatewayHandler{forwarder: forwarder}
}

// createCommentRequest is what clients send; identity comes from the token,
// never from the body.
type createCommentRequest struct {
	VideoID  string `json:"videoId"`
	Content  string `json:"content"`
	ParentID string `json:"parentId,omitempty"`
}

type commentActionRequest struct {
	Action string `json:"action"`
}

// CreateComment forwards a comment write to the comment service
func (h *GatewayHandler) CreateComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleValidationError(c, "Invalid request body")
	}

	if strings.TrimSpace(req.Content) == "" {
		return errors.HandleValidationError(c, "content is required")
	}

	videoID, err := uuid.FromString(req.VideoID)
	if err != nil {
		return errors.HandleUUIDError(c, "videoId")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	comment, err := h.forwarder.CreateComment(c.Context(), &user, videoID, req.Content, req.ParentID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(comment)
}

// GetVideoComments returns a video's comments with authors resolved
func (h *GatewayHandler) GetVideoComments(c *fiber.Ctx) error {
	videoID, err := uuid.FromString(c.Params("videoId"))
	if err != nil {
		return errors.HandleUUIDError(c, "videoId")
	}

	comments, err := h.forwarder.ListComments(c.Context(), videoID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(comments)
}

// CommentAction forwards a reaction toggle to the comment service
func (h *GatewayHandler) CommentAction(c *fiber.Ctx) error {
	commentID, err := uuid.FromString(c.Params("commentId"))
	if err != nil {
		return errors.HandleUUIDError(c, "commentId")
	}

	var req commentActionRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleValidationError(c, "Invalid request body")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	result, err := h.forwarder.CommentAction(c.Context(), &user, commentID, req.Action)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(result)
}
