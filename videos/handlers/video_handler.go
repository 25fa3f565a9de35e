// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"
	"github.com/gorilla/schema"

	"github.com/vidora/vidora/internal/types"
	"github.com/vidora/vidora/videos/errors"
	"github.com/vidora/vidora/videos/models"
	"github.com/vidora/vidora/videos/services"
)

// VideoHandler handles all video-related HTTP requests
type VideoHandler struct {
	videoService *services.VideoService
}

// NewVideoHandler creates a new VideoHandler with injected dependencies
func NewVideoHandler(videoService *services.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// CreateVideo handles video creation
func (h *VideoHandler) CreateVideo(c *fiber.Ctx) error {
	var req models.CreateVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	video, err := h.videoService.CreateVideo(c.Context(), user.UserID, &req)
	if err != nil {
		if err == services.ErrEmptyTitle {
			return errors.HandleValidationError(c, "Video title is required")
		}
		if err == services.ErrInvalidVisibility {
			return errors.HandleValidationError(c, "Visibility must be public, unlisted or private")
		}
		return errors.HandleServiceError(c, mapServiceError(err))
	}

	return c.Status(http.StatusCreated).JSON(video)
}

// WatchVideo returns a video, counting the view and recording it in the
// caller's watch history.
func (h *VideoHandler) WatchVideo(c *fiber.Ctx) error {
	videoID, err := uuid.FromString(c.Params("videoId"))
	if err != nil {
		return errors.HandleUUIDError(c, "videoId")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	video, err := h.videoService.WatchVideo(c.Context(), user.UserID, videoID)
	if err != nil {
		return errors.HandleServiceError(c, mapServiceError(err))
	}

	return c.Status(http.StatusOK).JSON(video)
}

// VideoAction toggles the caller's like/dislike on a video
func (h *VideoHandler) VideoAction(c *fiber.Ctx) error {
	videoID, err := uuid.FromString(c.Params("videoId"))
	if err != nil {
		return errors.HandleUUIDError(c, "videoId")
	}

	var req models.VideoActionRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	result, err := h.videoService.VideoAction(c.Context(), user.UserID, videoID, req.Action)
	if err != nil {
		return errors.HandleServiceError(c, mapServiceError(err))
	}

	return c.Status(http.StatusOK).JSON(result)
}

// RemoveVideoAction clears the caller's reaction on a video
func (h *VideoHandler) RemoveVideoAction(c *fiber.Ctx) error {
	videoID, err := uuid.FromString(c.Params("videoId"))
	if err != nil {
		return errors.HandleUUIDError(c, "videoId")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	result, err := h.videoService.RemoveVideoAction(c.Context(), user.UserID, videoID)
	if err != nil {
		return errors.HandleServiceError(c, mapServiceError(err))
	}

	return c.Status(http.StatusOK).JSON(result)
}

// GetActionStatus reports the caller's current reaction on a video
func (h *VideoHandler) GetActionStatus(c *fiber.Ctx) error {
	videoID, err := uuid.FromString(c.Params("videoId"))
	if err != nil {
		return errors.HandleUUIDError(c, "videoId")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	status, err := h.videoService.GetActionStatus(c.Context(), user.UserID, videoID)
	if err != nil {
		return errors.HandleServiceError(c, mapServiceError(err))
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"status": status})
}

// UpdateCommentStats bumps the denormalized comment counter. This is the
// internal endpoint the comment service fires after storing a comment; only
// the "increment" action is understood.
func (h *VideoHandler) UpdateCommentStats(c *fiber.Ctx) error {
	videoID, err := uuid.FromString(c.Params("videoId"))
	if err != nil {
		return errors.HandleUUIDError(c, "videoId")
	}

	var req models.StatsUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}
	if req.Action != "increment" {
		return errors.HandleInvalidRequestError(c, "Unsupported stats action")
	}

	if err := h.videoService.IncrementCommentCount(c.Context(), videoID); err != nil {
		return errors.HandleServiceError(c, mapServiceError(err))
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

// GetVideoStats returns the counter snapshot for a video
func (h *VideoHandler) GetVideoStats(c *fiber.Ctx) error {
	videoID, err := uuid.FromString(c.Params("videoId"))
	if err != nil {
		return errors.HandleUUIDError(c, "videoId")
	}

	stats, err := h.videoService.GetVideoStats(c.Context(), videoID)
	if err != nil {
		return errors.HandleServiceError(c, mapServiceError(err))
	}

	return c.Status(http.StatusOK).JSON(stats)
}

// GetTrending returns the most viewed videos
func (h *VideoHandler) GetTrending(c *fiber.Ctx) error {
	videos, err := h.videoService.GetTrending(c.Context())
	if err != nil {
		return errors.HandleServiceError(c, mapServiceError(err))
	}

	return c.Status(http.StatusOK).JSON(videos)
}

// GetChannelVideos returns a channel's uploads
func (h *VideoHandler) GetChannelVideos(c *fiber.Ctx) error {
	channelID, err := uuid.FromString(c.Params("channelId"))
	if err != nil {
		return errors.HandleUUIDError(c, "channelId")
	}

	videos, err := h.videoService.GetChannelVideos(c.Context(), channelID)
	if err != nil {
		return errors.HandleServiceError(c, mapServiceError(err))
	}

	return c.Status(http.StatusOK).JSON(videos)
}

// GetSubscriptionsFeed returns uploads from the caller's subscribed channels
func (h *VideoHandler) GetSubscriptionsFeed(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	videos, err := h.videoService.GetSubscriptionsFeed(c.Context(), user.UserID)
	if err != nil {
		return errors.HandleServiceError(c, mapServiceError(err))
	}

	return c.Status(http.StatusOK).JSON(videos)
}

// historyQuery captures the supported watch history query parameters
type historyQuery struct {
	Limit int `schema:"limit"`
}

// GetWatchHistory returns the caller's watch history
func (h *VideoHandler) GetWatchHistory(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	var query historyQuery
	if err := decodeQuery(c, &query); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid query parameters")
	}

	entries, err := h.videoService.GetWatchHistory(c.Context(), user.UserID, query.Limit)
	if err != nil {
		return errors.HandleServiceError(c, mapServiceError(err))
	}

	return c.Status(http.StatusOK).JSON(entries)
}

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// decodeQuery binds URL query parameters onto a tagged struct
func decodeQuery(c *fiber.Ctx, out interface{}) error {
	values := url.Values{}
	for key, value := range c.Queries() {
		values.Set(key, value)
	}
	return queryDecoder.Decode(out, values)
}

// Subscribe follows a channel
func (h *VideoHandler) Subscribe(c *fiber.Ctx) error {
	channelID, err := uuid.FromString(c.Params("channelId"))
	if err != nil {
		return errors.HandleUUIDError(c, "channelId")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	if err := h.videoService.Subscribe(c.Context(), user.UserID, channelID); err != nil {
		return errors.HandleServiceError(c, mapServiceError(err))
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

// Unsubscribe unfollows a channel
func (h *VideoHandler) Unsubscribe(c *fiber.Ctx) error {
	channelID, err := uuid.FromString(c.Params("channelId"))
	if err != nil {
		return errors.HandleUUIDError(c, "channelId")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	if err := h.videoService.Unsubscribe(c.Context(), user.UserID, channelID); err != nil {
		return errors.HandleServiceError(c, mapServiceError(err))
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

// GetSubscriptionStatus reports whether the caller follows a channel
func (h *VideoHandler) GetSubscriptionStatus(c *fiber.Ctx) error {
	channelID, err := uuid.FromString(c.Params("channelId"))
	if err != nil {
		return errors.HandleUUIDError(c, "channelId")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	subscribed, err := h.videoService.IsSubscribed(c.Context(), user.UserID, channelID)
	if err != nil {
		return errors.HandleServiceError(c, mapServiceError(err))
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"subscribed": subscribed})
}

// GetDashboardStats aggregates the caller's channel numbers
func (h *VideoHandler) GetDashboardStats(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	stats, err := h.videoService.GetChannelStats(c.Context(), user.UserID)
	if err != nil {
		return errors.HandleServiceError(c, mapServiceError(err))
	}

	return c.Status(http.StatusOK).JSON(stats)
}

// GetChannelStats aggregates a named channel's public numbers
func (h *VideoHandler) GetChannelStats(c *fiber.Ctx) error {
	channelID, err := uuid.FromString(c.Params("channelId"))
	if err != nil {
		return errors.HandleUUIDError(c, "channelId")
	}

	stats, err := h.videoService.GetPublicChannelStats(c.Context(), channelID)
	if err != nil {
		return errors.HandleServiceError(c, mapServiceError(err))
	}

	return c.Status(http.StatusOK).JSON(stats)
}

// mapServiceError translates service sentinels into the handler error set
func mapServiceError(err error) error {
	switch err {
	case services.ErrVideoNotFound:
		return errors.ErrVideoNotFound
	case services.ErrChannelNotFound:
		return errors.ErrChannelNotFound
	case services.ErrInvalidAction:
		return errors.ErrInvalidAction
	case services.ErrSelfSubscription:
		return errors.ErrSelfSubscription
	default:
		return err
	}
}
