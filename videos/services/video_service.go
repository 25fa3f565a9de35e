// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/gofrs/uuid"

	"github.com/vidora/vidora/internal/cache"
	"github.com/vidora/vidora/internal/pkg/log"
	profileRepository "github.com/vidora/vidora/profile/repository"
	reactionModels "github.com/vidora/vidora/reactions/models"
	reactionServices "github.com/vidora/vidora/reactions/services"
	"github.com/vidora/vidora/videos/models"
	"github.com/vidora/vidora/videos/repository"
)

// Service errors
var (
	ErrVideoNotFound     = errors.New("video not found")
	ErrChannelNotFound   = errors.New("channel not found")
	ErrInvalidAction     = errors.New("invalid action value")
	ErrSelfSubscription  = errors.New("cannot subscribe to own channel")
	ErrEmptyTitle        = errors.New("video title is required")
	ErrInvalidVisibility = errors.New("invalid visibility value")
)

const (
	trendingLimit    = 40
	trendingCacheKey = "videos:trending"
	trendingCacheTTL = time.Minute

	defaultHistoryLimit = 100
	maxHistoryLimit     = 500
)

// VideoService bundles video state, the reaction ledger bound to the
// video_reactions table, and the subscription graph.
type VideoService struct {
	videoRepo    repository.VideoRepository
	subRepo      repository.SubscriptionRepository
	historyRepo  repository.HistoryRepository
	profileRepo  profileRepository.ProfileRepository
	ledger       reactionServices.Ledger
	cacheService *cache.GenericCacheService
}

// NewVideoService creates a new video service with its dependencies
func NewVideoService(
	videoRepo repository.VideoRepository,
	subRepo repository.SubscriptionRepository,
	historyRepo repository.HistoryRepository,
	profileRepo profileRepository.ProfileRepository,
	ledger reactionServices.Ledger,
	cacheService *cache.GenericCacheService,
) *VideoService {
	return &VideoService{
		videoRepo:    videoRepo,
		subRepo:      subRepo,
		historyRepo:  historyRepo,
		profileRepo:  profileRepo,
		ledger:       ledger,
		cacheService: cacheService,
	}
}

// CreateVideo stores a new video owned by the caller
func (s *VideoService) CreateVideo(ctx context.Context, ownerID uuid.UUID, req *models.CreateVideoRequest) (*models.Video, error) {
	if req.Title == "" {
		return nil, ErrEmptyTitle
	}

	visibility := req.Visibility
	switch visibility {
	case "":
		visibility = models.VisibilityPublic
	case models.VisibilityPublic, models.VisibilityUnlisted, models.VisibilityPrivate:
	default:
		return nil, ErrInvalidVisibility
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate video id: %w", err)
	}

	video := &models.Video{
		ID:           id,
		OwnerID:      ownerID,
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		VideoURL:     req.VideoURL,
		Duration:     req.Duration,
		Visibility:   visibility,
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, err
	}

	s.invalidateTrending(ctx)

	return video, nil
}

// GetVideo returns a single video without side effects
func (s *VideoService) GetVideo(ctx context.Context, videoID uuid.UUID) (*models.Video, error) {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return video, nil
}

// WatchVideo returns the video after bumping its view counter and recording
// the watch in the viewer's history.
func (s *VideoService) WatchVideo(ctx context.Context, viewerID, videoID uuid.UUID) (*models.Video, error) {
	if err := s.videoRepo.IncrementViews(ctx, videoID, viewerID); err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	return s.GetVideo(ctx, videoID)
}

// VideoAction toggles the viewer's reaction on a video. Pressing the same
// button twice cancels the reaction; pressing the other button switches it.
// The response carries the counters as stored after the toggle.
func (s *VideoService) VideoAction(ctx context.Context, viewerID, videoID uuid.UUID, action string) (*models.VideoActionResponse, error) {
	desired, err := reactionModels.ParseStatus(action)
	if err != nil {
		return nil, ErrInvalidAction
	}

	exists, err := s.videoRepo.Exists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrVideoNotFound
	}

	status, err := s.ledger.Toggle(ctx, viewerID, videoID, desired)
	if err != nil {
		if errors.Is(err, reactionServices.ErrInvalidStatus) {
			return nil, ErrInvalidAction
		}
		return nil, err
	}

	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	return &models.VideoActionResponse{
		Success:       true,
		Status:        string(status),
		LikesCount:    video.LikesCount,
		DislikesCount: video.DislikesCount,
	}, nil
}

// RemoveVideoAction clears the viewer's reaction regardless of which one it
// was. Clearing a nonexistent reaction succeeds without touching counters.
func (s *VideoService) RemoveVideoAction(ctx context.Context, viewerID, videoID uuid.UUID) (*models.VideoActionResponse, error) {
	exists, err := s.videoRepo.Exists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrVideoNotFound
	}

	if err := s.ledger.ClearReaction(ctx, viewerID, videoID); err != nil {
		return nil, err
	}

	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	return &models.VideoActionResponse{
		Success:       true,
		Status:        string(reactionModels.StatusNone),
		LikesCount:    video.LikesCount,
		DislikesCount: video.DislikesCount,
	}, nil
}

// GetActionStatus reports the viewer's current reaction on a video
func (s *VideoService) GetActionStatus(ctx context.Context, viewerID, videoID uuid.UUID) (string, error) {
	status, err := s.ledger.GetStatus(ctx, viewerID, videoID)
	if err != nil {
		return "", err
	}
	return string(status), nil
}

// IncrementCommentCount bumps a video's denormalized comment counter. Called
// by the internal stats endpoint on behalf of the comment service.
func (s *VideoService) IncrementCommentCount(ctx context.Context, videoID uuid.UUID) error {
	err := s.videoRepo.IncrementCommentCount(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return ErrVideoNotFound
		}
		return err
	}
	return nil
}

// GetVideoStats returns the counter snapshot for a single video
func (s *VideoService) GetVideoStats(ctx context.Context, videoID uuid.UUID) (*models.VideoStats, error) {
	video, err := s.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return &models.VideoStats{
		ViewsCount:    video.ViewsCount,
		LikesCount:    video.LikesCount,
		DislikesCount: video.DislikesCount,
		CommentsCount: video.CommentsCount,
	}, nil
}

// GetTrending returns the most viewed videos, cached for a short window
func (s *VideoService) GetTrending(ctx context.Context) ([]models.Video, error) {
	if s.cacheService.IsEnabled() {
		var cached []models.Video
		if err := s.cacheService.GetCached(ctx, trendingCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	videos, err := s.videoRepo.FindTrending(ctx, trendingLimit)
	if err != nil {
		return nil, err
	}

	if s.cacheService.IsEnabled() {
		if err := s.cacheService.CacheData(ctx, trendingCacheKey, videos, trendingCacheTTL); err != nil {
			log.Warn("Failed to cache trending videos: %v", err)
		}
	}

	return videos, nil
}

// GetChannelVideos returns a channel's uploads, newest first
func (s *VideoService) GetChannelVideos(ctx context.Context, channelID uuid.UUID) ([]models.Video, error) {
	return s.videoRepo.FindByOwner(ctx, channelID)
}

// GetSubscriptionsFeed returns the latest uploads from every channel the
// viewer follows. A viewer with no subscriptions gets an empty list.
func (s *VideoService) GetSubscriptionsFeed(ctx context.Context, viewerID uuid.UUID) ([]models.Video, error) {
	channels, err := s.subRepo.ChannelsOf(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return s.videoRepo.FindByOwners(ctx, channels)
}

// GetWatchHistory returns the viewer's watch history, newest first. A
// non-positive limit falls back to the default; oversized limits clamp.
func (s *VideoService) GetWatchHistory(ctx context.Context, viewerID uuid.UUID, limit int) ([]models.WatchEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.historyRepo.FindByViewer(ctx, viewerID, limit)
}

// Subscribe records a subscription and bumps the channel's subscriber
// counter. Repeated subscriptions are idempotent.
func (s *VideoService) Subscribe(ctx context.Context, viewerID, channelID uuid.UUID) error {
	if viewerID == channelID {
		return ErrSelfSubscription
	}

	created, err := s.subRepo.Subscribe(ctx, viewerID, channelID)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	if err := s.profileRepo.IncrementSubscribers(ctx, channelID, 1); err != nil {
		if errors.Is(err, profileRepository.ErrProfileNotFound) {
			return ErrChannelNotFound
		}
		return err
	}

	return nil
}

// Unsubscribe removes a subscription and decrements the channel's subscriber
// counter. Unsubscribing from a channel the viewer never followed is a no-op.
func (s *VideoService) Unsubscribe(ctx context.Context, viewerID, channelID uuid.UUID) error {
	removed, err := s.subRepo.Unsubscribe(ctx, viewerID, channelID)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	if err := s.profileRepo.IncrementSubscribers(ctx, channelID, -1); err != nil {
		if errors.Is(err, profileRepository.ErrProfileNotFound) {
			return ErrChannelNotFound
		}
		return err
	}

	return nil
}

// IsSubscribed reports whether the viewer follows the channel
func (s *VideoService) IsSubscribed(ctx context.Context, viewerID, channelID uuid.UUID) (bool, error) {
	return s.subRepo.IsSubscribed(ctx, viewerID, channelID)
}

// GetChannelStats aggregates the dashboard numbers for an owner's channel
func (s *VideoService) GetChannelStats(ctx context.Context, ownerID uuid.UUID) (*models.ChannelStats, error) {
	stats, err := s.videoRepo.OwnerTotals(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, profileRepository.ErrProfileNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}
	stats.Subscribers = profile.SubscribersCount

	return stats, nil
}

// GetPublicChannelStats aggregates the numbers shown on a channel's public
// page. Only public videos count; the owner dashboard uses GetChannelStats.
func (s *VideoService) GetPublicChannelStats(ctx context.Context, channelID uuid.UUID) (*models.ChannelStats, error) {
	stats, err := s.videoRepo.ChannelTotals(ctx, channelID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.FindByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, profileRepository.ErrProfileNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}
	stats.Subscribers = profile.SubscribersCount

	return stats, nil
}

func (s *VideoService) invalidateTrending(ctx context.Context) {
	if !s.cacheService.IsEnabled() {
		return
	}
	if err := s.cacheService.InvalidateKey(ctx, trendingCacheKey); err != nil {
		log.Warn("Failed to invalidate trending cache: %v", err)
	}
}
