// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"errors"

	uuid "github.com/gofrs/uuid"

	"github.com/vidora/vidora/videos/models"
)

// Repository errors
var (
	ErrVideoNotFound = errors.New("video not found")
)

// VideoRepository defines the interface for video data access
type VideoRepository interface {
	// Create stores a new video
	Create(ctx context.Context, video *models.Video) error

	// FindByID retrieves a video by its id
	FindByID(ctx context.Context, id uuid.UUID) (*models.Video, error)

	// Exists reports whether a video row exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// FindTrending returns up to limit videos ordered by view count
	FindTrending(ctx context.Context, limit int) ([]models.Video, error)

	// FindByOwner returns a channel's videos, newest first
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Video, error)

	// FindByOwners returns videos from any of the given owners, newest first
	FindByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]models.Video, error)

	// ApplyReactionDelta adjusts the denormalized like/dislike counters.
	// Negative deltas clamp at zero.
	ApplyReactionDelta(ctx context.Context, videoID uuid.UUID, likesDelta, dislikesDelta int) error

	// IncrementCommentCount bumps the denormalized comment counter by one
	IncrementCommentCount(ctx context.Context, videoID uuid.UUID) error

	// IncrementViews bumps the view counter and records the watch
	IncrementViews(ctx context.Context, videoID, viewerID uuid.UUID) error

	// OwnerTotals aggregates counters across all of an owner's videos
	OwnerTotals(ctx context.Context, ownerID uuid.UUID) (*models.ChannelStats, error)

	// ChannelTotals aggregates counters across a channel's public videos only
	ChannelTotals(ctx context.Context, channelID uuid.UUID) (*models.ChannelStats, error)
}

// SubscriptionRepository tracks viewer-to-channel subscriptions
type SubscriptionRepository interface {
	// Subscribe records a subscription; idempotent
	Subscribe(ctx context.Context, viewerID, channelID uuid.UUID) (bool, error)

	// Unsubscribe removes a subscription; idempotent
	Unsubscribe(ctx context.Context, viewerID, channelID uuid.UUID) (bool, error)

	// IsSubscribed reports whether the viewer follows the channel
	IsSubscribed(ctx context.Context, viewerID, channelID uuid.UUID) (bool, error)

	// ChannelsOf returns every channel the viewer follows
	ChannelsOf(ctx context.Context, viewerID uuid.UUID) ([]uuid.UUID, error)
}

// HistoryRepository reads a viewer's watch history
type HistoryRepository interface {
	// FindByViewer returns the viewer's watch entries, newest first
	FindByViewer(ctx context.Context, viewerID uuid.UUID, limit int) ([]models.WatchEntry, error)
}
