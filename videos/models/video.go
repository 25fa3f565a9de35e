// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
)

// Video is the primary service's core entity. The four counters are
// denormalized aggregates: views and the reaction pair are maintained by the
// primary service itself, commentsCount is bumped remotely by the comment
// service through the internal stats endpoint.
type Video struct {
	ID            uuid.UUID `db:"id" json:"objectId"`
	OwnerID       uuid.UUID `db:"owner_id" json:"ownerId"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	ThumbnailURL  string    `db:"thumbnail_url" json:"thumbnailUrl"`
	VideoURL      string    `db:"video_url" json:"videoUrl"`
	Duration      int       `db:"duration" json:"duration"`
	Visibility    string    `db:"visibility" json:"visibility"`
	ViewsCount    int64     `db:"views_count" json:"viewsCount"`
	LikesCount    int64     `db:"likes_count" json:"likesCount"`
	DislikesCount int64     `db:"dislikes_count" json:"dislikesCount"`
	CommentsCount int64     `db:"comments_count" json:"commentsCount"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Visibility values
const (
	VisibilityPublic   = "public"
	VisibilityUnlisted = "unlisted"
	VisibilityPrivate  = "private"
)

// CreateVideoRequest is the payload for POST /api/videos.
type CreateVideoRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
	VideoURL     string `json:"videoUrl"`
	Duration     int    `json:"duration"`
	Visibility   string `json:"visibility"`
}

// VideoStats is the counter snapshot served by the stats endpoints.
type VideoStats struct {
	ViewsCount    int64 `json:"viewsCount"`
	LikesCount    int64 `json:"likesCount"`
	DislikesCount int64 `json:"dislikesCount"`
	CommentsCount int64 `json:"commentsCount"`
}

// VideoActionRequest carries the reaction for POST /api/videos/:videoId/action.
type VideoActionRequest struct {
	Action string `json:"action"` // "like" | "dislike"
}

// VideoActionResponse reports the outcome of a reaction toggle.
type VideoActionResponse struct {
	Success       bool   `json:"success"`
	Status        string `json:"status"`
	LikesCount    int64  `json:"likesCount"`
	DislikesCount int64  `json:"dislikesCount"`
}

// StatsUpdateRequest is the internal payload for
// POST /api/videos/:videoId/stats/comments. Only "increment" is understood.
type StatsUpdateRequest struct {
	Action string `json:"action"`
}

// WatchEntry is one row of a viewer's watch history, newest first.
type WatchEntry struct {
	Video     Video     `json:"video"`
	WatchedAt time.Time `json:"watchedAt"`
}

// ChannelStats aggregates a single owner's channel for the dashboard.
type ChannelStats struct {
	TotalVideos   int64 `json:"totalVideos"`
	TotalViews    int64 `json:"totalViews"`
	TotalLikes    int64 `json:"totalLikes"`
	TotalComments int64 `json:"totalComments"`
	Subscribers   int64 `json:"subscribers"`
}
