// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
)

// Comment is owned entirely by the comment service. VideoID and AuthorID are
// opaque references into the primary service's store; no foreign-key join is
// possible across the service boundary.
type Comment struct {
	ID            uuid.UUID  `db:"id" json:"objectId"`
	VideoID       uuid.UUID  `db:"video_id" json:"videoId"`
	AuthorID      uuid.UUID  `db:"author_id" json:"authorId"`
	Content       string     `db:"content" json:"content"`
	ParentID      *uuid.UUID `db:"parent_id" json:"parentId"`
	LikesCount    int64      `db:"likes_count" json:"likesCount"`
	DislikesCount int64      `db:"dislikes_count" json:"dislikesCount"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
}

// UserSnapshot is the point-in-time denormalization of the author's public
// profile that the gateway attaches when forwarding a create request. The
// comment service keeps no copy of identity data; this snapshot exists only
// so realtime subscribers can render the author immediately. Stale snapshots
// are accepted and never re-synced.
type UserSnapshot struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	AvatarURL   string    `json:"avatarUrl"`
	ChannelName string    `json:"channelName"`
}

// CreateCommentRequest is the wire payload the gateway forwards to
// POST /comments.
type CreateCommentRequest struct {
	UserID   string       `json:"userId"`
	VideoID  string       `json:"videoId"`
	Content  string       `json:"content"`
	ParentID string       `json:"parentId,omitempty"`
	UserData UserSnapshot `json:"userData"`
}

// CommentActionRequest is the wire payload for POST /comments/:commentId/action.
type CommentActionRequest struct {
	UserID string `json:"userId"`
	Action string `json:"action"` // "like" | "dislike"
}

// CommentActionResponse reports the counters after a toggle.
type CommentActionResponse struct {
	Success       bool  `json:"success"`
	LikesCount    int64 `json:"likesCount"`
	DislikesCount int64 `json:"dislikesCount"`
}

// EnrichedComment is a comment with its author resolved against the primary
// service's identity store. Only the gateway produces this shape; raw
// comments on the wire carry just the opaque author id.
type EnrichedComment struct {
	Comment
	User UserSnapshot `json:"user"`
}

// HealthResponse is the body of GET /health. Only HTTP reachability feeds
// the UP/DOWN decision on the primary side; the body is informational.
type HealthResponse struct {
	Service   string    `json:"service"`
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}
