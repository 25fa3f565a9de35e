// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"errors"

	uuid "github.com/gofrs/uuid"

	"github.com/vidora/vidora/comments/models"
)

// Repository errors
var (
	ErrCommentNotFound = errors.New("comment not found")
)

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create stores a new comment
	Create(ctx context.Context, comment *models.Comment) error

	// FindByID retrieves a comment by its id
	FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)

	// FindByVideoID returns a video's top-level comments, newest first
	FindByVideoID(ctx context.Context, videoID uuid.UUID) ([]models.Comment, error)

	// FindReplies returns a comment's replies, oldest first
	FindReplies(ctx context.Context, parentID uuid.UUID) ([]models.Comment, error)

	// ApplyReactionDelta adjusts the denormalized like/dislike counters.
	// Negative deltas clamp at zero.
	ApplyReactionDelta(ctx context.Context, commentID uuid.UUID, likesDelta, dislikesDelta int) error
}
