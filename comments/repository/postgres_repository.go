// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vidora/vidora/comments/models"
	"github.com/vidora/vidora/internal/database/postgres"
)

// postgresCommentRepository implements CommentRepository using raw SQL queries
type postgresCommentRepository struct {
	client *postgres.Client
}

// NewPostgresCommentRepository creates a new PostgreSQL comment repository
func NewPostgresCommentRepository(client *postgres.Client) CommentRepository {
	return &postgresCommentRepository{client: client}
}

const commentColumns = `
	id, video_id, author_id, content, parent_id,
	likes_count, dislikes_count, created_at
`

// Create stores a new comment
func (r *postgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO comments (
			id, video_id, author_id, content, parent_id,
			likes_count, dislikes_count, created_at
		) VALUES (
			:id, :video_id, :author_id, :content, :parent_id,
			:likes_count, :dislikes_count, :created_at
		)
	`

	_, err := sqlx.NamedExecContext(ctx, r.client.DB(), query, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// FindByID retrieves a comment by its id
func (r *postgresCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM comments WHERE id = $1`, commentColumns)

	var comment models.Comment
	err := sqlx.GetContext(ctx, r.client.DB(), &comment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	return &comment, nil
}

// FindByVideoID returns a video's top-level comments, newest first
func (r *postgresCommentRepository) FindByVideoID(ctx context.Context, videoID uuid.UUID) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM comments
		WHERE video_id = $1 AND parent_id IS NULL
		ORDER BY created_at DESC
	`, commentColumns)

	comments := []models.Comment{}
	err := sqlx.SelectContext(ctx, r.client.DB(), &comments, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to find comments by video: %w", err)
	}

	return comments, nil
}

// FindReplies returns a comment's replies, oldest first
func (r *postgresCommentRepository) FindReplies(ctx context.Context, parentID uuid.UUID) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM comments
		WHERE parent_id = $1
		ORDER BY created_at ASC
	`, commentColumns)

	comments := []models.Comment{}
	err := sqlx.SelectContext(ctx, r.client.DB(), &comments, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find replies: %w", err)
	}

	return comments, nil
}

// ApplyReactionDelta adjusts the denormalized like/dislike counters.
// GREATEST keeps both counters at zero or above even if a decrement races
// past the ledger's bookkeeping.
func (r *postgresCommentRepository) ApplyReactionDelta(ctx context.Context, commentID uuid.UUID, likesDelta, dislikesDelta int) error {
	query := `
		UPDATE comments
		SET likes_count = GREATEST(0, likes_count + $1),
		    dislikes_count = GREATEST(0, dislikes_count + $2)
		WHERE id = $3
	`

	result, err := r.client.DB().ExecContext(ctx, query, likesDelta, dislikesDelta, commentID)
	if err != nil {
		return fmt.Errorf("failed to apply reaction delta: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return ErrCommentNotFound
	}

	return nil
}
