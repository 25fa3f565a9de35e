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
	"github.com/lib/pq"

	"github.com/vidora/vidora/internal/database/postgres"
	"github.com/vidora/vidora/videos/models"
)

// postgresVideoRepository implements VideoRepository using raw SQL queries
type postgresVideoRepository struct {
	client *postgres.Client
}

// NewPostgresVideoRepository creates a new PostgreSQL video repository
func NewPostgresVideoRepository(client *postgres.Client) VideoRepository {
	return &postgresVideoRepository{client: client}
}

const videoColumns = `
	id, owner_id, title, description, thumbnail_url, video_url, duration,
	visibility, views_count, likes_count, dislikes_count, comments_count,
	created_at, updated_at
`

// Create stores a new video
func (r *postgresVideoRepository) Create(ctx context.Context, video *models.Video) error {
	now := time.Now().UTC()
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}
	video.UpdatedAt = now

	query := `
		INSERT INTO videos (
			id, owner_id, title, description, thumbnail_url, video_url, duration,
			visibility, views_count, likes_count, dislikes_count, comments_count,
			created_at, updated_at
		) VALUES (
			:id, :owner_id, :title, :description, :thumbnail_url, :video_url, :duration,
			:visibility, :views_count, :likes_count, :dislikes_count, :comments_count,
			:created_at, :updated_at
		)
	`

	_, err := sqlx.NamedExecContext(ctx, r.client.DB(), query, video)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// FindByID retrieves a video by its id
func (r *postgresVideoRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	query := fmt.Sprintf(`SELECT %s FROM videos WHERE id = $1`, videoColumns)

	var video models.Video
	err := sqlx.GetContext(ctx, r.client.DB(), &video, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to find video: %w", err)
	}

	return &video, nil
}

// Exists reports whether a video row exists
func (r *postgresVideoRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1)`

	var exists bool
	err := sqlx.GetContext(ctx, r.client.DB(), &exists, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to check video existence: %w", err)
	}

	return exists, nil
}

// FindTrending returns up to limit videos ordered by view count
func (r *postgresVideoRepository) FindTrending(ctx context.Context, limit int) ([]models.Video, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM videos
		WHERE visibility = 'public'
		ORDER BY views_count DESC, created_at DESC
		LIMIT $1
	`, videoColumns)

	videos := []models.Video{}
	err := sqlx.SelectContext(ctx, r.client.DB(), &videos, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find trending videos: %w", err)
	}

	return videos, nil
}

// FindByOwner returns a channel's videos, newest first
func (r *postgresVideoRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Video, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM videos
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, videoColumns)

	videos := []models.Video{}
	err := sqlx.SelectContext(ctx, r.client.DB(), &videos, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find videos by owner: %w", err)
	}

	return videos, nil
}

// FindByOwners returns videos from any of the given owners, newest first
func (r *postgresVideoRepository) FindByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]models.Video, error) {
	if len(ownerIDs) == 0 {
		return []models.Video{}, nil
	}

	ids := make([]string, len(ownerIDs))
	for i, id := range ownerIDs {
		ids[i] = id.String()
	}

	query := fmt.Sprintf(`
		SELECT %s FROM videos
		WHERE owner_id = ANY($1::uuid[])
		ORDER BY created_at DESC
	`, videoColumns)

	videos := []models.Video{}
	err := sqlx.SelectContext(ctx, r.client.DB(), &videos, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to find videos by owners: %w", err)
	}

	return videos, nil
}

// ApplyReactionDelta adjusts the denormalized like/dislike counters.
// GREATEST keeps both counters at zero or above even if a decrement races
// past the ledger's bookkeeping.
func (r *postgresVideoRepository) ApplyReactionDelta(ctx context.Context, videoID uuid.UUID, likesDelta, dislikesDelta int) error {
	query := `
		UPDATE videos
		SET likes_count = GREATEST(0, likes_count + $1),
		    dislikes_count = GREATEST(0, dislikes_count + $2),
		    updated_at = $3
		WHERE id = $4
	`

	result, err := r.client.DB().ExecContext(ctx, query, likesDelta, dislikesDelta, time.Now().UTC(), videoID)
	if err != nil {
		return fmt.Errorf("failed to apply reaction delta: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return ErrVideoNotFound
	}

	return nil
}

// IncrementCommentCount bumps the denormalized comment counter by one
func (r *postgresVideoRepository) IncrementCommentCount(ctx context.Context, videoID uuid.UUID) error {
	query := `
		UPDATE videos
		SET comments_count = comments_count + 1, updated_at = $1
		WHERE id = $2
	`

	result, err := r.client.DB().ExecContext(ctx, query, time.Now().UTC(), videoID)
	if err != nil {
		return fmt.Errorf("failed to increment comment count: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return ErrVideoNotFound
	}

	return nil
}

// IncrementViews bumps the view counter and records the watch in the
// viewer's history. The two writes are independent; a failed history insert
// does not roll back the counter.
func (r *postgresVideoRepository) IncrementViews(ctx context.Context, videoID, viewerID uuid.UUID) error {
	query := `
		UPDATE videos
		SET views_count = views_count + 1, updated_at = $1
		WHERE id = $2
	`

	result, err := r.client.DB().ExecContext(ctx, query, time.Now().UTC(), videoID)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return ErrVideoNotFound
	}

	historyID, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("failed to generate history id: %w", err)
	}

	historyQuery := `
		INSERT INTO watch_history (id, viewer_id, video_id, watched_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (viewer_id, video_id)
		DO UPDATE SET watched_at = EXCLUDED.watched_at
	`

	_, err = r.client.DB().ExecContext(ctx, historyQuery, historyID, viewerID, videoID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record watch history: %w", err)
	}

	return nil
}

// ChannelTotals aggregates counters across a channel's public videos only.
// Drafts and unlisted uploads stay out of the public numbers.
func (r *postgresVideoRepository) ChannelTotals(ctx context.Context, channelID uuid.UUID) (*models.ChannelStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_videos,
			COALESCE(SUM(views_count), 0) AS total_views,
			COALESCE(SUM(likes_count), 0) AS total_likes,
			COALESCE(SUM(comments_count), 0) AS total_comments
		FROM videos
		WHERE owner_id = $1 AND visibility = 'public'
	`

	var row totalsRow
	err := sqlx.GetContext(ctx, r.client.DB(), &row, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate channel totals: %w", err)
	}

	return row.stats(), nil
}

// OwnerTotals aggregates counters across all of an owner's videos
func (r *postgresVideoRepository) OwnerTotals(ctx context.Context, ownerID uuid.UUID) (*models.ChannelStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_videos,
			COALESCE(SUM(views_count), 0) AS total_views,
			COALESCE(SUM(likes_count), 0) AS total_likes,
			COALESCE(SUM(comments_count), 0) AS total_comments
		FROM videos
		WHERE owner_id = $1
	`

	var row totalsRow
	err := sqlx.GetContext(ctx, r.client.DB(), &row, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate owner totals: %w", err)
	}

	return row.stats(), nil
}

type totalsRow struct {
	TotalVideos   int64 `db:"total_videos"`
	TotalViews    int64 `db:"total_views"`
	TotalLikes    int64 `db:"total_likes"`
	TotalComments int64 `db:"total_comments"`
}

func (r totalsRow) stats() *models.ChannelStats {
	return &models.ChannelStats{
		TotalVideos:   r.TotalVideos,
		TotalViews:    r.TotalViews,
		TotalLikes:    r.TotalLikes,
		TotalComments: r.TotalComments,
	}
}
