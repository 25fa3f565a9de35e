// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"fmt"
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vidora/vidora/internal/database/postgres"
	"github.com/vidora/vidora/videos/models"
)

// postgresSubscriptionRepository implements SubscriptionRepository
type postgresSubscriptionRepository struct {
	client *postgres.Client
}

// NewPostgresSubscriptionRepository creates a new PostgreSQL subscription repository
func NewPostgresSubscriptionRepository(client *postgres.Client) SubscriptionRepository {
	return &postgresSubscriptionRepository{client: client}
}

// Subscribe records a subscription. Returns false when the pair already
// existed so the caller can skip the subscriber counter bump.
func (r *postgresSubscriptionRepository) Subscribe(ctx context.Context, viewerID, channelID uuid.UUID) (bool, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return false, fmt.Errorf("failed to generate subscription id: %w", err)
	}

	query := `
		INSERT INTO subscriptions (id, viewer_id, channel_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (viewer_id, channel_id) DO NOTHING
	`

	result, err := r.client.DB().ExecContext(ctx, query, id, viewerID, channelID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to subscribe: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}

	return rows > 0, nil
}

// Unsubscribe removes a subscription. Returns false when no row existed.
func (r *postgresSubscriptionRepository) Unsubscribe(ctx context.Context, viewerID, channelID uuid.UUID) (bool, error) {
	query := `DELETE FROM subscriptions WHERE viewer_id = $1 AND channel_id = $2`

	result, err := r.client.DB().ExecContext(ctx, query, viewerID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to unsubscribe: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}

	return rows > 0, nil
}

// IsSubscribed reports whether the viewer follows the channel
func (r *postgresSubscriptionRepository) IsSubscribed(ctx context.Context, viewerID, channelID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM subscriptions WHERE viewer_id = $1 AND channel_id = $2)`

	var exists bool
	err := sqlx.GetContext(ctx, r.client.DB(), &exists, query, viewerID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}

	return exists, nil
}

// ChannelsOf returns every channel the viewer follows
func (r *postgresSubscriptionRepository) ChannelsOf(ctx context.Context, viewerID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT channel_id FROM subscriptions WHERE viewer_id = $1`

	channels := []uuid.UUID{}
	err := sqlx.SelectContext(ctx, r.client.DB(), &channels, query, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribed channels: %w", err)
	}

	return channels, nil
}

// postgresHistoryRepository implements HistoryRepository
type postgresHistoryRepository struct {
	client *postgres.Client
}

// NewPostgresHistoryRepository creates a new PostgreSQL history repository
func NewPostgresHistoryRepository(client *postgres.Client) HistoryRepository {
	return &postgresHistoryRepository{client: client}
}

// FindByViewer returns the viewer's watch entries, newest first
func (r *postgresHistoryRepository) FindByViewer(ctx context.Context, viewerID uuid.UUID, limit int) ([]models.WatchEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s, h.watched_at
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		WHERE h.viewer_id = $1
		ORDER BY h.watched_at DESC
		LIMIT $2
	`, prefixedVideoColumns("v"))

	rows, err := r.client.DB().QueryxContext(ctx, query, viewerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load watch history: %w", err)
	}
	defer rows.Close()

	entries := []models.WatchEntry{}
	for rows.Next() {
		var row struct {
			models.Video
			WatchedAt time.Time `db:"watched_at"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("failed to scan watch entry: %w", err)
		}
		entries = append(entries, models.WatchEntry{Video: row.Video, WatchedAt: row.WatchedAt})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watch history: %w", err)
	}

	return entries, nil
}

func prefixedVideoColumns(alias string) string {
	cols := []string{
		"id", "owner_id", "title", "description", "thumbnail_url", "video_url",
		"duration", "visibility", "views_count", "likes_count", "dislikes_count",
		"comments_count", "created_at", "updated_at",
	}
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += alias + "." + c
	}
	return out
}
