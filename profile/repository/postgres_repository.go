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
	"github.com/vidora/vidora/profile/models"
)

// postgresProfileRepository implements ProfileRepository using raw SQL queries
type postgresProfileRepository struct {
	client *postgres.Client
}

// NewPostgresProfileRepository creates a new PostgreSQL repository for profiles
func NewPostgresProfileRepository(client *postgres.Client) ProfileRepository {
	return &postgresProfileRepository{client: client}
}

// Create inserts a new profile
func (r *postgresProfileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	query := `
		INSERT INTO user_profiles (id, username, avatar_url, channel_name, subscribers_count, created_at, updated_at)
		VALUES (:id, :username, :avatar_url, :channel_name, :subscribers_count, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, r.client.DB(), query, profile)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// FindByID retrieves a single profile
func (r *postgresProfileRepository) FindByID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	query := `
		SELECT id, username, avatar_url, channel_name, subscribers_count, created_at, updated_at
		FROM user_profiles
		WHERE id = $1
	`

	var profile models.UserProfile
	err := sqlx.GetContext(ctx, r.client.DB(), &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return &profile, nil
}

// FindByIDs batch-resolves a set of user ids in one query
func (r *postgresProfileRepository) FindByIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.UserProfile, error) {
	if len(userIDs) == 0 {
		return make(map[uuid.UUID]models.UserProfile), nil
	}

	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT id, username, avatar_url, channel_name, subscribers_count, created_at, updated_at
		FROM user_profiles
		WHERE id = ANY($1::uuid[])
	`

	var profiles []models.UserProfile
	err := sqlx.SelectContext(ctx, r.client.DB(), &profiles, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to batch-resolve profiles: %w", err)
	}

	profileMap := make(map[uuid.UUID]models.UserProfile, len(profiles))
	for _, profile := range profiles {
		profileMap[profile.ID] = profile
	}

	return profileMap, nil
}

// IncrementSubscribers adjusts the denormalized subscriber counter, clamped
// at zero.
func (r *postgresProfileRepository) IncrementSubscribers(ctx context.Context, userID uuid.UUID, delta int) error {
	query := `
		UPDATE user_profiles
		SET subscribers_count = GREATEST(0, subscribers_count + $1), updated_at = $2
		WHERE id = $3
	`

	result, err := r.client.DB().ExecContext(ctx, query, delta, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to increment subscribers: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}
