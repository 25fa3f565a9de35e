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
	"github.com/vidora/vidora/reactions/models"
)

// postgresReactionRepository implements ReactionRepository using raw SQL
// queries against one reaction table. The table name is fixed at
// construction ("video_reactions" on the primary service,
// "comment_reactions" on the comment service) so the identical toggle
// machinery serves both entity types.
type postgresReactionRepository struct {
	client *postgres.Client
	table  string
}

// NewPostgresReactionRepository creates a new PostgreSQL repository bound to
// the given reaction table.
func NewPostgresReactionRepository(client *postgres.Client, table string) ReactionRepository {
	return &postgresReactionRepository{
		client: client,
		table:  table,
	}
}

// Find retrieves the actor's reaction on a target
func (r *postgresReactionRepository) Find(ctx context.Context, actorID, targetID uuid.UUID) (*models.Reaction, error) {
	query := fmt.Sprintf(`
		SELECT id, actor_id, target_id, status, created_at, updated_at
		FROM %s
		WHERE actor_id = $1 AND target_id = $2
	`, r.table)

	var reaction models.Reaction
	err := sqlx.GetContext(ctx, r.client.DB(), &reaction, query, actorID, targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReactionNotFound
		}
		return nil, fmt.Errorf("failed to find reaction: %w", err)
	}

	return &reaction, nil
}

// Upsert inserts a new reaction or updates the status of an existing one.
// Returns: (created bool, previous models.Status, err error)
func (r *postgresReactionRepository) Upsert(ctx context.Context, reaction *models.Reaction) (bool, models.Status, error) {
	now := time.Now().UTC()
	if reaction.CreatedAt.IsZero() {
		reaction.CreatedAt = now
	}
	reaction.UpdatedAt = now

	existing, err := r.Find(ctx, reaction.ActorID, reaction.TargetID)
	if err != nil {
		if !errors.Is(err, ErrReactionNotFound) {
			return false, models.StatusNone, fmt.Errorf("failed to check existing reaction: %w", err)
		}

		query := fmt.Sprintf(`
			INSERT INTO %s (id, actor_id, target_id, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, r.table)

		_, err := r.client.DB().ExecContext(ctx, query,
			reaction.ID, reaction.ActorID, reaction.TargetID, reaction.Status,
			reaction.CreatedAt, reaction.UpdatedAt)
		if err != nil {
			return false, models.StatusNone, fmt.Errorf("failed to insert reaction: %w", err)
		}

		return true, models.StatusNone, nil
	}

	// Row exists: update the status in place, keeping the unique
	// (actor_id, target_id) invariant. At most one row per pair, always.
	previous := existing.Status

	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, updated_at = $2
		WHERE actor_id = $3 AND target_id = $4
	`, r.table)

	_, err = r.client.DB().ExecContext(ctx, query,
		reaction.Status, reaction.UpdatedAt, reaction.ActorID, reaction.TargetID)
	if err != nil {
		return false, models.StatusNone, fmt.Errorf("failed to update reaction: %w", err)
	}

	return false, previous, nil
}

// Delete removes the actor's reaction on a target.
// Returns: (deleted bool, previous models.Status, err error)
func (r *postgresReactionRepository) Delete(ctx context.Context, actorID, targetID uuid.UUID) (bool, models.Status, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE actor_id = $1 AND target_id = $2
		RETURNING status
	`, r.table)

	var previous models.Status
	err := r.client.DB().QueryRowxContext(ctx, query, actorID, targetID).Scan(&previous)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, models.StatusNone, nil
		}
		return false, models.StatusNone, fmt.Errorf("failed to delete reaction: %w", err)
	}

	return true, previous, nil
}

// GetForTargets bulk retrieves the actor's reactions for multiple targets
func (r *postgresReactionRepository) GetForTargets(ctx context.Context, targetIDs []uuid.UUID, actorID uuid.UUID) (map[uuid.UUID]models.Status, error) {
	if len(targetIDs) == 0 {
		return make(map[uuid.UUID]models.Status), nil
	}

	ids := make([]string, len(targetIDs))
	for i, id := range targetIDs {
		ids[i] = id.String()
	}

	query := fmt.Sprintf(`
		SELECT target_id, status
		FROM %s
		WHERE actor_id = $1 AND target_id = ANY($2::uuid[])
	`, r.table)

	type reactionResult struct {
		TargetID uuid.UUID     `db:"target_id"`
		Status   models.Status `db:"status"`
	}

	var results []reactionResult
	err := sqlx.SelectContext(ctx, r.client.DB(), &results, query, actorID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get reactions for targets: %w", err)
	}

	statusMap := make(map[uuid.UUID]models.Status, len(results))
	for _, result := range results {
		statusMap[result.TargetID] = result.Status
	}

	return statusMap, nil
}
