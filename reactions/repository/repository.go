// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"errors"

	uuid "github.com/gofrs/uuid"
	"github.com/vidora/vidora/reactions/models"
)

// ErrReactionNotFound is returned when no reaction row exists for a pair.
var ErrReactionNotFound = errors.New("reaction not found")

// ReactionRepository defines the interface for reaction-specific database
// operations. One implementation serves both reaction tables (video and
// comment); an instance is bound to a single table at construction.
type ReactionRepository interface {
	// Find retrieves the actor's reaction on a target.
	// Returns ErrReactionNotFound if no row exists.
	Find(ctx context.Context, actorID, targetID uuid.UUID) (*models.Reaction, error)

	// Upsert inserts a new reaction or updates the status of an existing one.
	// Returns: (created bool, previous models.Status, err error)
	// created=true means a new row was inserted; previous is the status
	// before the operation (StatusNone if no row existed). The previous
	// status is what the ledger needs to compute the counter delta.
	Upsert(ctx context.Context, reaction *models.Reaction) (bool, models.Status, error)

	// Delete removes the actor's reaction on a target (toggle off).
	// Returns: (deleted bool, previous models.Status, err error)
	// deleted=false with StatusNone means no row existed; that is not an error.
	Delete(ctx context.Context, actorID, targetID uuid.UUID) (bool, models.Status, error)

	// GetForTargets bulk retrieves the actor's reactions for multiple targets
	// in one query. Targets without a reaction are absent from the result.
	// This avoids N+1 queries when enriching lists with the caller's
	// reaction state.
	GetForTargets(ctx context.Context, targetIDs []uuid.UUID, actorID uuid.UUID) (map[uuid.UUID]models.Status, error)
}
