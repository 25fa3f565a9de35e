// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"errors"

	uuid "github.com/gofrs/uuid"
	"github.com/vidora/vidora/profile/models"
)

// ErrProfileNotFound is returned when no profile exists for an id.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository defines the interface for identity lookups on the
// primary service. The gateway uses FindByIDs as the application-level join
// replacing the cross-service foreign key that cannot exist.
type ProfileRepository interface {
	// Create inserts a new profile
	Create(ctx context.Context, profile *models.UserProfile) error

	// FindByID retrieves a single profile.
	// Returns ErrProfileNotFound if absent.
	FindByID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)

	// FindByIDs batch-resolves a set of user ids in one query. Missing ids
	// are simply absent from the result map; callers attach placeholder
	// identities for them.
	FindByIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.UserProfile, error)

	// IncrementSubscribers adjusts the denormalized subscriber counter.
	IncrementSubscribers(ctx context.Context, userID uuid.UUID, delta int) error
}
