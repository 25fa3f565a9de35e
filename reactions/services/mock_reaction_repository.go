// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/vidora/vidora/reactions/models"
	reactionRepository "github.com/vidora/vidora/reactions/repository"
)

// MockReactionRepository is a mock implementation of ReactionRepository for testing
type MockReactionRepository struct {
	mock.Mock
}

// Ensure MockReactionRepository implements ReactionRepository
var _ reactionRepository.ReactionRepository = (*MockReactionRepository)(nil)

// Find mocks the Find method
func (m *MockReactionRepository) Find(ctx context.Context, actorID, targetID uuid.UUID) (*models.Reaction, error) {
	args := m.Called(ctx, actorID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reaction), args.Error(1)
}

// Upsert mocks the Upsert method
func (m *MockReactionRepository) Upsert(ctx context.Context, reaction *models.Reaction) (bool, models.Status, error) {
	args := m.Called(ctx, reaction)
	return args.Bool(0), args.Get(1).(models.Status), args.Error(2)
}

// Delete mocks the Delete method
func (m *MockReactionRepository) Delete(ctx context.Context, actorID, targetID uuid.UUID) (bool, models.Status, error) {
	args := m.Called(ctx, actorID, targetID)
	return args.Bool(0), args.Get(1).(models.Status), args.Error(2)
}

// GetForTargets mocks the GetForTargets method
func (m *MockReactionRepository) GetForTargets(ctx context.Context, targetIDs []uuid.UUID, actorID uuid.UUID) (map[uuid.UUID]models.Status, error) {
	args := m.Called(ctx, targetIDs, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]models.Status), args.Error(1)
}

// MockCounterStore is a mock implementation of CounterStore for testing
type MockCounterStore struct {
	mock.Mock
}

// Ensure MockCounterStore implements CounterStore
var _ CounterStore = (*MockCounterStore)(nil)

// ApplyReactionDelta mocks the ApplyReactionDelta method
func (m *MockCounterStore) ApplyReactionDelta(ctx context.Context, targetID uuid.UUID, likesDelta, dislikesDelta int) error {
	args := m.Called(ctx, targetID, likesDelta, dislikesDelta)
	return args.Error(0)
}
