// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"fmt"

	uuid "github.com/gofrs/uuid"
	"github.com/vidora/vidora/reactions/models"
	reactionRepository "github.com/vidora/vidora/reactions/repository"
)

// ErrInvalidStatus is returned when a caller requests an unknown reaction
// status. Rejected before any state mutation.
var ErrInvalidStatus = errors.New("invalid reaction status")

// CounterStore applies like/dislike counter deltas to a target entity's
// denormalized counters as one logical operation. Implementations clamp
// decrements at zero so a previously desynchronized counter can never go
// negative. The videos repository implements this for video counters and the
// comments repository for comment counters; the ledger itself does not know
// which entity it is counting.
type CounterStore interface {
	ApplyReactionDelta(ctx context.Context, targetID uuid.UUID, likesDelta, dislikesDelta int) error
}

// Ledger is the toggle state machine over (actor, target) pairs. States per
// pair are NONE (no row), LIKED, DISLIKED. The reaction row write and the
// counter write are two separate statements; a crash between them is a known
// inconsistency window accepted by this design.
type Ledger interface {
	// SetReaction moves the pair to the desired status.
	// Re-requesting the current status is a no-op reported as success.
	SetReaction(ctx context.Context, actorID, targetID uuid.UUID, desired models.Status) error

	// ClearReaction moves the pair to NONE. Clearing an already-NONE pair is
	// a no-op.
	ClearReaction(ctx context.Context, actorID, targetID uuid.UUID) error

	// Toggle applies the action-button semantics: requesting the current
	// status clears it, anything else sets it. Returns the resulting status.
	Toggle(ctx context.Context, actorID, targetID uuid.UUID, desired models.Status) (models.Status, error)

	// GetStatus is a pure read: NONE, LIKED, or DISLIKED. Never mutates.
	GetStatus(ctx context.Context, actorID, targetID uuid.UUID) (models.Status, error)

	// GetStatuses bulk-reads the actor's reactions for many targets in one
	// query. Targets with no reaction are absent from the result.
	GetStatuses(ctx context.Context, actorID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]models.Status, error)
}

// ledger implements Ledger over one reaction repository and one counter
// store. It is instantiated twice: video reactions on the primary service,
// comment reactions on the comment service.
type ledger struct {
	reactionRepo reactionRepository.ReactionRepository
	counters     CounterStore
}

// NewLedger wires the toggle state machine with its dependencies.
func NewLedger(reactionRepo reactionRepository.ReactionRepository, counters CounterStore) Ledger {
	return &ledger{
		reactionRepo: reactionRepo,
		counters:     counters,
	}
}

// SetReaction moves the pair to the desired status.
func (l *ledger) SetReaction(ctx context.Context, actorID, targetID uuid.UUID, desired models.Status) error {
	if !desired.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, desired)
	}

	current, err := l.GetStatus(ctx, actorID, targetID)
	if err != nil {
		return err
	}

	// Re-requesting the current status touches nothing.
	if current == desired {
		return nil
	}

	reactionID, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("failed to generate reaction ID: %w", err)
	}

	reaction := &models.Reaction{
		ID:       reactionID,
		ActorID:  actorID,
		TargetID: targetID,
		Status:   desired,
	}

	created, previous, err := l.reactionRepo.Upsert(ctx, reaction)
	if err != nil {
		return fmt.Errorf("failed to upsert reaction: %w", err)
	}
	if !created && previous == desired {
		// Another call won the race and already set this status; the counter
		// delta for it was theirs to apply.
		return nil
	}

	likesDelta, dislikesDelta := transitionDelta(previous, desired)
	if likesDelta != 0 || dislikesDelta != 0 {
		if err := l.counters.ApplyReactionDelta(ctx, targetID, likesDelta, dislikesDelta); err != nil {
			return fmt.Errorf("failed to apply counter delta: %w", err)
		}
	}

	return nil
}

// ClearReaction moves the pair to NONE.
func (l *ledger) ClearReaction(ctx context.Context, actorID, targetID uuid.UUID) error {
	deleted, previous, err := l.reactionRepo.Delete(ctx, actorID, targetID)
	if err != nil {
		return fmt.Errorf("failed to delete reaction: %w", err)
	}
	if !deleted {
		// NONE -> NONE, nothing to undo.
		return nil
	}

	likesDelta, dislikesDelta := transitionDelta(previous, models.StatusNone)
	if likesDelta != 0 || dislikesDelta != 0 {
		if err := l.counters.ApplyReactionDelta(ctx, targetID, likesDelta, dislikesDelta); err != nil {
			return fmt.Errorf("failed to apply counter delta: %w", err)
		}
	}

	return nil
}

// Toggle applies the action-button semantics used by the comment and video
// action endpoints: pressing the button you already pressed cancels it.
func (l *ledger) Toggle(ctx context.Context, actorID, targetID uuid.UUID, desired models.Status) (models.Status, error) {
	if !desired.Valid() {
		return models.StatusNone, fmt.Errorf("%w: %q", ErrInvalidStatus, desired)
	}

	current, err := l.GetStatus(ctx, actorID, targetID)
	if err != nil {
		return models.StatusNone, err
	}

	if current == desired {
		if err := l.ClearReaction(ctx, actorID, targetID); err != nil {
			return models.StatusNone, err
		}
		return models.StatusNone, nil
	}

	if err := l.SetReaction(ctx, actorID, targetID, desired); err != nil {
		return models.StatusNone, err
	}
	return desired, nil
}

// GetStatus is a pure read.
func (l *ledger) GetStatus(ctx context.Context, actorID, targetID uuid.UUID) (models.Status, error) {
	reaction, err := l.reactionRepo.Find(ctx, actorID, targetID)
	if err != nil {
		if errors.Is(err, reactionRepository.ErrReactionNotFound) {
			return models.StatusNone, nil
		}
		return models.StatusNone, fmt.Errorf("failed to get reaction status: %w", err)
	}
	return reaction.Status, nil
}

// GetStatuses bulk-reads the actor's reactions for many targets.
func (l *ledger) GetStatuses(ctx context.Context, actorID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]models.Status, error) {
	if len(targetIDs) == 0 {
		return map[uuid.UUID]models.Status{}, nil
	}

	statuses, err := l.reactionRepo.GetForTargets(ctx, targetIDs, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk read reaction statuses: %w", err)
	}
	return statuses, nil
}

// transitionDelta returns the (likes, dislikes) counter deltas for moving a
// pair from one status to another. The full table:
//
//	NONE    -> LIKED     +1  0
//	NONE    -> DISLIKED   0 +1
//	LIKED   -> DISLIKED  -1 +1
//	DISLIKED-> LIKED     +1 -1
//	LIKED   -> NONE      -1  0
//	DISLIKED-> NONE       0 -1
func transitionDelta(from, to models.Status) (likes, dislikes int) {
	switch from {
	case models.StatusLike:
		likes--
	case models.StatusDislike:
		dislikes--
	}
	switch to {
	case models.StatusLike:
		likes++
	case models.StatusDislike:
		dislikes++
	}
	return likes, dislikes
}
