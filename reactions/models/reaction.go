// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"fmt"
	"time"

	uuid "github.com/gofrs/uuid"
)

// Status is a user's recorded reaction on a target. The zero value StatusNone
// is never persisted: absence of a row means "none".
type Status string

const (
	StatusNone    Status = ""
	StatusLike    Status = "like"
	StatusDislike Status = "dislike"
)

// ParseStatus converts a wire action value into a Status. Unknown values are
// rejected before any state mutation.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusLike:
		return StatusLike, nil
	case StatusDislike:
		return StatusDislike, nil
	default:
		return StatusNone, fmt.Errorf("invalid reaction status: %q", s)
	}
}

// Valid reports whether the status is one of the persistable values.
func (s Status) Valid() bool {
	return s == StatusLike || s == StatusDislike
}

// Reaction is one user's reaction on one target. The (actor_id, target_id)
// pair is unique; the target may be a video or a comment depending on which
// table the repository is bound to.
type Reaction struct {
	ID        uuid.UUID `db:"id" json:"objectId"`
	ActorID   uuid.UUID `db:"actor_id" json:"actorId"`
	TargetID  uuid.UUID `db:"target_id" json:"targetId"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
