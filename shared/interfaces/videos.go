// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package interfaces

import (
	"context"

	uuid "github.com/gofrs/uuid"
)

// VideoStatsUpdater is the comment service's view of the primary service.
// It carries exactly one operation: bumping a video's denormalized comment
// counter after a comment is stored. Callers fire it from a detached
// goroutine and treat failures as log-only.
type VideoStatsUpdater interface {
	IncrementCommentCount(ctx context.Context, videoID uuid.UUID) error
}
