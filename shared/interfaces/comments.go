// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package interfaces

import (
	"context"

	uuid "github.com/gofrs/uuid"

	commentModels "github.com/vidora/vidora/comments/models"
)

// CommentServiceClient abstracts the comment service from the gateway's
// point of view. Production wires the HTTP adapter; a direct-call adapter
// exists for single-process deployments and tests.
type CommentServiceClient interface {
	// CreateComment forwards a create request and returns the stored comment.
	CreateComment(ctx context.Context, req *commentModels.CreateCommentRequest) (*commentModels.Comment, error)

	// ListComments returns all comments for a video, newest first.
	ListComments(ctx context.Context, videoID uuid.UUID) ([]commentModels.Comment, error)

	// CommentAction toggles the caller's reaction on a comment.
	CommentAction(ctx context.Context, commentID uuid.UUID, req *commentModels.CommentActionRequest) (*commentModels.CommentActionResponse, error)
}
