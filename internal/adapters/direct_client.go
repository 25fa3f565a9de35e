// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package adapters

import (
	"context"

	uuid "github.com/gofrs/uuid"

	commentModels "github.com/vidora/vidora/comments/models"
	commentServices "github.com/vidora/vidora/comments/services"
	"github.com/vidora/vidora/shared/interfaces"
)

// DirectCallClient implements interfaces.CommentServiceClient by calling the
// comment service in-process. Used when both roles run in one binary; no
// network hop, no serialization.
type DirectCallClient struct {
	commentService *commentServices.CommentService
}

// NewDirectCallClient wraps an in-process comment service
func NewDirectCallClient(commentService *commentServices.CommentService) *DirectCallClient {
	return &DirectCallClient{commentService: commentService}
}

var _ interfaces.CommentServiceClient = (*DirectCallClient)(nil)

// CreateComment stores a comment in-process
func (c *DirectCallClient) CreateComment(ctx context.Context, req *commentModels.CreateCommentRequest) (*commentModels.Comment, error) {
	return c.commentService.CreateComment(ctx, req)
}

// ListComments returns a video's comments in-process
func (c *DirectCallClient) ListComments(ctx context.Context, videoID uuid.UUID) ([]commentModels.Comment, error) {
	return c.commentService.GetVideoComments(ctx, videoID)
}

// CommentAction toggles a reaction in-process
func (c *DirectCallClient) CommentAction(ctx context.Context, commentID uuid.UUID, req *commentModels.CommentActionRequest) (*commentModels.CommentActionResponse, error) {
	return c.commentService.CommentAction(ctx, commentID, req)
}
