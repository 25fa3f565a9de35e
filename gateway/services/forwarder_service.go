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

	commentModels "github.com/vidora/vidora/comments/models"
	gatewayErrors "github.com/vidora/vidora/gateway/errors"
	"github.com/vidora/vidora/internal/pkg/log"
	"github.com/vidora/vidora/internal/types"
	profileModels "github.com/vidora/vidora/profile/models"
	profileRepository "github.com/vidora/vidora/profile/repository"
	"github.com/vidora/vidora/shared/interfaces"
)

// HealthChecker answers whether a named downstream is currently considered
// alive. Satisfied by health.Monitor; the answer is the cached verdict of
// the last probe, never a live check.
type HealthChecker interface {
	IsUp(name string) bool
}

// VideoChecker verifies a video exists before a comment is forwarded to it.
// Satisfied by the video repository.
type VideoChecker interface {
	Exists(ctx context.Context, videoID uuid.UUID) (bool, error)
}

// ForwarderService mediates every comment operation between clients and the
// comment service. Reads degrade to empty results when the downstream is
// down or failing; writes fail loudly so no data is silently dropped.
type ForwarderService struct {
	client      interfaces.CommentServiceClient
	health      HealthChecker
	videos      VideoChecker
	profileRepo profileRepository.ProfileRepository
	serviceName string
}

// NewForwarderService creates a forwarder with its dependencies. serviceName
// is the key the health monitor tracks the comment service under.
func NewForwarderService(
	client interfaces.CommentServiceClient,
	health HealthChecker,
	videos VideoChecker,
	profileRepo profileRepository.ProfileRepository,
	serviceName string,
) *ForwarderService {
	return &ForwarderService{
		client:      client,
		health:      health,
		videos:      videos,
		profileRepo: profileRepo,
		serviceName: serviceName,
	}
}

// CreateComment forwards a comment write with the caller's identity snapshot
// attached. When the circuit is open the request fails immediately; no
// network attempt is made.
func (s *ForwarderService) CreateComment(ctx context.Context, user *types.UserContext, videoID uuid.UUID, content, parentID string) (*commentModels.Comment, error) {
	if !s.health.IsUp(s.serviceName) {
		return nil, gatewayErrors.ErrCommentServiceDown
	}

	exists, err := s.videos.Exists(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("checking video before comment create: %w", err)
	}
	if !exists {
		return nil, gatewayErrors.ErrVideoNotFound
	}

	req := &commentModels.CreateCommentRequest{
		UserID:   user.UserID.String(),
		VideoID:  videoID.String(),
		Content:  content,
		ParentID: parentID,
		UserData: s.authorSnapshot(ctx, user),
	}

	comment, err := s.client.CreateComment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("forwarding comment create: %w", err)
	}

	return comment, nil
}

// authorSnapshot resolves the caller's current identity from the profile
// store. Token claims carry only a copy minted at login; the store is
// authoritative, so renames reach fresh comments immediately. When the store
// misses or errors, the claims are forwarded as carried.
func (s *ForwarderService) authorSnapshot(ctx context.Context, user *types.UserContext) commentModels.UserSnapshot {
	profile, err := s.profileRepo.FindByID(ctx, user.UserID)
	if err != nil {
		if !errors.Is(err, profileRepository.ErrProfileNotFound) {
			log.Warn("Failed to resolve author %s, falling back to token claims: %v", user.UserID, err)
		}
		return commentModels.UserSnapshot{
			ID:          user.UserID,
			Username:    user.Username,
			AvatarURL:   user.AvatarURL,
			ChannelName: user.ChannelName,
		}
	}

	return commentModels.UserSnapshot{
		ID:          profile.ID,
		Username:    profile.Username,
		AvatarURL:   profile.AvatarURL,
		ChannelName: profile.ChannelName,
	}
}

// ListComments fetches a video's comments and resolves authors against the
// identity store in one batch. Any failure, circuit open or call failed,
// yields an empty list: a video page renders without comments rather than
// erroring.
func (s *ForwarderService) ListComments(ctx context.Context, videoID uuid.UUID) ([]commentModels.EnrichedComment, error) {
	if !s.health.IsUp(s.serviceName) {
		log.Warn("Comment service is down, returning empty comments for video %s", videoID)
		return []commentModels.EnrichedComment{}, nil
	}

	comments, err := s.client.ListComments(ctx, videoID)
	if err != nil {
		log.Error("Failed to list comments for video %s: %v", videoID, err)
		return []commentModels.EnrichedComment{}, nil
	}

	return s.enrich(ctx, comments), nil
}

// CommentAction forwards a reaction toggle. Same write semantics as
// CreateComment: circuit open means an immediate failure.
func (s *ForwarderService) CommentAction(ctx context.Context, user *types.UserContext, commentID uuid.UUID, action string) (*commentModels.CommentActionResponse, error) {
	if !s.health.IsUp(s.serviceName) {
		return nil, gatewayErrors.ErrCommentServiceDown
	}

	req := &commentModels.CommentActionRequest{
		UserID: user.UserID.String(),
		Action: action,
	}

	result, err := s.client.CommentAction(ctx, commentID, req)
	if err != nil {
		return nil, fmt.Errorf("forwarding comment action: %w", err)
	}

	return result, nil
}

// enrich joins comments with author profiles. One batch query covers the
// whole page; authors the identity store no longer knows get the
// placeholder so a deleted account never hides its old comments.
func (s *ForwarderService) enrich(ctx context.Context, comments []commentModels.Comment) []commentModels.EnrichedComment {
	enriched := make([]commentModels.EnrichedComment, 0, len(comments))
	if len(comments) == 0 {
		return enriched
	}

	seen := make(map[uuid.UUID]struct{}, len(comments))
	authorIDs := make([]uuid.UUID, 0, len(comments))
	for _, comment := range comments {
		if _, ok := seen[comment.AuthorID]; ok {
			continue
		}
		seen[comment.AuthorID] = struct{}{}
		authorIDs = append(authorIDs, comment.AuthorID)
	}

	profiles, err := s.profileRepo.FindByIDs(ctx, authorIDs)
	if err != nil {
		log.Error("Failed to resolve comment authors: %v", err)
		profiles = map[uuid.UUID]profileModels.UserProfile{}
	}

	for _, comment := range comments {
		profile, ok := profiles[comment.AuthorID]
		if !ok {
			profile = profileModels.Placeholder(comment.AuthorID)
		}
		enriched = append(enriched, commentModels.EnrichedComment{
			Comment: comment,
			User: commentModels.UserSnapshot{
				ID:          profile.ID,
				Username:    profile.Username,
				AvatarURL:   profile.AvatarURL,
				ChannelName: profile.ChannelName,
			},
		})
	}

	return enriched
}
