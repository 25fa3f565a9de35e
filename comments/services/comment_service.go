// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/gofrs/uuid"

	commentErrors "github.com/vidora/vidora/comments/errors"
	"github.com/vidora/vidora/comments/models"
	"github.com/vidora/vidora/comments/repository"
	"github.com/vidora/vidora/internal/cache"
	"github.com/vidora/vidora/internal/pkg/log"
	"github.com/vidora/vidora/internal/realtime"
	reactionModels "github.com/vidora/vidora/reactions/models"
	reactionServices "github.com/vidora/vidora/reactions/services"
	"github.com/vidora/vidora/shared/interfaces"
)

// Broadcaster pushes events to realtime subscribers of a video room.
// Satisfied by realtime.Hub.
type Broadcaster interface {
	Broadcast(room, event string, data interface{})
}

const (
	commentsCacheTTL = 30 * time.Second
	maxContentLength = 5000

	// propagateTimeout bounds the detached stats call so an unresponsive
	// primary service cannot pin goroutines forever.
	propagateTimeout = 10 * time.Second
)

func commentsCacheKey(videoID uuid.UUID) string {
	return "comments:video:" + videoID.String()
}

// CommentService owns comment state and the reaction ledger bound to the
// comment_reactions table. It never reads the primary service's store; the
// video id on a comment is an opaque reference.
type CommentService struct {
	commentRepo  repository.CommentRepository
	ledger       reactionServices.Ledger
	statsUpdater interfaces.VideoStatsUpdater
	broadcaster  Broadcaster
	cacheService *cache.GenericCacheService
}

// NewCommentService creates a new comment service with its dependencies
func NewCommentService(
	commentRepo repository.CommentRepository,
	ledger reactionServices.Ledger,
	statsUpdater interfaces.VideoStatsUpdater,
	broadcaster Broadcaster,
	cacheService *cache.GenericCacheService,
) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		ledger:       ledger,
		statsUpdater: statsUpdater,
		broadcaster:  broadcaster,
		cacheService: cacheService,
	}
}

// CreateComment stores a comment, pushes it to the video's realtime room,
// and fires the stats increment at the primary service without waiting for
// it. The comment is durable once this returns; the remote counter bump is
// best-effort.
func (s *CommentService) CreateComment(ctx context.Context, req *models.CreateCommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, commentErrors.ErrEmptyContent
	}
	if len(content) > maxContentLength {
		return nil, fmt.Errorf("%w: content exceeds %d characters", commentErrors.ErrInvalidCommentData, maxContentLength)
	}

	authorID, err := uuid.FromString(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad userId", commentErrors.ErrInvalidCommentData)
	}
	videoID, err := uuid.FromString(req.VideoID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad videoId", commentErrors.ErrInvalidCommentData)
	}

	var parentID *uuid.UUID
	if req.ParentID != "" {
		parsed, err := uuid.FromString(req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad parentId", commentErrors.ErrInvalidCommentData)
		}
		if _, err := s.commentRepo.FindByID(ctx, parsed); err != nil {
			if errors.Is(err, repository.ErrCommentNotFound) {
				return nil, commentErrors.ErrCommentNotFound
			}
			return nil, err
		}
		parentID = &parsed
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate comment id: %w", err)
	}

	comment := &models.Comment{
		ID:       id,
		VideoID:  videoID,
		AuthorID: authorID,
		Content:  content,
		ParentID: parentID,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.invalidateVideoComments(ctx, videoID)

	s.broadcaster.Broadcast(videoID.String(), realtime.EventReceiveComment, models.EnrichedComment{
		Comment: *comment,
		User:    req.UserData,
	})

	// Detached from the request: the comment is already stored and the
	// response must not wait on the primary service. Failures are logged
	// and never retried; the counter drifts until a later recount.
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), propagateTimeout)
		defer cancel()

		if err := s.statsUpdater.IncrementCommentCount(pctx, videoID); err != nil {
			log.Warn("Failed to propagate comment count for video %s: %v", videoID, err)
		}
	}()

	return comment, nil
}

// GetVideoComments returns a video's top-level comments, newest first. A
// short cache window absorbs read bursts on hot videos; the window is
// invalidated on every write to the video's thread.
func (s *CommentService) GetVideoComments(ctx context.Context, videoID uuid.UUID) ([]models.Comment, error) {
	key := commentsCacheKey(videoID)

	if s.cacheService.IsEnabled() {
		var cached []models.Comment
		if err := s.cacheService.GetCached(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	comments, err := s.commentRepo.FindByVideoID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if s.cacheService.IsEnabled() {
		if err := s.cacheService.CacheData(ctx, key, comments, commentsCacheTTL); err != nil {
			log.Warn("Failed to cache comments for video %s: %v", videoID, err)
		}
	}

	return comments, nil
}

// GetCommentReactions reports the caller's reaction on each of a video's
// top-level comments, resolved in one bulk query. Comments the caller never
// reacted to are absent from the map.
func (s *CommentService) GetCommentReactions(ctx context.Context, userID, videoID uuid.UUID) (map[uuid.UUID]reactionModels.Status, error) {
	comments, err := s.commentRepo.FindByVideoID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(comments))
	for _, comment := range comments {
		ids = append(ids, comment.ID)
	}

	return s.ledger.GetStatuses(ctx, userID, ids)
}

// GetReplies returns a comment's replies, oldest first
func (s *CommentService) GetReplies(ctx context.Context, parentID uuid.UUID) ([]models.Comment, error) {
	return s.commentRepo.FindReplies(ctx, parentID)
}

// CommentAction toggles the caller's reaction on a comment and pushes the
// fresh counters to the video's realtime room.
func (s *CommentService) CommentAction(ctx context.Context, commentID uuid.UUID, req *models.CommentActionRequest) (*models.CommentActionResponse, error) {
	desired, err := reactionModels.ParseStatus(req.Action)
	if err != nil {
		return nil, commentErrors.ErrInvalidAction
	}

	actorID, err := uuid.FromString(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad userId", commentErrors.ErrInvalidCommentData)
	}

	if _, err := s.commentRepo.FindByID(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, commentErrors.ErrCommentNotFound
		}
		return nil, err
	}

	if _, err := s.ledger.Toggle(ctx, actorID, commentID, desired); err != nil {
		if errors.Is(err, reactionServices.ErrInvalidStatus) {
			return nil, commentErrors.ErrInvalidAction
		}
		return nil, err
	}

	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	s.invalidateVideoComments(ctx, comment.VideoID)

	s.broadcaster.Broadcast(comment.VideoID.String(), realtime.EventUpdateCommentStats, map[string]interface{}{
		"commentId":     comment.ID,
		"likesCount":    comment.LikesCount,
		"dislikesCount": comment.DislikesCount,
	})

	return &models.CommentActionResponse{
		Success:       true,
		LikesCount:    comment.LikesCount,
		DislikesCount: comment.DislikesCount,
	}, nil
}

func (s *CommentService) invalidateVideoComments(ctx context.Context, videoID uuid.UUID) {
	if !s.cacheService.IsEnabled() {
		return
	}
	if err := s.cacheService.InvalidateKey(ctx, commentsCacheKey(videoID)); err != nil {
		log.Warn("Failed to invalidate comments cache for video %s: %v", videoID, err)
	}
}
