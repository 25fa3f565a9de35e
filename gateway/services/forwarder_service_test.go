// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services_test

import (
	"context"
	"errors"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	commentModels "github.com/vidora/vidora/comments/models"
	gatewayErrors "github.com/vidora/vidora/gateway/errors"
	"github.com/vidora/vidora/internal/adapters"
	"github.com/vidora/vidora/gateway/services"
	"github.com/vidora/vidora/internal/types"
	profileModels "github.com/vidora/vidora/profile/models"
	profileRepository "github.com/vidora/vidora/profile/repository"
)

const serviceName = "comment-service"

// mockCommentClient counts every outbound call so circuit tests can assert
// the downstream was never touched.
type mockCommentClient struct {
	mock.Mock
	calls int
}

func (m *mockCommentClient) CreateComment(ctx context.Context, req *commentModels.CreateCommentRequest) (*commentModels.Comment, error) {
	m.calls++
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commentModels.Comment), args.Error(1)
}

func (m *mockCommentClient) ListComments(ctx context.Context, videoID uuid.UUID) ([]commentModels.Comment, error) {
	m.calls++
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commentModels.Comment), args.Error(1)
}

func (m *mockCommentClient) CommentAction(ctx context.Context, commentID uuid.UUID, req *commentModels.CommentActionRequest) (*commentModels.CommentActionResponse, error) {
	m.calls++
	args := m.Called(ctx, commentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commentModels.CommentActionResponse), args.Error(1)
}

type mockProfileRepository struct {
	mock.Mock
}

func (m *mockProfileRepository) Create(ctx context.Context, profile *profileModels.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockProfileRepository) FindByID(ctx context.Context, userID uuid.UUID) (*profileModels.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profileModels.UserProfile), args.Error(1)
}

func (m *mockProfileRepository) FindByIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]profileModels.UserProfile, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]profileModels.UserProfile), args.Error(1)
}

func (m *mockProfileRepository) IncrementSubscribers(ctx context.Context, userID uuid.UUID, delta int) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}

// staticHealth is a HealthChecker with a fixed verdict
type staticHealth struct {
	up bool
}

func (h staticHealth) IsUp(string) bool { return h.up }

// staticVideos answers every existence check the same way
type staticVideos struct {
	exists bool
	err    error
}

func (v staticVideos) Exists(ctx context.Context, videoID uuid.UUID) (bool, error) {
	return v.exists, v.err
}

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewV4()
	require.NoError(t, err)
	return id
}

func testUser(t *testing.T) *types.UserContext {
	t.Helper()
	return &types.UserContext{
		UserID:      mustUUID(t),
		Username:    "alice",
		AvatarURL:   "https://cdn.example.com/alice.png",
		ChannelName: "Alice's Channel",
	}
}

func TestCreateComment_CircuitOpen(t *testing.T) {
	client := &mockCommentClient{}
	profiles := &mockProfileRepository{}
	forwarder := services.NewForwarderService(client, staticHealth{up: false}, staticVideos{exists: true}, profiles, serviceName)

	comment, err := forwarder.CreateComment(context.Background(), testUser(t), mustUUID(t), "hello", "")

	assert.Nil(t, comment)
	assert.ErrorIs(t, err, gatewayErrors.ErrCommentServiceDown)
	assert.Zero(t, client.calls, "no outbound call may happen while the circuit is open")
}

func TestCommentAction_CircuitOpen(t *testing.T) {
	client := &mockCommentClient{}
	profiles := &mockProfileRepository{}
	forwarder := services.NewForwarderService(client, staticHealth{up: false}, staticVideos{exists: true}, profiles, serviceName)

	result, err := forwarder.CommentAction(context.Background(), testUser(t), mustUUID(t), "like")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, gatewayErrors.ErrCommentServiceDown)
	assert.Zero(t, client.calls)
}

func TestListComments_CircuitOpen_ReturnsEmpty(t *testing.T) {
	client := &mockCommentClient{}
	profiles := &mockProfileRepository{}
	forwarder := services.NewForwarderService(client, staticHealth{up: false}, staticVideos{exists: true}, profiles, serviceName)

	comments, err := forwarder.ListComments(context.Background(), mustUUID(t))

	require.NoError(t, err, "degraded reads must not error")
	assert.Empty(t, comments)
	assert.NotNil(t, comments, "degraded reads serialize as [] not null")
	assert.Zero(t, client.calls)
}

func TestListComments_DownstreamFailure_ReturnsEmpty(t *testing.T) {
	client := &mockCommentClient{}
	profiles := &mockProfileRepository{}
	forwarder := services.NewForwarderService(client, staticHealth{up: true}, staticVideos{exists: true}, profiles, serviceName)

	videoID := mustUUID(t)
	client.On("ListComments", mock.Anything, videoID).Return(nil, errors.New("connection refused"))

	comments, err := forwarder.ListComments(context.Background(), videoID)

	require.NoError(t, err)
	assert.Empty(t, comments)
	client.AssertExpectations(t)
}

func TestListComments_EnrichesAuthors(t *testing.T) {
	client := &mockCommentClient{}
	profiles := &mockProfileRepository{}
	forwarder := services.NewForwarderService(client, staticHealth{up: true}, staticVideos{exists: true}, profiles, serviceName)

	videoID := mustUUID(t)
	known := mustUUID(t)
	ghost := mustUUID(t)

	raw := []commentModels.Comment{
		{ID: mustUUID(t), VideoID: videoID, AuthorID: known, Content: "first"},
		{ID: mustUUID(t), VideoID: videoID, AuthorID: ghost, Content: "second"},
		{ID: mustUUID(t), VideoID: videoID, AuthorID: known, Content: "third"},
	}
	client.On("ListComments", mock.Anything, videoID).Return(raw, nil)

	// Batch lookup must be deduplicated: two distinct authors, one query.
	profiles.On("FindByIDs", mock.Anything, mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 2
	})).Return(map[uuid.UUID]profileModels.UserProfile{
		known: {ID: known, Username: "bob", ChannelName: "Bob TV"},
	}, nil)

	enriched, err := forwarder.ListComments(context.Background(), videoID)

	require.NoError(t, err)
	require.Len(t, enriched, 3)
	assert.Equal(t, "bob", enriched[0].User.Username)
	assert.Equal(t, "bob", enriched[2].User.Username)

	// The author the identity store no longer knows becomes the placeholder,
	// never a dropped comment.
	assert.Equal(t, profileModels.PlaceholderUsername, enriched[1].User.Username)
	assert.Equal(t, ghost, enriched[1].User.ID)
	profiles.AssertExpectations(t)
}

func TestListComments_ProfileLookupFailure_UsesPlaceholders(t *testing.T) {
	client := &mockCommentClient{}
	profiles := &mockProfileRepository{}
	forwarder := services.NewForwarderService(client, staticHealth{up: true}, staticVideos{exists: true}, profiles, serviceName)

	videoID := mustUUID(t)
	author := mustUUID(t)
	client.On("ListComments", mock.Anything, videoID).Return([]commentModels.Comment{
		{ID: mustUUID(t), VideoID: videoID, AuthorID: author, Content: "hi"},
	}, nil)
	profiles.On("FindByIDs", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	enriched, err := forwarder.ListComments(context.Background(), videoID)

	require.NoError(t, err)
	require.Len(t, enriched, 1)
	assert.Equal(t, profileModels.PlaceholderUsername, enriched[0].User.Username)
}

func TestCreateComment_UnknownVideo(t *testing.T) {
	client := &mockCommentClient{}
	profiles := &mockProfileRepository{}
	forwarder := services.NewForwarderService(client, staticHealth{up: true}, staticVideos{exists: false}, profiles, serviceName)

	comment, err := forwarder.CreateComment(context.Background(), testUser(t), mustUUID(t), "hello", "")

	assert.Nil(t, comment)
	assert.ErrorIs(t, err, gatewayErrors.ErrVideoNotFound)
	assert.Zero(t, client.calls, "nothing is forwarded for a video that does not exist")
}

func TestCreateComment_AttachesIdentitySnapshot(t *testing.T) {
	client := &mockCommentClient{}
	profiles := &mockProfileRepository{}
	forwarder := services.NewForwarderService(client, staticHealth{up: true}, staticVideos{exists: true}, profiles, serviceName)

	user := testUser(t)
	videoID := mustUUID(t)
	stored := &commentModels.Comment{ID: mustUUID(t), VideoID: videoID, AuthorID: user.UserID, Content: "hello"}

	// The identity store has moved on since the token was minted; the
	// forwarded snapshot must carry the store's view, not the stale claims.
	profiles.On("FindByID", mock.Anything, user.UserID).Return(&profileModels.UserProfile{
		ID:          user.UserID,
		Username:    "renamed-alice",
		AvatarURL:   "https://cdn.example.com/renamed.png",
		ChannelName: "Renamed Channel",
	}, nil)

	client.On("CreateComment", mock.Anything, mock.MatchedBy(func(req *commentModels.CreateCommentRequest) bool {
		return req.UserID == user.UserID.String() &&
			req.VideoID == videoID.String() &&
			req.UserData.Username == "renamed-alice" &&
			req.UserData.ChannelName == "Renamed Channel"
	})).Return(stored, nil)

	comment, err := forwarder.CreateComment(context.Background(), user, videoID, "hello", "")

	require.NoError(t, err)
	assert.Equal(t, stored.ID, comment.ID)
	profiles.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestCreateComment_UnknownProfileFallsBackToClaims(t *testing.T) {
	client := &mockCommentClient{}
	profiles := &mockProfileRepository{}
	forwarder := services.NewForwarderService(client, staticHealth{up: true}, staticVideos{exists: true}, profiles, serviceName)

	user := testUser(t)
	videoID := mustUUID(t)
	stored := &commentModels.Comment{ID: mustUUID(t), VideoID: videoID, AuthorID: user.UserID, Content: "hello"}

	profiles.On("FindByID", mock.Anything, user.UserID).Return(nil, profileRepository.ErrProfileNotFound)

	client.On("CreateComment", mock.Anything, mock.MatchedBy(func(req *commentModels.CreateCommentRequest) bool {
		return req.UserData.Username == user.Username &&
			req.UserData.ChannelName == user.ChannelName
	})).Return(stored, nil)

	comment, err := forwarder.CreateComment(context.Background(), user, videoID, "hello", "")

	require.NoError(t, err)
	assert.Equal(t, stored.ID, comment.ID)
	client.AssertExpectations(t)
}

func TestCreateComment_DownstreamErrorSurfaces(t *testing.T) {
	client := &mockCommentClient{}
	profiles := &mockProfileRepository{}
	forwarder := services.NewForwarderService(client, staticHealth{up: true}, staticVideos{exists: true}, profiles, serviceName)

	downstream := &adapters.DownstreamError{StatusCode: 400, Body: []byte(`{"code":"VALIDATION_FAILED"}`)}
	profiles.On("FindByID", mock.Anything, mock.Anything).Return(nil, profileRepository.ErrProfileNotFound)
	client.On("CreateComment", mock.Anything, mock.Anything).Return(nil, downstream)

	comment, err := forwarder.CreateComment(context.Background(), testUser(t), mustUUID(t), "hello", "")

	assert.Nil(t, comment)
	var got *adapters.DownstreamError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 400, got.StatusCode)
}

func TestCommentAction_Forwards(t *testing.T) {
	client := &mockCommentClient{}
	profiles := &mockProfileRepository{}
	forwarder := services.NewForwarderService(client, staticHealth{up: true}, staticVideos{exists: true}, profiles, serviceName)

	user := testUser(t)
	commentID := mustUUID(t)
	client.On("CommentAction", mock.Anything, commentID, mock.MatchedBy(func(req *commentModels.CommentActionRequest) bool {
		return req.UserID == user.UserID.String() && req.Action == "like"
	})).Return(&commentModels.CommentActionResponse{Success: true, LikesCount: 4}, nil)

	result, err := forwarder.CommentAction(context.Background(), user, commentID, "like")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(4), result.LikesCount)
	client.AssertExpectations(t)
}
