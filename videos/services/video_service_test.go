// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services_test

import (
	"context"
	"sync"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/cache"
	profileModels "github.com/vidora/vidora/profile/models"
	profileRepository "github.com/vidora/vidora/profile/repository"
	reactionModels "github.com/vidora/vidora/reactions/models"
	reactionRepository "github.com/vidora/vidora/reactions/repository"
	reactionServices "github.com/vidora/vidora/reactions/services"
	"github.com/vidora/vidora/videos/models"
	"github.com/vidora/vidora/videos/repository"
	"github.com/vidora/vidora/videos/services"
)

// fakeVideoRepository keeps videos in memory with real counter clamping so
// multi-step toggle scenarios exercise the same arithmetic as the SQL layer.
type fakeVideoRepository struct {
	mu     sync.Mutex
	videos map[uuid.UUID]*models.Video
}

func newFakeVideoRepository() *fakeVideoRepository {
	return &fakeVideoRepository{videos: make(map[uuid.UUID]*models.Video)}
}

func (f *fakeVideoRepository) Create(ctx context.Context, video *models.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *video
	f.videos[video.ID] = &copied
	return nil
}

func (f *fakeVideoRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	video, ok := f.videos[id]
	if !ok {
		return nil, repository.ErrVideoNotFound
	}
	copied := *video
	return &copied, nil
}

func (f *fakeVideoRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.videos[id]
	return ok, nil
}

func (f *fakeVideoRepository) FindTrending(ctx context.Context, limit int) ([]models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Video{}
	for _, v := range f.videos {
		out = append(out, *v)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeVideoRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Video{}
	for _, v := range f.videos {
		if v.OwnerID == ownerID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVideoRepository) FindByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]models.Video, error) {
	out := []models.Video{}
	for _, owner := range ownerIDs {
		videos, _ := f.FindByOwner(ctx, owner)
		out = append(out, videos...)
	}
	return out, nil
}

func (f *fakeVideoRepository) ApplyReactionDelta(ctx context.Context, videoID uuid.UUID, likesDelta, dislikesDelta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	video, ok := f.videos[videoID]
	if !ok {
		return repository.ErrVideoNotFound
	}
	video.LikesCount = clamp(video.LikesCount + int64(likesDelta))
	video.DislikesCount = clamp(video.DislikesCount + int64(dislikesDelta))
	return nil
}

func (f *fakeVideoRepository) IncrementCommentCount(ctx context.Context, videoID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	video, ok := f.videos[videoID]
	if !ok {
		return repository.ErrVideoNotFound
	}
	video.CommentsCount++
	return nil
}

func (f *fakeVideoRepository) IncrementViews(ctx context.Context, videoID, viewerID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	video, ok := f.videos[videoID]
	if !ok {
		return repository.ErrVideoNotFound
	}
	video.ViewsCount++
	return nil
}

func (f *fakeVideoRepository) OwnerTotals(ctx context.Context, ownerID uuid.UUID) (*models.ChannelStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &models.ChannelStats{}
	for _, v := range f.videos {
		if v.OwnerID != ownerID {
			continue
		}
		stats.TotalVideos++
		stats.TotalViews += v.ViewsCount
		stats.TotalLikes += v.LikesCount
		stats.TotalComments += v.CommentsCount
	}
	return stats, nil
}

func (f *fakeVideoRepository) ChannelTotals(ctx context.Context, channelID uuid.UUID) (*models.ChannelStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &models.ChannelStats{}
	for _, v := range f.videos {
		if v.OwnerID != channelID || v.Visibility != models.VisibilityPublic {
			continue
		}
		stats.TotalVideos++
		stats.TotalViews += v.ViewsCount
		stats.TotalLikes += v.LikesCount
		stats.TotalComments += v.CommentsCount
	}
	return stats, nil
}

func clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// fakeReactionRepository is an in-memory reaction table keyed by
// (actor, target). afterDelete, when set, runs after a row is removed but
// before the caller applies its counter delta; tests use it to slip another
// writer into that window.
type fakeReactionRepository struct {
	mu          sync.Mutex
	rows        map[[2]uuid.UUID]*reactionModels.Reaction
	afterDelete func()
}

func newFakeReactionRepository() *fakeReactionRepository {
	return &fakeReactionRepository{rows: make(map[[2]uuid.UUID]*reactionModels.Reaction)}
}

func (f *fakeReactionRepository) key(actorID, targetID uuid.UUID) [2]uuid.UUID {
	return [2]uuid.UUID{actorID, targetID}
}

func (f *fakeReactionRepository) Find(ctx context.Context, actorID, targetID uuid.UUID) (*reactionModels.Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[f.key(actorID, targetID)]
	if !ok {
		return nil, reactionRepository.ErrReactionNotFound
	}
	copied := *row
	return &copied, nil
}

func (f *fakeReactionRepository) Upsert(ctx context.Context, reaction *reactionModels.Reaction) (bool, reactionModels.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := f.key(reaction.ActorID, reaction.TargetID)
	if existing, ok := f.rows[key]; ok {
		previous := existing.Status
		existing.Status = reaction.Status
		return false, previous, nil
	}
	copied := *reaction
	f.rows[key] = &copied
	return true, reactionModels.StatusNone, nil
}

func (f *fakeReactionRepository) Delete(ctx context.Context, actorID, targetID uuid.UUID) (bool, reactionModels.Status, error) {
	f.mu.Lock()
	key := f.key(actorID, targetID)
	row, ok := f.rows[key]
	if !ok {
		f.mu.Unlock()
		return false, reactionModels.StatusNone, nil
	}
	delete(f.rows, key)
	status := row.Status
	f.mu.Unlock()

	if f.afterDelete != nil {
		f.afterDelete()
	}
	return true, status, nil
}

func (f *fakeReactionRepository) GetForTargets(ctx context.Context, targetIDs []uuid.UUID, actorID uuid.UUID) (map[uuid.UUID]reactionModels.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uuid.UUID]reactionModels.Status, len(targetIDs))
	for _, target := range targetIDs {
		if row, ok := f.rows[f.key(actorID, target)]; ok {
			out[target] = row.Status
		}
	}
	return out, nil
}

// fakeProfileRepository backs subscription counter tests
type fakeProfileRepository struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*profileModels.UserProfile
}

func newFakeProfileRepository() *fakeProfileRepository {
	return &fakeProfileRepository{profiles: make(map[uuid.UUID]*profileModels.UserProfile)}
}

func (f *fakeProfileRepository) Create(ctx context.Context, profile *profileModels.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *profile
	f.profiles[profile.ID] = &copied
	return nil
}

func (f *fakeProfileRepository) FindByID(ctx context.Context, userID uuid.UUID) (*profileModels.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, profileRepository.ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeProfileRepository) FindByIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]profileModels.UserProfile, error) {
	out := make(map[uuid.UUID]profileModels.UserProfile)
	for _, id := range userIDs {
		if profile, err := f.FindByID(ctx, id); err == nil {
			out[id] = *profile
		}
	}
	return out, nil
}

func (f *fakeProfileRepository) IncrementSubscribers(ctx context.Context, userID uuid.UUID, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[userID]
	if !ok {
		return profileRepository.ErrProfileNotFound
	}
	profile.SubscribersCount = clamp(profile.SubscribersCount + int64(delta))
	return nil
}

// fakeSubscriptionRepository keeps the follow graph in memory
type fakeSubscriptionRepository struct {
	mu   sync.Mutex
	rows map[[2]uuid.UUID]struct{}
}

func newFakeSubscriptionRepository() *fakeSubscriptionRepository {
	return &fakeSubscriptionRepository{rows: make(map[[2]uuid.UUID]struct{})}
}

func (f *fakeSubscriptionRepository) Subscribe(ctx context.Context, viewerID, channelID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uuid.UUID{viewerID, channelID}
	if _, ok := f.rows[key]; ok {
		return false, nil
	}
	f.rows[key] = struct{}{}
	return true, nil
}

func (f *fakeSubscriptionRepository) Unsubscribe(ctx context.Context, viewerID, channelID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uuid.UUID{viewerID, channelID}
	if _, ok := f.rows[key]; !ok {
		return false, nil
	}
	delete(f.rows, key)
	return true, nil
}

func (f *fakeSubscriptionRepository) IsSubscribed(ctx context.Context, viewerID, channelID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[[2]uuid.UUID{viewerID, channelID}]
	return ok, nil
}

func (f *fakeSubscriptionRepository) ChannelsOf(ctx context.Context, viewerID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []uuid.UUID{}
	for key := range f.rows {
		if key[0] == viewerID {
			out = append(out, key[1])
		}
	}
	return out, nil
}

type fixture struct {
	svc       *services.VideoService
	videos    *fakeVideoRepository
	profiles  *fakeProfileRepository
	reactions *fakeReactionRepository
}

func newFixture() *fixture {
	videos := newFakeVideoRepository()
	subs := newFakeSubscriptionRepository()
	profiles := newFakeProfileRepository()
	reactions := newFakeReactionRepository()
	ledger := reactionServices.NewLedger(reactions, videos)
	cacheService := cache.NewGenericCacheService(nil, &cache.CacheConfig{Enabled: false})

	return &fixture{
		svc:       services.NewVideoService(videos, subs, newFakeHistoryRepository(), profiles, ledger, cacheService),
		videos:    videos,
		profiles:  profiles,
		reactions: reactions,
	}
}

type fakeHistoryRepository struct{}

func newFakeHistoryRepository() *fakeHistoryRepository { return &fakeHistoryRepository{} }

func (f *fakeHistoryRepository) FindByViewer(ctx context.Context, viewerID uuid.UUID, limit int) ([]models.WatchEntry, error) {
	return []models.WatchEntry{}, nil
}

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewV4()
	require.NoError(t, err)
	return id
}

func seedVideo(t *testing.T, f *fixture) *models.Video {
	t.Helper()
	video, err := f.svc.CreateVideo(context.Background(), mustUUID(t), &models.CreateVideoRequest{Title: "test"})
	require.NoError(t, err)
	return video
}

func TestVideoAction_ToggleScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	video := seedVideo(t, f)

	userA := mustUUID(t)
	userB := mustUUID(t)

	// A likes
	result, err := f.svc.VideoAction(ctx, userA, video.ID, "like")
	require.NoError(t, err)
	assert.Equal(t, "like", result.Status)
	assert.Equal(t, int64(1), result.LikesCount)
	assert.Equal(t, int64(0), result.DislikesCount)

	// A switches to dislike: both counters move in one step
	result, err = f.svc.VideoAction(ctx, userA, video.ID, "dislike")
	require.NoError(t, err)
	assert.Equal(t, "dislike", result.Status)
	assert.Equal(t, int64(0), result.LikesCount)
	assert.Equal(t, int64(1), result.DislikesCount)

	// A presses dislike again: toggle off
	result, err = f.svc.VideoAction(ctx, userA, video.ID, "dislike")
	require.NoError(t, err)
	assert.Equal(t, "", result.Status)
	assert.Equal(t, int64(0), result.LikesCount)
	assert.Equal(t, int64(0), result.DislikesCount)

	// B likes: exactly one like stands at the end
	result, err = f.svc.VideoAction(ctx, userB, video.ID, "like")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.LikesCount)
	assert.Equal(t, int64(0), result.DislikesCount)

	statusA, err := f.svc.GetActionStatus(ctx, userA, video.ID)
	require.NoError(t, err)
	assert.Equal(t, "", statusA)

	statusB, err := f.svc.GetActionStatus(ctx, userB, video.ID)
	require.NoError(t, err)
	assert.Equal(t, "like", statusB)
}

// The clear path deletes the reaction row and then applies the counter
// decrement as two separate writes. Another user's like must survive with
// the counter at exactly one whether it lands inside that window or after
// the clear has fully completed.
func TestVideoAction_ClearOverlapsOtherLike(t *testing.T) {
	for _, interleaved := range []bool{false, true} {
		name := "after clear completes"
		if interleaved {
			name = "inside clear window"
		}
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			video := seedVideo(t, f)

			userA := mustUUID(t)
			userB := mustUUID(t)

			_, err := f.svc.VideoAction(ctx, userA, video.ID, "like")
			require.NoError(t, err)

			likeAsB := func() {
				result, err := f.svc.VideoAction(ctx, userB, video.ID, "like")
				require.NoError(t, err)
				assert.Equal(t, "like", result.Status)
			}

			if interleaved {
				f.reactions.afterDelete = func() {
					f.reactions.afterDelete = nil
					likeAsB()
				}
			}

			// A presses like again: toggle off
			result, err := f.svc.VideoAction(ctx, userA, video.ID, "like")
			require.NoError(t, err)
			assert.Equal(t, "", result.Status)

			if !interleaved {
				likeAsB()
			}

			stored, err := f.svc.GetVideo(ctx, video.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), stored.LikesCount)
			assert.Equal(t, int64(0), stored.DislikesCount)

			statusA, err := f.svc.GetActionStatus(ctx, userA, video.ID)
			require.NoError(t, err)
			assert.Equal(t, "", statusA)

			statusB, err := f.svc.GetActionStatus(ctx, userB, video.ID)
			require.NoError(t, err)
			assert.Equal(t, "like", statusB)
		})
	}
}

func TestVideoAction_InvalidAction(t *testing.T) {
	f := newFixture()
	video := seedVideo(t, f)

	_, err := f.svc.VideoAction(context.Background(), mustUUID(t), video.ID, "love")
	assert.ErrorIs(t, err, services.ErrInvalidAction)

	// Nothing mutated
	stored, err := f.svc.GetVideo(context.Background(), video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.LikesCount)
}

func TestVideoAction_VideoNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.VideoAction(context.Background(), mustUUID(t), mustUUID(t), "like")
	assert.ErrorIs(t, err, services.ErrVideoNotFound)
}

func TestRemoveVideoAction_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	video := seedVideo(t, f)
	user := mustUUID(t)

	_, err := f.svc.VideoAction(ctx, user, video.ID, "like")
	require.NoError(t, err)

	result, err := f.svc.RemoveVideoAction(ctx, user, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.LikesCount)

	// Clearing again stays at zero, never negative
	result, err = f.svc.RemoveVideoAction(ctx, user, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.LikesCount)
	assert.Equal(t, int64(0), result.DislikesCount)
}

func TestIncrementCommentCount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	video := seedVideo(t, f)

	require.NoError(t, f.svc.IncrementCommentCount(ctx, video.ID))
	require.NoError(t, f.svc.IncrementCommentCount(ctx, video.ID))

	stored, err := f.svc.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.CommentsCount)

	err = f.svc.IncrementCommentCount(ctx, mustUUID(t))
	assert.ErrorIs(t, err, services.ErrVideoNotFound)
}

func TestSubscribe_CountsOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	channel := mustUUID(t)
	viewer := mustUUID(t)
	require.NoError(t, f.profiles.Create(ctx, &profileModels.UserProfile{ID: channel, Username: "channel"}))

	require.NoError(t, f.svc.Subscribe(ctx, viewer, channel))
	// Repeat subscription must not bump the counter again
	require.NoError(t, f.svc.Subscribe(ctx, viewer, channel))

	profile, err := f.profiles.FindByID(ctx, channel)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.SubscribersCount)

	require.NoError(t, f.svc.Unsubscribe(ctx, viewer, channel))
	require.NoError(t, f.svc.Unsubscribe(ctx, viewer, channel))

	profile, err = f.profiles.FindByID(ctx, channel)
	require.NoError(t, err)
	assert.Equal(t, int64(0), profile.SubscribersCount)
}

func TestSubscribe_SelfRejected(t *testing.T) {
	f := newFixture()
	user := mustUUID(t)

	err := f.svc.Subscribe(context.Background(), user, user)
	assert.ErrorIs(t, err, services.ErrSelfSubscription)
}

func TestGetChannelStats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := mustUUID(t)
	require.NoError(t, f.profiles.Create(ctx, &profileModels.UserProfile{ID: owner, Username: "owner", SubscribersCount: 7}))

	for i := 0; i < 3; i++ {
		_, err := f.svc.CreateVideo(ctx, owner, &models.CreateVideoRequest{Title: "v"})
		require.NoError(t, err)
	}
	videos, err := f.svc.GetChannelVideos(ctx, owner)
	require.NoError(t, err)
	for _, v := range videos {
		require.NoError(t, f.svc.IncrementCommentCount(ctx, v.ID))
	}

	stats, err := f.svc.GetChannelStats(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalVideos)
	assert.Equal(t, int64(3), stats.TotalComments)
	assert.Equal(t, int64(7), stats.Subscribers)
}

func TestCreateVideo_VisibilityDefaultsToPublic(t *testing.T) {
	f := newFixture()

	video, err := f.svc.CreateVideo(context.Background(), mustUUID(t), &models.CreateVideoRequest{Title: "no visibility"})
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPublic, video.Visibility)

	_, err = f.svc.CreateVideo(context.Background(), mustUUID(t), &models.CreateVideoRequest{Title: "bad", Visibility: "secret"})
	assert.ErrorIs(t, err, services.ErrInvalidVisibility)
}

func TestGetPublicChannelStats_SkipsNonPublicVideos(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := mustUUID(t)
	require.NoError(t, f.profiles.Create(ctx, &profileModels.UserProfile{ID: owner, Username: "owner", SubscribersCount: 3}))

	_, err := f.svc.CreateVideo(ctx, owner, &models.CreateVideoRequest{Title: "public upload"})
	require.NoError(t, err)
	_, err = f.svc.CreateVideo(ctx, owner, &models.CreateVideoRequest{Title: "draft", Visibility: models.VisibilityPrivate})
	require.NoError(t, err)

	stats, err := f.svc.GetPublicChannelStats(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalVideos)
	assert.Equal(t, int64(3), stats.Subscribers)
}

func TestWatchVideo_RecordsView(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	video := seedVideo(t, f)

	watched, err := f.svc.WatchVideo(ctx, mustUUID(t), video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), watched.ViewsCount)

	_, err = f.svc.WatchVideo(ctx, mustUUID(t), mustUUID(t))
	assert.ErrorIs(t, err, services.ErrVideoNotFound)
}
