package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/club-service/internal/domain"
	"github.com/tazhibayda/club-service/internal/queue"
	"github.com/tazhibayda/club-service/internal/service"
)

func newLikesEnv(t *testing.T) (*memStore, *fakePusher, *service.Likes) {
	t.Helper()
	store := newMemStore()
	push := &fakePusher{}
	notifs := service.NewNotifications(store, store, push, queue.NewNoop(), "test.events")
	return store, push, service.NewLikes(store, store, notifs, push)
}

func TestToggle_AlternatesState(t *testing.T) {
	store, _, svc := newLikesEnv(t)
	author := store.addUser("a", "a@example.com")
	liker := store.addUser("b", "b@example.com")
	post := store.addPost(author, nil)
	ctx := context.Background()

	liked, err := svc.Toggle(ctx, post.ID, liker.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	has, err := svc.IsLikedByUser(ctx, post.ID, liker.ID)
	require.NoError(t, err)
	assert.True(t, has)

	liked, err = svc.Toggle(ctx, post.ID, liker.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	count, err := svc.Count(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestToggle_UnknownPost(t *testing.T) {
	store, _, svc := newLikesEnv(t)
	user := store.addUser("a", "a@example.com")

	_, err := svc.Toggle(context.Background(), primitive.NewObjectID(), user.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestToggle_RacingInsertCountsAsLiked(t *testing.T) {
	store, _, svc := newLikesEnv(t)
	author := store.addUser("a", "a@example.com")
	liker := store.addUser("b", "b@example.com")
	post := store.addPost(author, nil)
	ctx := context.Background()

	// another session inserts the same like between our existence check and
	// our insert; the duplicate must read as success
	store.likeInsertHook = func() {
		store.likeInsertHook = nil
		store.likes[likeKey(post.ID, liker.ID)] = &domain.Like{
			ID: primitive.NewObjectID(), PostID: post.ID, UserID: liker.ID,
		}
	}

	liked, err := svc.Toggle(ctx, post.ID, liker.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	count, err := svc.Count(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestToggle_NotifiesAuthorOnLikeOnly(t *testing.T) {
	store, _, svc := newLikesEnv(t)
	author := store.addUser("a", "a@example.com")
	liker := store.addUser("b", "b@example.com")
	post := store.addPost(author, nil)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, post.ID, liker.ID) // like
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, post.ID, liker.ID) // unlike
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, post.ID, liker.ID) // like again
	require.NoError(t, err)

	got, err := store.ListNotifications(ctx, author.ID, false, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, n := range got {
		assert.Equal(t, domain.NotifPostLiked, n.Type)
		require.NotNil(t, n.ActorID)
		assert.Equal(t, liker.ID, *n.ActorID)
	}
}

func TestToggle_OwnPostNoNotification(t *testing.T) {
	store, _, svc := newLikesEnv(t)
	author := store.addUser("a", "a@example.com")
	post := store.addPost(author, nil)
	ctx := context.Background()

	liked, err := svc.Toggle(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := store.ListNotifications(ctx, author.ID, false, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestToggle_BroadcastsCountToClub(t *testing.T) {
	store, push, svc := newLikesEnv(t)
	author := store.addUser("a", "a@example.com")
	liker := store.addUser("b", "b@example.com")
	clubID := primitive.NewObjectID()
	post := store.addPost(author, &clubID)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, post.ID, liker.ID)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, post.ID, liker.ID)
	require.NoError(t, err)

	events := push.byType("like", "UPDATED")
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, "club", ev.Kind)
		assert.Equal(t, clubID.Hex(), ev.Target)
	}
	first := events[0].Env.Payload.(map[string]interface{})
	assert.EqualValues(t, 1, first["count"])
	second := events[1].Env.Payload.(map[string]interface{})
	assert.EqualValues(t, 0, second["count"])
}
