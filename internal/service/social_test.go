package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journeyreads/journey-server/internal/errors"
)

// newTestSocialService wires like handling plus a list service for fixtures.
func newTestSocialService(t *testing.T) (*SocialService, *ListService, *fakeProvider, func(t *testing.T, userID, handle string)) {
	t.Helper()

	lists, st, provider := newTestListService(t)
	svc := NewSocialService(st, slog.New(slog.DiscardHandler))
	seed := func(t *testing.T, userID, handle string) {
		seedTestUser(t, st, userID, handle)
	}
	return svc, lists, provider, seed
}

func TestSocialService_Toggle(t *testing.T) {
	svc, lists, provider, seed := newTestSocialService(t)
	ctx := context.Background()

	seed(t, "user-1", "maria")
	provider.add("vol-1", "Piranesi")

	list, err := lists.Create(ctx, listInput("Favourites", "vol-1"))
	require.NoError(t, err)

	state, err := svc.Toggle(ctx, "user-1", list.ID)
	require.NoError(t, err)
	assert.True(t, state.Liked)
	assert.EqualValues(t, 1, state.LikeCount)

	state, err = svc.Toggle(ctx, "user-1", list.ID)
	require.NoError(t, err)
	assert.False(t, state.Liked)
	assert.EqualValues(t, 0, state.LikeCount)
}

func TestSocialService_Toggle_ListNotFound(t *testing.T) {
	svc, _, _, seed := newTestSocialService(t)

	seed(t, "user-1", "maria")

	_, err := svc.Toggle(context.Background(), "user-1", "list-missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound), "got %v", err)
}

func TestSocialService_State(t *testing.T) {
	svc, lists, provider, seed := newTestSocialService(t)
	ctx := context.Background()

	seed(t, "user-1", "maria")
	seed(t, "user-2", "joni")
	provider.add("vol-1", "Piranesi")

	list, err := lists.Create(ctx, listInput("Favourites", "vol-1"))
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, "user-1", list.ID)
	require.NoError(t, err)

	state, err := svc.State(ctx, "user-1", list.ID)
	require.NoError(t, err)
	assert.True(t, state.Liked)
	assert.EqualValues(t, 1, state.LikeCount)

	state, err = svc.State(ctx, "user-2", list.ID)
	require.NoError(t, err)
	assert.False(t, state.Liked)
	assert.EqualValues(t, 1, state.LikeCount)

	// Anonymous viewers still see the count.
	state, err = svc.State(ctx, "", list.ID)
	require.NoError(t, err)
	assert.False(t, state.Liked)
	assert.EqualValues(t, 1, state.LikeCount)
}

func TestSocialService_Liked(t *testing.T) {
	svc, lists, provider, seed := newTestSocialService(t)
	ctx := context.Background()

	seed(t, "user-1", "maria")
	provider.add("vol-1", "Piranesi")
	provider.add("vol-2", "Circe")

	first, err := lists.Create(ctx, listInput("First", "vol-1"))
	require.NoError(t, err)
	second, err := lists.Create(ctx, listInput("Second", "vol-2"))
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, "user-1", first.ID)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = svc.Toggle(ctx, "user-1", second.ID)
	require.NoError(t, err)

	liked, err := svc.Liked(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, liked, 2)
	// Most recent like first.
	assert.Equal(t, second.ID, liked[0].ID)
	assert.Equal(t, first.ID, liked[1].ID)

	var ids []string
	for _, l := range liked {
		ids = append(ids, l.ID)
	}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
}

func TestSocialService_Liked_Empty(t *testing.T) {
	svc, _, _, seed := newTestSocialService(t)

	seed(t, "user-1", "maria")

	liked, err := svc.Liked(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, liked)
}
