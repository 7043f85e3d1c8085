package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journeyreads/journey-server/internal/domain"
	"github.com/journeyreads/journey-server/internal/service"
)

func TestToggleLike(t *testing.T) {
	server, provider := setupTestServer(t)

	token := createTestUserWithToken(t, server, "user-1", "maria")
	provider.add("vol-1", "Piranesi")

	w := doJSON(t, server, http.MethodPost, "/api/v1/lists/", "", createListRequest("Favourites", "vol-1"))
	require.Equal(t, http.StatusCreated, w.Code)

	var created domain.List
	decodeEnvelope(t, w, &created)

	// Liking requires auth.
	w = doJSON(t, server, http.MethodPost, "/api/v1/lists/"+created.ID+"/like", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Toggle on.
	w = doJSON(t, server, http.MethodPost, "/api/v1/lists/"+created.ID+"/like", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var state service.LikeState
	decodeEnvelope(t, w, &state)
	assert.True(t, state.Liked)
	assert.EqualValues(t, 1, state.LikeCount)

	// Toggle off.
	w = doJSON(t, server, http.MethodPost, "/api/v1/lists/"+created.ID+"/like", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	decodeEnvelope(t, w, &state)
	assert.False(t, state.Liked)
	assert.EqualValues(t, 0, state.LikeCount)
}

func TestGetLikeState_Anonymous(t *testing.T) {
	server, provider := setupTestServer(t)

	token := createTestUserWithToken(t, server, "user-1", "maria")
	provider.add("vol-1", "Piranesi")

	w := doJSON(t, server, http.MethodPost, "/api/v1/lists/", "", createListRequest("Favourites", "vol-1"))
	require.Equal(t, http.StatusCreated, w.Code)

	var created domain.List
	decodeEnvelope(t, w, &created)

	w = doJSON(t, server, http.MethodPost, "/api/v1/lists/"+created.ID+"/like", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Anonymous readers see the count without a liked flag.
	w = doJSON(t, server, http.MethodGet, "/api/v1/lists/"+created.ID+"/like", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var state service.LikeState
	decodeEnvelope(t, w, &state)
	assert.False(t, state.Liked)
	assert.EqualValues(t, 1, state.LikeCount)
}

func TestToggleLike_ListNotFound(t *testing.T) {
	server, _ := setupTestServer(t)

	token := createTestUserWithToken(t, server, "user-1", "maria")

	w := doJSON(t, server, http.MethodPost, "/api/v1/lists/list-missing/like", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMyLikes(t *testing.T) {
	server, provider := setupTestServer(t)

	token := createTestUserWithToken(t, server, "user-1", "maria")
	provider.add("vol-1", "Piranesi")

	w := doJSON(t, server, http.MethodPost, "/api/v1/lists/", "", createListRequest("Favourites", "vol-1"))
	require.Equal(t, http.StatusCreated, w.Code)

	var created domain.List
	decodeEnvelope(t, w, &created)

	w = doJSON(t, server, http.MethodPost, "/api/v1/lists/"+created.ID+"/like", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, server, http.MethodGet, "/api/v1/me/likes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var lists []domain.List
	decodeEnvelope(t, w, &lists)
	require.Len(t, lists, 1)
	assert.Equal(t, created.ID, lists[0].ID)
}
