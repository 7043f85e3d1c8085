package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journeyreads/journey-server/internal/domain"
	"github.com/journeyreads/journey-server/internal/service"
)

func createListRequest(title string, bookIDs ...string) map[string]any {
	items := make([]map[string]string, 0, len(bookIDs))
	for _, bookID := range bookIDs {
		items = append(items, map[string]string{"book_id": bookID})
	}
	return map[string]any{"title": title, "items": items}
}

func TestCreateList_Anonymous(t *testing.T) {
	server, provider := setupTestServer(t)

	provider.add("vol-1", "Piranesi")
	provider.add("vol-2", "Circe")

	w := doJSON(t, server, http.MethodPost, "/api/v1/lists/", "", createListRequest("Books that rewired me", "vol-1", "vol-2"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var list domain.List
	env := decodeEnvelope(t, w, &list)
	assert.True(t, env.Success)
	assert.True(t, list.IsAnonymous)
	assert.NotNil(t, list.ExpiresAt)
	assert.NotEmpty(t, list.Slug)
	assert.Equal(t, "/share/"+list.Slug, list.SharePath)
	assert.Len(t, list.Items, 2)
}

func TestCreateList_Owned(t *testing.T) {
	server, provider := setupTestServer(t)

	token := createTestUserWithToken(t, server, "user-1", "maria")
	provider.add("vol-1", "Piranesi")

	w := doJSON(t, server, http.MethodPost, "/api/v1/lists/", token, createListRequest("Favourites", "vol-1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var list domain.List
	decodeEnvelope(t, w, &list)
	assert.Equal(t, "user-1", list.OwnerID)
	assert.False(t, list.IsAnonymous)
	assert.Nil(t, list.ExpiresAt)
	assert.Equal(t, "/profile/maria/"+list.Slug, list.SharePath)
}

func TestCreateList_OwnedWithoutHandle(t *testing.T) {
	server, provider := setupTestServer(t)

	token := createTestUserWithToken(t, server, "user-1", "")
	provider.add("vol-1", "Piranesi")

	w := doJSON(t, server, http.MethodPost, "/api/v1/lists/", token, createListRequest("Favourites", "vol-1"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateList_Validation(t *testing.T) {
	server, _ := setupTestServer(t)

	// No items.
	w := doJSON(t, server, http.MethodPost, "/api/v1/lists/", "", map[string]any{"title": "Empty"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Five items.
	w = doJSON(t, server, http.MethodPost, "/api/v1/lists/", "", createListRequest("Too many", "a", "b", "c", "d", "e"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Garbage body.
	w = doJSON(t, server, http.MethodPost, "/api/v1/lists/", "", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetListBySlug(t *testing.T) {
	server, provider := setupTestServer(t)

	provider.add("vol-1", "Piranesi")

	w := doJSON(t, server, http.MethodPost, "/api/v1/lists/", "", createListRequest("Favourites", "vol-1"))
	require.Equal(t, http.StatusCreated, w.Code)

	var created domain.List
	decodeEnvelope(t, w, &created)

	w = doJSON(t, server, http.MethodGet, "/api/v1/lists/"+created.Slug, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got service.ListWithBooks
	decodeEnvelope(t, w, &got)
	assert.Equal(t, created.ID, got.List.ID)
	require.Len(t, got.Books, 1)
	assert.Equal(t, "Piranesi", got.Books[0].Title)
}

func TestGetListBySlug_NotFound(t *testing.T) {
	server, _ := setupTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/api/v1/lists/no-such-slug", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteList(t *testing.T) {
	server, provider := setupTestServer(t)

	token := createTestUserWithToken(t, server, "user-1", "maria")
	otherToken := createTestUserWithToken(t, server, "user-2", "joni")
	provider.add("vol-1", "Piranesi")

	w := doJSON(t, server, http.MethodPost, "/api/v1/lists/", token, createListRequest("Favourites", "vol-1"))
	require.Equal(t, http.StatusCreated, w.Code)

	var created domain.List
	decodeEnvelope(t, w, &created)

	// Not the owner.
	w = doJSON(t, server, http.MethodDelete, "/api/v1/lists/"+created.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// No auth at all.
	w = doJSON(t, server, http.MethodDelete, "/api/v1/lists/"+created.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Owner.
	w = doJSON(t, server, http.MethodDelete, "/api/v1/lists/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, server, http.MethodGet, "/api/v1/lists/"+created.Slug, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMyLists(t *testing.T) {
	server, provider := setupTestServer(t)

	token := createTestUserWithToken(t, server, "user-1", "maria")
	provider.add("vol-1", "Piranesi")

	w := doJSON(t, server, http.MethodPost, "/api/v1/lists/", token, createListRequest("Favourites", "vol-1"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, server, http.MethodGet, "/api/v1/me/lists", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var lists []domain.List
	decodeEnvelope(t, w, &lists)
	assert.Len(t, lists, 1)
}

func TestPopularLists(t *testing.T) {
	server, provider := setupTestServer(t)

	provider.add("vol-1", "Piranesi")

	w := doJSON(t, server, http.MethodPost, "/api/v1/lists/", "", createListRequest("Favourites", "vol-1"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, server, http.MethodGet, "/api/v1/lists/popular", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var lists []domain.List
	decodeEnvelope(t, w, &lists)
	assert.Len(t, lists, 1)

	w = doJSON(t, server, http.MethodGet, "/api/v1/lists/popular?limit=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
