package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theLastOfCats/animewatcher-server/internal/catalog"
	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

func TestCatalogSectionsFallBack(t *testing.T) {
	srv := newTestServer(t, kv.NewMemoryStore())

	rr := srv.do(t, "GET", "/catalog/trending", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, catalog.Fallback(), decode[[]model.Anime](t, rr))

	rr = srv.do(t, "GET", "/catalog/nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = srv.do(t, "GET", "/catalog/search?q=naruto", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]model.Anime](t, rr))

	rr = srv.do(t, "GET", "/catalog/genre/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnimeDetailsCarryLikes(t *testing.T) {
	srv := newTestServer(t, kv.NewMemoryStore())
	token := srv.newProfile(t)
	signup(t, srv, token, "ann@example.com")

	want := catalog.Fallback()[0]
	rr := srv.do(t, "POST", "/likes/"+want.ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = srv.do(t, "GET", "/anime/"+want.ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[model.Anime](t, rr)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, 1, got.Likes)

	rr = srv.do(t, "GET", "/anime/"+want.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestEmbed(t *testing.T) {
	srv := newTestServer(t, kv.NewMemoryStore())

	rr := srv.do(t, "GET", "/embed/1429", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	all := decode[[]EmbedResponse](t, rr)
	require.Len(t, all, len(catalog.Providers))
	assert.Equal(t, "https://embed.su/embed/tv/1429/1/1", all[1].URL)

	rr = srv.do(t, "GET", "/embed/1429?provider=vidsrc2&season=2&episode=5", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []EmbedResponse{{Provider: "vidsrc2", URL: "https://vidsrc.to/embed/tv/1429/2/5"}}, decode[[]EmbedResponse](t, rr))

	rr = srv.do(t, "GET", "/embed/550?provider=vidsrc2&type=movie&season=3", "", nil)
	assert.Equal(t, "https://vidsrc.to/embed/movie/550", decode[[]EmbedResponse](t, rr)[0].URL)

	rr = srv.do(t, "GET", "/embed/1?provider=nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
