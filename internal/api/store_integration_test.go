//go:build integration

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theLastOfCats/animewatcher-server/internal/model"
	"github.com/theLastOfCats/animewatcher-server/internal/testutil"
)

func TestWatchlistAndLikesMySQL(t *testing.T) {
	database := testutil.SetupMySQLTestDB(t)
	srv := newTestServer(t, database)
	token := srv.newProfile(t)
	signup(t, srv, token, "mysql@example.com")

	rr := srv.do(t, "POST", "/watchlist/toggle", token, testutil.Anime("9", "Nine", 12))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = srv.do(t, "POST", "/likes/9", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// A second server on the same database sees everything.
	other := newTestServer(t, database)
	rr = other.do(t, "GET", "/watchlist/ids", token, nil)
	assert.Equal(t, []string{"9"}, decode[[]string](t, rr))

	rr = other.do(t, "GET", "/likes/9", token, nil)
	assert.Equal(t, model.LikeResult{Liked: true, Count: 1}, decode[model.LikeResult](t, rr))
}
