package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

func signup(t *testing.T, srv *testServer, token, email string) model.User {
	t.Helper()
	rr := srv.do(t, "POST", "/auth/signup", token, SignupRequest{
		Email:           email,
		Username:        "ann",
		Password:        "securepassword",
		ConfirmPassword: "securepassword",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[model.User](t, rr)
}

func TestSignupLoginLogout(t *testing.T) {
	srv := newTestServer(t, kv.NewMemoryStore())
	token := srv.newProfile(t)

	user := signup(t, srv, token, "ann@example.com")
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.Contains(t, user.Avatar, "name=ann")

	rr := srv.do(t, "GET", "/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, user.ID, decode[model.User](t, rr).ID)

	rr = srv.do(t, "POST", "/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = srv.do(t, "GET", "/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = srv.do(t, "POST", "/auth/login", token, LoginRequest{Email: "ann@example.com", Password: "wrongpassword"})
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = srv.do(t, "POST", "/auth/login", token, LoginRequest{Email: "ann@example.com", Password: "securepassword"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, user.ID, decode[model.User](t, rr).ID)
}

func TestSignupRejections(t *testing.T) {
	srv := newTestServer(t, kv.NewMemoryStore())
	token := srv.newProfile(t)
	signup(t, srv, token, "ann@example.com")

	tests := []struct {
		name string
		req  SignupRequest
		want int
	}{
		{"duplicate email", SignupRequest{Email: "ann@example.com", Username: "x", Password: "p", ConfirmPassword: "p"}, http.StatusConflict},
		{"password mismatch", SignupRequest{Email: "b@example.com", Username: "x", Password: "p", ConfirmPassword: "q"}, http.StatusBadRequest},
		{"missing username", SignupRequest{Email: "b@example.com", Password: "p", ConfirmPassword: "p"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := srv.do(t, "POST", "/auth/signup", token, tt.req)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}
}

func TestSessionSurvivesHubRestart(t *testing.T) {
	store := kv.NewMemoryStore()
	first := newTestServer(t, store)
	token := first.newProfile(t)
	user := signup(t, first, token, "ann@example.com")

	// Same backend and secret, fresh process.
	second := newTestServer(t, store)
	rr := second.do(t, "GET", "/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, user.ID, decode[model.User](t, rr).ID)
}

func TestUpdateMe(t *testing.T) {
	srv := newTestServer(t, kv.NewMemoryStore())
	token := srv.newProfile(t)
	user := signup(t, srv, token, "ann@example.com")

	rr := srv.do(t, "PUT", "/me", token, map[string]any{"id": user.ID, "username": "annie"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[model.User](t, rr)
	assert.Equal(t, "annie", updated.Username)
	assert.Equal(t, "ann@example.com", updated.Email)

	rr = srv.do(t, "GET", "/me", token, nil)
	assert.Equal(t, "annie", decode[model.User](t, rr).Username)
}

func TestUpdateMeSignedOut(t *testing.T) {
	srv := newTestServer(t, kv.NewMemoryStore())
	token := srv.newProfile(t)

	rr := srv.do(t, "PUT", "/me", token, map[string]any{"username": "x"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUpdateMeCannotChangeRole(t *testing.T) {
	srv := newTestServer(t, kv.NewMemoryStore())
	token := srv.newProfile(t)
	signup(t, srv, token, "ann@example.com")

	rr := srv.do(t, "PUT", "/me", token, map[string]any{"role": "Admin"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, model.RoleUser, decode[model.User](t, rr).Role)
}
