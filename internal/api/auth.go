package api

import (
	"net/http"

	"github.com/theLastOfCats/animewatcher-server/internal/app"
	"github.com/theLastOfCats/animewatcher-server/internal/auth"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

type AuthHandler struct {
	Tokens *auth.TokenService
}

type SignupRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileResponse struct {
	ProfileID string `json:"profileId"`
	Token     string `json:"token"`
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Alive"))
}

// CreateProfile starts a new browser profile and returns its token.
func (h *AuthHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	id, token, err := h.Tokens.NewProfile()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ProfileResponse{ProfileID: id, Token: token})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request, state *app.State) {
	var req SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := state.Signup(r.Context(), req.Email, req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, state *app.State) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := state.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, state *app.State) {
	if err := state.Logout(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request, state *app.State) {
	user := state.CurrentUser()
	if user == nil {
		writeError(w, r, app.ErrSignedOut)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request, state *app.State) {
	var patch model.User
	if err := decodeJSON(r, &patch); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := state.UpdateUser(r.Context(), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
