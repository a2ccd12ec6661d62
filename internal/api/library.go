package api

import (
	"net/http"

	"github.com/theLastOfCats/animewatcher-server/internal/app"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

type LibraryHandler struct{}

type WatchlistToggleResponse struct {
	InWatchlist bool `json:"inWatchlist"`
}

type HistoryRequest struct {
	Anime   model.Anime `json:"anime"`
	Episode int         `json:"episode"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

func (h *LibraryHandler) GetWatchlist(w http.ResponseWriter, r *http.Request, state *app.State) {
	list, err := state.Watchlist.List(r.Context(), state.UserID())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *LibraryHandler) GetWatchlistIDs(w http.ResponseWriter, r *http.Request, state *app.State) {
	ids, err := state.WatchlistIDs(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

func (h *LibraryHandler) AddToWatchlist(w http.ResponseWriter, r *http.Request, state *app.State) {
	var anime model.Anime
	if err := decodeJSON(r, &anime); err != nil || anime.ID == "" {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := state.Watchlist.Add(r.Context(), anime, state.UserID()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LibraryHandler) ToggleWatchlist(w http.ResponseWriter, r *http.Request, state *app.State) {
	var anime model.Anime
	if err := decodeJSON(r, &anime); err != nil || anime.ID == "" {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	on, err := state.ToggleWatchlist(r.Context(), anime)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, WatchlistToggleResponse{InWatchlist: on})
}

func (h *LibraryHandler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request, state *app.State) {
	if err := state.Watchlist.Remove(r.Context(), r.PathValue("id"), state.UserID()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LibraryHandler) GetHistory(w http.ResponseWriter, r *http.Request, state *app.State) {
	list, err := state.History.List(r.Context(), state.UserID())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *LibraryHandler) PostHistory(w http.ResponseWriter, r *http.Request, state *app.State) {
	var req HistoryRequest
	if err := decodeJSON(r, &req); err != nil || req.Anime.ID == "" {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := state.RecordWatch(r.Context(), req.Anime, req.Episode); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LibraryHandler) GetStats(w http.ResponseWriter, r *http.Request, state *app.State) {
	stats, err := state.History.Stats(r.Context(), state.UserID())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *LibraryHandler) ClearHistory(w http.ResponseWriter, r *http.Request, state *app.State) {
	if err := state.History.Clear(r.Context(), state.UserID()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LibraryHandler) ToggleLike(w http.ResponseWriter, r *http.Request, state *app.State) {
	res, err := state.Likes.Toggle(r.Context(), r.PathValue("id"), state.UserID())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *LibraryHandler) GetLike(w http.ResponseWriter, r *http.Request, state *app.State) {
	id := r.PathValue("id")
	liked, err := state.Likes.IsLiked(r.Context(), id, state.UserID())
	if err != nil {
		writeError(w, r, err)
		return
	}
	count, err := state.Likes.Count(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.LikeResult{Liked: liked, Count: count})
}

func (h *LibraryHandler) GetComments(w http.ResponseWriter, r *http.Request, state *app.State) {
	list, err := state.Comments.List(r.Context(), r.PathValue("animeID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *LibraryHandler) PostComment(w http.ResponseWriter, r *http.Request, state *app.State) {
	var req CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	user := state.CurrentUser()
	if user == nil {
		writeError(w, r, app.ErrSignedOut)
		return
	}
	comment, err := state.Comments.Add(r.Context(), r.PathValue("animeID"), req.Content, *user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}
