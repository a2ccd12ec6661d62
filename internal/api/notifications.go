package api

import (
	"net/http"

	"github.com/theLastOfCats/animewatcher-server/internal/app"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

type NotificationHandler struct{}

type NotificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
	Unread        int                  `json:"unread"`
}

func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request, state *app.State) {
	list, err := state.Inbox.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}
	writeJSON(w, http.StatusOK, NotificationsResponse{Notifications: list, Unread: unread})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request, state *app.State) {
	if err := state.Inbox.MarkAllRead(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) ClearNotifications(w http.ResponseWriter, r *http.Request, state *app.State) {
	if err := state.Inbox.Clear(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) GetToasts(w http.ResponseWriter, r *http.Request, state *app.State) {
	writeJSON(w, http.StatusOK, state.Toasts.List())
}

func (h *NotificationHandler) DismissToast(w http.ResponseWriter, r *http.Request, state *app.State) {
	state.Toasts.Dismiss(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
