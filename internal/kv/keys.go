package kv

// Storage keys. Each service owns its key(s) exclusively.
const (
	KeyUsers         = "animewatcher_users"         // []auth registry entry, default []
	KeySession       = "animewatcher_session"       // model.User, default absent
	KeyWatchlist     = "animewatcher_watchlist"     // map user -> []model.Anime, default {}
	KeyHistory       = "animewatcher_history"       // map user -> []model.HistoryItem, default {}
	KeyComments      = "animewatcher_comments"      // map anime -> []model.Comment, default {}
	KeyLikes         = "animewatcher_likes"         // map user -> []anime id, default {}
	KeyLikeCounts    = "animewatcher_like_counts"   // map anime -> int, default {}
	KeyNotifications = "animewatcher_notifications" // []model.Notification, default []
)

// GuestID namespaces data for visitors without a session.
const GuestID = "guest_user"

// Owner returns userID, or GuestID when it is empty.
func Owner(userID string) string {
	if userID == "" {
		return GuestID
	}
	return userID
}
