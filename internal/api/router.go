package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/cors"

	"github.com/theLastOfCats/animewatcher-server/internal/app"
	"github.com/theLastOfCats/animewatcher-server/internal/auth"
)

type RouterConfig struct {
	Tokens      *auth.TokenService
	Hub         *app.Hub
	Catalog     Catalog
	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter registers every route behind CORS and request logging.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	mw := &Middleware{Tokens: cfg.Tokens, Hub: cfg.Hub}
	authHandler := &AuthHandler{Tokens: cfg.Tokens}
	libraryHandler := &LibraryHandler{}
	notificationHandler := &NotificationHandler{}
	catalogHandler := &CatalogHandler{Catalog: cfg.Catalog}

	profile := func(fn func(w http.ResponseWriter, r *http.Request, state *app.State)) http.Handler {
		return mw.ProfileMiddleware(profileHandler(fn))
	}

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /{$}", Health)
	mux.HandleFunc("POST /profiles", authHandler.CreateProfile)

	mux.HandleFunc("GET /catalog/search", catalogHandler.Search)
	mux.HandleFunc("GET /catalog/genre/{genreID}", catalogHandler.ByGenre)
	mux.HandleFunc("GET /catalog/{section}", catalogHandler.GetSection)
	mux.HandleFunc("GET /anime/{id}/episodes", catalogHandler.GetEpisodes)
	mux.HandleFunc("GET /anime/{id}/seasons", catalogHandler.GetSeasons)
	mux.HandleFunc("GET /anime/{id}/recommendations", catalogHandler.GetRecommendations)
	mux.HandleFunc("GET /anime/{id}/relations", catalogHandler.GetRelations)
	mux.HandleFunc("GET /anime/{id}/characters", catalogHandler.GetCharacters)
	mux.HandleFunc("GET /embed/{id}", catalogHandler.GetEmbed)

	// Profile Routes
	mux.Handle("GET /anime/{id}", profile(catalogHandler.GetAnime))

	mux.Handle("POST /auth/signup", profile(authHandler.Signup))
	mux.Handle("POST /auth/login", profile(authHandler.Login))
	mux.Handle("POST /auth/logout", profile(authHandler.Logout))
	mux.Handle("GET /me", profile(authHandler.GetMe))
	mux.Handle("PUT /me", profile(authHandler.UpdateMe))

	mux.Handle("GET /watchlist", profile(libraryHandler.GetWatchlist))
	mux.Handle("POST /watchlist", profile(libraryHandler.AddToWatchlist))
	mux.Handle("GET /watchlist/ids", profile(libraryHandler.GetWatchlistIDs))
	mux.Handle("POST /watchlist/toggle", profile(libraryHandler.ToggleWatchlist))
	mux.Handle("DELETE /watchlist/{id}", profile(libraryHandler.RemoveFromWatchlist))

	mux.Handle("GET /history", profile(libraryHandler.GetHistory))
	mux.Handle("POST /history", profile(libraryHandler.PostHistory))
	mux.Handle("DELETE /history", profile(libraryHandler.ClearHistory))
	mux.Handle("GET /history/stats", profile(libraryHandler.GetStats))

	mux.Handle("GET /likes/{id}", profile(libraryHandler.GetLike))
	mux.Handle("POST /likes/{id}", profile(libraryHandler.ToggleLike))

	mux.Handle("GET /comments/{animeID}", profile(libraryHandler.GetComments))
	mux.Handle("POST /comments/{animeID}", profile(libraryHandler.PostComment))

	mux.Handle("GET /notifications", profile(notificationHandler.GetNotifications))
	mux.Handle("DELETE /notifications", profile(notificationHandler.ClearNotifications))
	mux.Handle("POST /notifications/read", profile(notificationHandler.MarkAllRead))
	mux.Handle("GET /toasts", profile(notificationHandler.GetToasts))
	mux.Handle("DELETE /toasts/{id}", profile(notificationHandler.DismissToast))

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	return corsHandler(LoggingMiddleware(cfg.Logger, mux))
}
