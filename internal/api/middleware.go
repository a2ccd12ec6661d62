package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/theLastOfCats/animewatcher-server/internal/app"
	"github.com/theLastOfCats/animewatcher-server/internal/auth"
)

type contextKey string

const stateKey contextKey = "profileState"

type Middleware struct {
	Tokens *auth.TokenService
	Hub    *app.Hub
}

// ProfileMiddleware resolves the bearer profile token to the profile's state.
func (m *Middleware) ProfileMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			JSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			JSONError(w, "Invalid authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := m.Tokens.Validate(parts[1])
		if err != nil {
			JSONError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		state, err := m.Hub.Profile(r.Context(), claims.ProfileID)
		if err != nil {
			slog.ErrorContext(r.Context(), "open profile", "profile", claims.ProfileID, "error", err)
			JSONError(w, "Storage error", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithState(r.Context(), state)))
	})
}

// WithState attaches state to ctx the way ProfileMiddleware does.
func WithState(ctx context.Context, state *app.State) context.Context {
	return context.WithValue(ctx, stateKey, state)
}

func GetState(r *http.Request) (*app.State, bool) {
	state, ok := r.Context().Value(stateKey).(*app.State)
	return state, ok
}

// profileHandler adapts a handler that needs the profile state.
func profileHandler(fn func(w http.ResponseWriter, r *http.Request, state *app.State)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, ok := GetState(r)
		if !ok {
			JSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		fn(w, r, state)
	}
}
