package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/theLastOfCats/animewatcher-server/internal/app"
	"github.com/theLastOfCats/animewatcher-server/internal/catalog"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

// Catalog is the metadata source behind the catalog routes.
type Catalog interface {
	Section(ctx context.Context, name string, page int) ([]model.Anime, error)
	ByGenre(ctx context.Context, genreID int) []model.Anime
	Search(ctx context.Context, query string) []model.Anime
	Details(ctx context.Context, id string) model.Anime
	Episodes(ctx context.Context, id string, season int) []model.Episode
	Seasons(ctx context.Context, id string) []model.SeasonInfo
	Recommendations(ctx context.Context, id string) []model.Anime
	Relations(ctx context.Context, id string) []model.Relation
	Characters(ctx context.Context, id string) []model.Character
}

type CatalogHandler struct {
	Catalog Catalog
}

type EmbedResponse struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
}

func queryInt(r *http.Request, key string, fallback int) int {
	if n, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil {
		return n
	}
	return fallback
}

func (h *CatalogHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	list, err := h.Catalog.Section(r.Context(), r.PathValue("section"), queryInt(r, "page", 1))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusOK, []model.Anime{})
		return
	}
	writeJSON(w, http.StatusOK, h.Catalog.Search(r.Context(), q))
}

func (h *CatalogHandler) ByGenre(w http.ResponseWriter, r *http.Request) {
	genreID, err := strconv.Atoi(r.PathValue("genreID"))
	if err != nil {
		JSONError(w, "Invalid genre id", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.Catalog.ByGenre(r.Context(), genreID))
}

// GetAnime returns details decorated with the profile's like count.
func (h *CatalogHandler) GetAnime(w http.ResponseWriter, r *http.Request, state *app.State) {
	anime := h.Catalog.Details(r.Context(), r.PathValue("id"))
	count, err := state.Likes.Count(r.Context(), anime.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	anime.Likes = count
	writeJSON(w, http.StatusOK, anime)
}

func (h *CatalogHandler) GetEpisodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Episodes(r.Context(), r.PathValue("id"), queryInt(r, "season", 1)))
}

func (h *CatalogHandler) GetSeasons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Seasons(r.Context(), r.PathValue("id")))
}

func (h *CatalogHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Recommendations(r.Context(), r.PathValue("id")))
}

func (h *CatalogHandler) GetRelations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Relations(r.Context(), r.PathValue("id")))
}

func (h *CatalogHandler) GetCharacters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Characters(r.Context(), r.PathValue("id")))
}

// GetEmbed builds player URLs. Without ?provider every provider is listed.
// ?type=movie selects film templates; shows use ?season and ?episode.
func (h *CatalogHandler) GetEmbed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	anime := model.Anime{ID: r.PathValue("id"), Type: model.TypeSeries}
	if q.Get("type") == model.TypeMovie {
		anime.Type = model.TypeMovie
	}
	season, episode := queryInt(r, "season", 1), queryInt(r, "episode", 1)

	providers := catalog.Providers
	if p := q.Get("provider"); p != "" {
		providers = []string{p}
	}

	out := make([]EmbedResponse, 0, len(providers))
	for _, p := range providers {
		u, err := catalog.EmbedURL(p, anime, season, episode)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out = append(out, EmbedResponse{Provider: p, URL: u})
	}
	writeJSON(w, http.StatusOK, out)
}
