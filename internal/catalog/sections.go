package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

const (
	sectionSize     = 20
	minTrending     = 5
	maxRecommended  = 10
	maxRelated      = 5
	maxCharacters   = 12
	mainCastCutoff  = 3
	similarRelation = "أعمال مشابهة"
	roleMain        = "رئيسي"
	roleSupporting  = "داعم"
	unknownRole     = "دور غير معروف"
	episodeTitle    = "الحلقة %d"
)

// Section names accepted by Section.
const (
	SectionTrending     = "trending"
	SectionAiring       = "airing"
	SectionUpcoming     = "upcoming"
	SectionMovies       = "movies"
	SectionRecent       = "recent"
	SectionTopRated     = "top-rated"
	SectionArabTopRated = "arab-top-rated"
)

var ErrUnknownSection = errors.New("unknown catalog section")

func page(n int) url.Values {
	if n < 1 {
		n = 1
	}
	return url.Values{"page": {strconv.Itoa(n)}}
}

func with(v url.Values, kv ...string) url.Values {
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return v
}

func mapAll(items []tmdbItem) []model.Anime {
	now := time.Now()
	out := make([]model.Anime, 0, len(items))
	for _, it := range items {
		out = append(out, toAnime(it, now))
	}
	return out
}

func filterJapan(items []tmdbItem) []tmdbItem {
	var out []tmdbItem
	for _, it := range items {
		if it.fromJapan() {
			out = append(out, it)
		}
	}
	return out
}

// pages fetches several pages of endpoint concurrently. Failed pages are
// skipped; ok is false only when every page failed.
func (c *Client) pages(ctx context.Context, endpoint string, params url.Values, n int) (items []tmdbItem, ok bool) {
	results := make([]*pageResponse, n)
	var g errgroup.Group
	g.SetLimit(maxConcurrentPages)
	for i := range n {
		g.Go(func() error {
			p := url.Values{}
			for k, vs := range params {
				p[k] = vs
			}
			p.Set("page", strconv.Itoa(i+1))

			var resp pageResponse
			if err := c.get(ctx, endpoint, p, &resp); err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			results[i] = &resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.DebugContext(ctx, "partial catalog section", "endpoint", endpoint, "error", err)
	}

	for _, r := range results {
		if r != nil {
			ok = true
			items = append(items, r.Results...)
		}
	}
	return items, ok
}

// Section dispatches a named list section.
func (c *Client) Section(ctx context.Context, name string, pageNum int) ([]model.Anime, error) {
	switch name {
	case SectionTrending:
		return c.Trending(ctx), nil
	case SectionAiring:
		return c.Airing(ctx), nil
	case SectionUpcoming:
		return c.Upcoming(ctx), nil
	case SectionMovies:
		return c.Movies(ctx), nil
	case SectionRecent:
		return c.Recent(ctx, pageNum), nil
	case SectionTopRated:
		return c.TopRated(ctx, pageNum), nil
	case SectionArabTopRated:
		return c.ArabTopRated(ctx, pageNum), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, name)
	}
}

// Trending returns up to 20 distinct anime trending today.
func (c *Client) Trending(ctx context.Context) []model.Anime {
	items, ok := c.pages(ctx, "/trending/tv/day", nil, 2)
	if !ok {
		return Fallback()
	}

	seen := make(map[int64]bool)
	var anime []tmdbItem
	for _, it := range items {
		if it.isAnime() && !seen[it.ID] {
			seen[it.ID] = true
			anime = append(anime, it)
		}
	}
	if len(anime) < minTrending {
		return Fallback()
	}
	return mapAll(anime[:min(sectionSize, len(anime))])
}

// Airing returns Japanese shows currently on the air.
func (c *Client) Airing(ctx context.Context) []model.Anime {
	items, ok := c.pages(ctx, "/tv/on_the_air", url.Values{"sort_by": {"popularity.desc"}}, 2)
	if !ok {
		return Fallback()
	}
	jp := filterJapan(items)
	return mapAll(jp[:min(sectionSize, len(jp))])
}

func (c *Client) Upcoming(ctx context.Context) []model.Anime {
	var resp pageResponse
	if err := c.get(ctx, "/tv/popular", page(3), &resp); err != nil {
		return Fallback()
	}
	return mapAll(filterJapan(resp.Results))
}

// Movies returns popular Japanese animated films.
func (c *Client) Movies(ctx context.Context) []model.Anime {
	params := url.Values{
		"with_genres":            {strconv.Itoa(animationGenreID)},
		"with_original_language": {"ja"},
		"sort_by":                {"popularity.desc"},
	}
	items, ok := c.pages(ctx, "/discover/movie", params, 2)
	if !ok {
		return Fallback()
	}
	movies := mapAll(items)
	for i := range movies {
		movies[i].Type = model.TypeMovie
	}
	return movies
}

func (c *Client) Recent(ctx context.Context, pageNum int) []model.Anime {
	var resp pageResponse
	if err := c.get(ctx, "/tv/airing_today", page(pageNum), &resp); err != nil {
		return Fallback()
	}
	return mapAll(filterJapan(resp.Results))
}

// ArabTopRated favors the most voted shows, which track what the Arab
// community watches most.
func (c *Client) ArabTopRated(ctx context.Context, pageNum int) []model.Anime {
	var resp pageResponse
	params := with(page(pageNum),
		"with_genres", strconv.Itoa(animationGenreID),
		"with_original_language", "ja",
		"sort_by", "vote_count.desc",
	)
	if err := c.get(ctx, "/discover/tv", params, &resp); err != nil {
		return Fallback()
	}
	return mapAll(resp.Results)
}

func (c *Client) TopRated(ctx context.Context, pageNum int) []model.Anime {
	var resp pageResponse
	if err := c.get(ctx, "/tv/top_rated", with(page(pageNum), "with_original_language", "ja"), &resp); err != nil {
		return Fallback()
	}
	return mapAll(resp.Results)
}

// ByGenre lists animated Japanese shows that also carry genreID.
func (c *Client) ByGenre(ctx context.Context, genreID int) []model.Anime {
	var resp pageResponse
	params := url.Values{
		"with_genres":            {fmt.Sprintf("%d,%d", animationGenreID, genreID)},
		"with_original_language": {"ja"},
		"sort_by":                {"popularity.desc"},
	}
	if err := c.get(ctx, "/discover/tv", params, &resp); err != nil {
		return []model.Anime{}
	}
	return mapAll(resp.Results)
}

func (c *Client) Search(ctx context.Context, query string) []model.Anime {
	var resp pageResponse
	if err := c.get(ctx, "/search/multi", url.Values{"query": {query}}, &resp); err != nil {
		return []model.Anime{}
	}
	var hits []tmdbItem
	for _, it := range resp.Results {
		if it.MediaType == "person" {
			continue
		}
		if it.fromJapan() || slices.Contains(it.GenreIDs, animationGenreID) {
			hits = append(hits, it)
		}
	}
	return mapAll(hits)
}

// Details looks id up as a show, then as a film. When both fail the first
// fallback title is returned.
func (c *Client) Details(ctx context.Context, id string) model.Anime {
	now := time.Now()
	var show tmdbItem
	if err := c.get(ctx, "/tv/"+url.PathEscape(id), nil, &show); err == nil {
		return toAnime(show, now)
	}

	var film tmdbItem
	if err := c.get(ctx, "/movie/"+url.PathEscape(id), nil, &film); err == nil {
		a := toAnime(film, now)
		a.Type = model.TypeMovie
		return a
	}
	return Fallback()[0]
}

func (c *Client) Episodes(ctx context.Context, id string, season int) []model.Episode {
	if season < 1 {
		season = 1
	}
	var resp seasonResponse
	endpoint := fmt.Sprintf("/tv/%s/season/%d", url.PathEscape(id), season)
	if err := c.get(ctx, endpoint, nil, &resp); err != nil {
		return []model.Episode{}
	}

	episodes := make([]model.Episode, 0, len(resp.Episodes))
	for _, ep := range resp.Episodes {
		title := ep.Name
		if title == "" {
			title = fmt.Sprintf(episodeTitle, ep.EpisodeNumber)
		}
		episodes = append(episodes, model.Episode{
			ID:      ep.ID,
			Title:   title,
			Number:  ep.EpisodeNumber,
			Season:  season,
			AirDate: ep.AirDate,
			Score:   ep.VoteAverage,
			Image:   image(ep.StillPath, ""),
		})
	}
	return episodes
}

// Seasons lists the regular seasons of a show; specials (season 0) are left out.
func (c *Client) Seasons(ctx context.Context, id string) []model.SeasonInfo {
	var show tmdbItem
	if err := c.get(ctx, "/tv/"+url.PathEscape(id), nil, &show); err != nil {
		return []model.SeasonInfo{}
	}
	seasons := make([]model.SeasonInfo, 0, len(show.Seasons))
	for _, s := range show.Seasons {
		if s.SeasonNumber > 0 {
			seasons = append(seasons, model.SeasonInfo{Number: s.SeasonNumber, Name: s.Name, EpisodeCount: s.EpisodeCount})
		}
	}
	return seasons
}

func (c *Client) recommendations(ctx context.Context, id string) []tmdbItem {
	var resp pageResponse
	if err := c.get(ctx, "/tv/"+url.PathEscape(id)+"/recommendations", nil, &resp); err != nil {
		return nil
	}
	return resp.Results
}

func (c *Client) Recommendations(ctx context.Context, id string) []model.Anime {
	items := c.recommendations(ctx, id)
	return mapAll(items[:min(maxRecommended, len(items))])
}

// Relations groups a few similar shows under one relation heading.
func (c *Client) Relations(ctx context.Context, id string) []model.Relation {
	items := c.recommendations(ctx, id)
	if len(items) == 0 {
		return []model.Relation{}
	}
	entries := make([]model.RelationEntry, 0, maxRelated)
	for _, it := range items[:min(maxRelated, len(items))] {
		entries = append(entries, model.RelationEntry{
			ID:   it.ID,
			Type: "anime",
			Name: it.displayTitle(),
			URL:  "/anime/" + strconv.FormatInt(it.ID, 10),
		})
	}
	return []model.Relation{{Relation: similarRelation, Entries: entries}}
}

// Characters returns the leading cast, trying show credits before film credits.
func (c *Client) Characters(ctx context.Context, id string) []model.Character {
	var resp creditsResponse
	err := c.get(ctx, "/tv/"+url.PathEscape(id)+"/credits", nil, &resp)
	if err != nil || len(resp.Cast) == 0 {
		resp = creditsResponse{}
		if err := c.get(ctx, "/movie/"+url.PathEscape(id)+"/credits", nil, &resp); err != nil {
			return []model.Character{}
		}
	}

	cast := resp.Cast[:min(maxCharacters, len(resp.Cast))]
	characters := make([]model.Character, 0, len(cast))
	for _, actor := range cast {
		name := actor.Character
		if name == "" {
			name = unknownRole
		}
		role := roleSupporting
		if actor.Order < mainCastCutoff {
			role = roleMain
		}
		actorName := actor.Name
		if actorName == "" {
			actorName = actor.OriginalName
		}
		photo := image(actor.ProfilePath, photoPlaceholder)
		characters = append(characters, model.Character{
			ID:    actor.ID,
			Name:  name,
			Image: photo,
			Role:  role,
			VoiceActor: &model.VoiceActor{
				Name:     actorName,
				Image:    photo,
				Language: "Japanese",
			},
		})
	}
	return characters
}
