package catalog

import (
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

const (
	animationGenreID = 16

	statusEnded       = "منتهي"
	statusOngoing     = "مستمر"
	defaultGenre      = "انمي"
	unknownSeason     = "غير محدد"
	defaultDuration   = "24 دقيقة"
	missingOverviewJA = "لا يتوفر وصف باللغة العربية لهذا العمل حالياً، ولكن يمكنك الاستمتاع بالمشاهدة."
	posterPlaceholder = "https://via.placeholder.com/300x450"
	photoPlaceholder  = "https://via.placeholder.com/150"
)

type tmdbItem struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Title            string   `json:"title"`
	OriginalName     string   `json:"original_name"`
	OriginalLanguage string   `json:"original_language"`
	Overview         string   `json:"overview"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	Popularity       float64  `json:"popularity"`
	FirstAirDate     string   `json:"first_air_date"`
	ReleaseDate      string   `json:"release_date"`
	LastAirDate      string   `json:"last_air_date"`
	InProduction     bool     `json:"in_production"`
	MediaType        string   `json:"media_type"`
	OriginCountry    []string `json:"origin_country"`
	GenreIDs         []int    `json:"genre_ids"`
	Genres           []struct {
		Name string `json:"name"`
	} `json:"genres"`
	NumberOfEpisodes    int   `json:"number_of_episodes"`
	EpisodeRunTime      []int `json:"episode_run_time"`
	ProductionCompanies []struct {
		Name string `json:"name"`
	} `json:"production_companies"`
	Seasons []struct {
		SeasonNumber int    `json:"season_number"`
		Name         string `json:"name"`
		EpisodeCount int    `json:"episode_count"`
	} `json:"seasons"`
}

type pageResponse struct {
	Results []tmdbItem `json:"results"`
}

type seasonResponse struct {
	Episodes []struct {
		ID            int64   `json:"id"`
		Name          string  `json:"name"`
		EpisodeNumber int     `json:"episode_number"`
		AirDate       string  `json:"air_date"`
		VoteAverage   float64 `json:"vote_average"`
		StillPath     string  `json:"still_path"`
	} `json:"episodes"`
}

type creditsResponse struct {
	Cast []struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		OriginalName string `json:"original_name"`
		Character    string `json:"character"`
		ProfilePath  string `json:"profile_path"`
		Order        int    `json:"order"`
	} `json:"cast"`
}

func (it tmdbItem) fromJapan() bool {
	return slices.Contains(it.OriginCountry, "JP")
}

func (it tmdbItem) isAnime() bool {
	return (it.fromJapan() && slices.Contains(it.GenreIDs, animationGenreID)) || it.OriginalLanguage == "ja"
}

func (it tmdbItem) displayTitle() string {
	switch {
	case it.Name != "":
		return it.Name
	case it.Title != "":
		return it.Title
	default:
		return it.OriginalName
	}
}

func image(path, placeholder string) string {
	if path == "" {
		return placeholder
	}
	return imageBaseURL + path
}

func toAnime(it tmdbItem, now time.Time) model.Anime {
	status := statusEnded
	if it.InProduction {
		status = statusOngoing
	} else if last, err := time.Parse(time.DateOnly, it.LastAirDate); err == nil && last.After(now) {
		status = statusOngoing
	}

	description := it.Overview
	if description == "" && it.OriginalLanguage == "ja" {
		description = missingOverviewJA
	}

	cover := image(it.BackdropPath, "")
	if cover == "" {
		cover = image(it.PosterPath, "")
	}

	release := it.FirstAirDate
	if release == "" {
		release = it.ReleaseDate
	}

	genres := make([]string, 0, len(it.Genres))
	for _, g := range it.Genres {
		genres = append(genres, g.Name)
	}
	if len(genres) == 0 {
		genres = []string{defaultGenre}
	}

	studios := make([]string, 0, len(it.ProductionCompanies))
	for _, c := range it.ProductionCompanies {
		studios = append(studios, c.Name)
	}

	duration := defaultDuration
	if len(it.EpisodeRunTime) > 0 && it.EpisodeRunTime[0] > 0 {
		duration = strconv.Itoa(it.EpisodeRunTime[0]) + " دقيقة"
	}

	kind := model.TypeSeries
	if it.MediaType == model.TypeMovie {
		kind = model.TypeMovie
	}

	return model.Anime{
		ID:            strconv.FormatInt(it.ID, 10),
		Title:         it.displayTitle(),
		Image:         image(it.PosterPath, posterPlaceholder),
		Cover:         cover,
		Description:   description,
		Rating:        math.Round(it.VoteAverage*10) / 10,
		ReleaseDate:   release,
		Genres:        genres,
		TotalEpisodes: it.NumberOfEpisodes,
		Type:          kind,
		Status:        status,
		Rank:          it.Popularity,
		Popularity:    it.Popularity,
		Members:       it.VoteCount,
		Studios:       studios,
		Duration:      duration,
		Season:        unknownSeason,
		TitleJapanese: it.OriginalName,
	}
}
