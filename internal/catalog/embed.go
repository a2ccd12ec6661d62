package catalog

import (
	"errors"
	"fmt"

	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

var ErrUnknownProvider = errors.New("unknown embed provider")

// Embed providers, in the order the player offers them.
const (
	ProviderVidLink    = "vidlink"
	ProviderEmbedSu    = "embedsu"
	ProviderVidSrc     = "vidsrc"
	ProviderVidSrc2    = "vidsrc2"
	ProviderSuperEmbed = "superembed"
)

var Providers = []string{ProviderVidLink, ProviderEmbedSu, ProviderVidSrc, ProviderVidSrc2, ProviderSuperEmbed}

type embedTemplate struct {
	movie string // id
	tv    string // id, season, episode
}

var embedTemplates = map[string]embedTemplate{
	ProviderVidLink: {
		movie: "https://vidlink.pro/movie/%s?primaryColor=E50914&autoplay=true",
		tv:    "https://vidlink.pro/tv/%s/%d/%d?primaryColor=E50914&autoplay=true",
	},
	ProviderEmbedSu: {
		movie: "https://embed.su/embed/movie/%s",
		tv:    "https://embed.su/embed/tv/%s/%d/%d",
	},
	ProviderVidSrc: {
		movie: "https://vidsrc.cc/v2/embed/movie/%s?autoPlay=true&theme=18181b",
		tv:    "https://vidsrc.cc/v2/embed/tv/%s/%d/%d?autoPlay=true&theme=18181b",
	},
	ProviderVidSrc2: {
		movie: "https://vidsrc.to/embed/movie/%s",
		tv:    "https://vidsrc.to/embed/tv/%s/%d/%d",
	},
	ProviderSuperEmbed: {
		movie: "https://multiembed.mov/?video_id=%s&tmdb=1",
		tv:    "https://multiembed.mov/?video_id=%s&tmdb=1&s=%d&e=%d",
	},
}

// EmbedURL returns the player URL of anime on provider. Films ignore season
// and episode; shows default both to 1.
func EmbedURL(provider string, anime model.Anime, season, episode int) (string, error) {
	tmpl, ok := embedTemplates[provider]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	if anime.IsMovie() {
		return fmt.Sprintf(tmpl.movie, anime.ID), nil
	}
	return fmt.Sprintf(tmpl.tv, anime.ID, max(season, 1), max(episode, 1)), nil
}
