package catalog

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

var errNoResults = errors.New("no titles to sample")

// Sample picks one random title from today's trending list or from the shows
// currently on the air.
func (c *Client) Sample(ctx context.Context) (model.Anime, error) {
	endpoint := "/trending/tv/day"
	if rand.IntN(2) == 0 {
		endpoint = "/tv/on_the_air"
	}

	var resp pageResponse
	if err := c.get(ctx, endpoint, nil, &resp); err != nil {
		return model.Anime{}, err
	}
	if len(resp.Results) == 0 {
		return model.Anime{}, errNoResults
	}
	return toAnime(resp.Results[rand.IntN(len(resp.Results))], time.Now()), nil
}
