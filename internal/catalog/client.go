// Package catalog reads anime metadata from TMDB. Every failure degrades to
// "no data": list sections fall back to a built-in catalog or come back empty.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL  = "https://api.themoviedb.org/3"
	DefaultLanguage = "ar-SA"
	imageBaseURL    = "https://image.tmdb.org/t/p/original"

	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 5 * time.Minute

	maxConcurrentPages = 4
)

var errNoAPIKey = errors.New("tmdb api key not configured")

type Config struct {
	APIKey   string
	BaseURL  string
	Language string
	Timeout  time.Duration
	CacheTTL time.Duration
}

type Client struct {
	apiKey   string
	baseURL  string
	language string
	client   *http.Client
	cache    *cache
	group    singleflight.Group
	logger   *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey:   cfg.APIKey,
		baseURL:  cfg.BaseURL,
		language: cfg.Language,
		client:   &http.Client{Timeout: cfg.Timeout},
		cache:    newCache(cfg.CacheTTL),
		logger:   logger,
	}
}

// get fetches endpoint and decodes the JSON body into out. Successful bodies
// are cached per URL; concurrent identical requests share one round trip.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.apiKey == "" {
		return errNoAPIKey
	}

	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return err
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("language", c.language)
	cacheKey := u.Path + "?" + q.Encode()
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	body, ok := c.cache.get(cacheKey)
	if !ok {
		// The shared fetch outlives any single caller; the client timeout bounds it.
		ch := c.group.DoChan(cacheKey, func() (any, error) {
			body, err := c.fetch(context.WithoutCancel(ctx), u.String())
			if err == nil {
				c.cache.set(cacheKey, body)
			}
			return body, err
		})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				c.logger.WarnContext(ctx, "tmdb request failed", "endpoint", endpoint, "error", res.Err)
				return res.Err
			}
			body = res.Val.([]byte)
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TMDB returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
