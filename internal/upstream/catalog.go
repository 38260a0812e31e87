package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"notespy/pkg/errors"
	"notespy/pkg/metrics"
)

// catalogTrack is the raw catalog search result entry.
type catalogTrack struct {
	TrackID        int64  `json:"trackId"`
	TrackName      string `json:"trackName"`
	ArtistName     string `json:"artistName"`
	CollectionName string `json:"collectionName"`
	ArtworkURL100  string `json:"artworkUrl100"`
	PreviewURL     string `json:"previewUrl"`
	TrackViewURL   string `json:"trackViewUrl"`
}

type catalogResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []catalogTrack `json:"results"`
}

// Song is the metadata shape returned to the browser.
type Song struct {
	TrackID      int64  `json:"trackId"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Album        string `json:"album"`
	ArtworkURL   string `json:"artworkUrl"`
	PreviewURL   string `json:"previewUrl"`
	TrackViewURL string `json:"trackViewUrl"`
}

// CatalogClient queries the song catalog search API.
type CatalogClient struct {
	url     string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewCatalogClient creates a catalog client with the given call budget.
func NewCatalogClient(url string, timeout time.Duration, client *http.Client, logger *slog.Logger, m *metrics.Metrics) *CatalogClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CatalogClient{
		url:     url,
		timeout: timeout,
		client:  client,
		logger:  logger.With("component", "catalog-client"),
		metrics: m,
	}
}

// Search looks up the best catalog match for the sanitized search term.
// Zero results map to a not-found error.
func (c *CatalogClient) Search(ctx context.Context, term string) (*Song, error) {
	query := url.Values{}
	query.Set("term", term)
	query.Set("media", "music")
	query.Set("entity", "song")
	query.Set("limit", "1")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?"+query.Encode(), nil)
	if err != nil {
		return nil, errors.NewError(errors.ErrorTypeInternal, "failed to build catalog request").WithCause(err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	c.metrics.UpstreamRequestDuration.WithLabelValues("catalog").Observe(time.Since(start).Seconds())

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			c.metrics.UpstreamErrors.WithLabelValues("catalog", "timeout").Inc()
			return nil, errors.NewError(errors.ErrorTypeTimeout, TimeoutMessage).WithCause(err)
		}
		c.metrics.UpstreamErrors.WithLabelValues("catalog", "transport").Inc()
		return nil, errors.NewError(errors.ErrorTypeInternal, "catalog unreachable").WithCause(err)
	}
	defer resp.Body.Close()

	c.metrics.UpstreamRequestsTotal.WithLabelValues("catalog", strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamErrors.WithLabelValues("catalog", "status").Inc()
		return nil, errors.NewError(errors.ErrorTypeUpstream,
			fmt.Sprintf("catalog API error: %s", resp.Status))
	}

	var data catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		c.metrics.UpstreamErrors.WithLabelValues("catalog", "non_json").Inc()
		return nil, errors.NewError(errors.ErrorTypeUpstream, "catalog returned malformed response").WithCause(err)
	}

	if data.ResultCount == 0 || len(data.Results) == 0 {
		return nil, errors.NewError(errors.ErrorTypeNotFound, "No results found")
	}

	track := data.Results[0]
	return &Song{
		TrackID: track.TrackID,
		Title:   track.TrackName,
		Artist:  track.ArtistName,
		Album:   track.CollectionName,
		// Catalog serves 100x100 thumbnails; the same path exists at
		// higher resolutions
		ArtworkURL:   strings.Replace(track.ArtworkURL100, "100x100", "600x600", 1),
		PreviewURL:   track.PreviewURL,
		TrackViewURL: track.TrackViewURL,
	}, nil
}
