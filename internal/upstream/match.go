package upstream

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"notespy/pkg/errors"
	"notespy/pkg/metrics"
)

// Response body size cap; the match payload is a small JSON document.
const maxResponseBody = 1 << 20

// detailLimit caps how much raw upstream body is attached to a protocol
// error for the caller to relay.
const detailLimit = 200

// TimeoutMessage is the fixed body returned to clients on 504.
const TimeoutMessage = "Request timed out. Please try again."

// MatchResult is the relayed upstream response: status and JSON body,
// passed through verbatim.
type MatchResult struct {
	StatusCode int
	Body       []byte
}

// MatchClient forwards audio uploads to the matching backend.
type MatchClient struct {
	url     string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewMatchClient creates a match client with the given call budget.
func NewMatchClient(url string, timeout time.Duration, client *http.Client, logger *slog.Logger, m *metrics.Metrics) *MatchClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MatchClient{
		url:     url,
		timeout: timeout,
		client:  client,
		logger:  logger.With("component", "match-client"),
		metrics: m,
	}
}

// Match posts the audio file to the backend as a multipart form and
// relays the JSON response. Exactly one attempt is made; the deadline
// cancels the in-flight call and surfaces as a timeout error.
func (c *MatchClient) Match(ctx context.Context, filename string, file io.Reader) (*MatchResult, error) {
	var payload bytes.Buffer
	writer := multipart.NewWriter(&payload)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, errors.NewError(errors.ErrorTypeInternal, "failed to build upload payload").WithCause(err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, errors.NewError(errors.ErrorTypeInternal, "failed to read upload").WithCause(err)
	}
	if err := writer.Close(); err != nil {
		return nil, errors.NewError(errors.ErrorTypeInternal, "failed to build upload payload").WithCause(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &payload)
	if err != nil {
		return nil, errors.NewError(errors.ErrorTypeInternal, "failed to build upstream request").WithCause(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := c.client.Do(req)
	c.metrics.UpstreamRequestDuration.WithLabelValues("match").Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, c.classify(ctx, err)
	}
	defer resp.Body.Close()

	c.metrics.UpstreamRequestsTotal.WithLabelValues("match", strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, c.classify(ctx, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		// Raw upstream body is logged, never relayed beyond a snippet
		c.logger.Error("non-JSON upstream response",
			"status", resp.StatusCode,
			"content_type", contentType,
			"body", truncate(string(body), detailLimit),
		)
		c.metrics.UpstreamErrors.WithLabelValues("match", "non_json").Inc()
		return nil, errors.NewError(errors.ErrorTypeUpstream, "Backend returned non-JSON response").
			WithDetail("details", truncate(string(body), detailLimit))
	}

	return &MatchResult{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *MatchClient) classify(ctx context.Context, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		c.metrics.UpstreamErrors.WithLabelValues("match", "timeout").Inc()
		return errors.NewError(errors.ErrorTypeTimeout, TimeoutMessage).WithCause(err)
	}
	c.metrics.UpstreamErrors.WithLabelValues("match", "transport").Inc()
	return errors.NewError(errors.ErrorTypeInternal, "match backend unreachable").WithCause(err)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
