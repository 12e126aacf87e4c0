package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/TheMainlander/MyVicSurf-sub000/internal/metrics"
)

// FetchResult describes one upstream call for the ingest audit trail.
type FetchResult struct {
	HTTPStatus   int
	ResponseSize int
	RecordCount  int
	ParseErrors  int
	ParseError   string
	Error        error
}

// maxRetryTime bounds backoff for a single upstream call.
var maxRetryTime = 2 * time.Minute

// fetcher performs rate limited GETs with exponential backoff. 429 and 5xx
// responses are retried; other failures are permanent.
type fetcher struct {
	source  string
	client  *http.Client
	limiter *rate.Limiter
}

func newFetcher(source string, client *http.Client, rps float64) fetcher {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return fetcher{source: source, client: client, limiter: rate.NewLimiter(limit, 1)}
}

func (f fetcher) get(ctx context.Context, endpoint, url string, result *FetchResult) ([]byte, error) {
	var body []byte
	operation := func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		start := time.Now()
		resp, err := f.client.Do(req)
		metrics.UpstreamLatency.WithLabelValues(f.source, endpoint).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.UpstreamCallsTotal.WithLabelValues(f.source, endpoint, "error").Inc()
			return fmt.Errorf("fetch %s: %w", endpoint, err)
		}
		defer resp.Body.Close()

		result.HTTPStatus = resp.StatusCode
		metrics.UpstreamCallsTotal.WithLabelValues(f.source, endpoint, fmt.Sprint(resp.StatusCode)).Inc()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		result.ResponseSize = len(b)

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("fetch %s: status %d", endpoint, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d: %s", endpoint, resp.StatusCode, truncate(string(b), 200)))
		}
		body = b
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = maxRetryTime
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		result.Error = err
		return nil, err
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
