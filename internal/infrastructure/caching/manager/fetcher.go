package manager

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/types"
)

// HTTPFetcher fetches snapshots from the asset origin over HTTP.
type HTTPFetcher struct {
	client *http.Client
}

var _ interfaces.Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates an origin fetcher with the given client. A nil
// client falls back to a default with a 30s timeout.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPFetcher{client: client}
}

// Fetch performs the origin request and snapshots the full response.
func (f *HTTPFetcher) Fetch(ctx context.Context, method, url string, header http.Header) (*types.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build origin request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("origin fetch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read origin response: %w", err)
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &types.Entry{
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		URL:      finalURL,
		StoredAt: time.Now().UTC(),
	}, nil
}
