package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const userAgent = "asset-seeder/1.0"

// FetchError represents a failed asset download: a non-2xx status or a
// network failure
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("HTTP %s for %s", e.Status, e.URL)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Asset is a downloaded remote file
type Asset struct {
	Body        []byte
	ContentType string // response header, may be empty
}

// AssetFetcher downloads remote assets into memory
type AssetFetcher struct {
	client *http.Client
}

// NewAssetFetcher creates a fetcher. A zero timeout keeps the client default.
func NewAssetFetcher(timeout time.Duration) *AssetFetcher {
	return &AssetFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch performs a GET on url and reads the whole body
func (f *AssetFetcher) Fetch(ctx context.Context, url string) (*Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status, Err: fmt.Errorf("reading response body: %w", err)}
	}

	debugLog("fetched %s (%d bytes, content-type %q)", url, len(body), resp.Header.Get("Content-Type"))
	return &Asset{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
