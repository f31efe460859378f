package feed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// maxBodyBytes bounds how much feed we are willing to read; calendar feeds
// are text and anything past this is either abuse or a misconfigured URL.
const maxBodyBytes = 16 << 20

// Fetcher retrieves the feed body with conditional-GET caching keyed by URL.
type Fetcher struct {
	client   *http.Client
	cacheDir string
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewFetcher creates a Fetcher. cacheDir may be empty to disable the
// conditional-GET cache entirely.
func NewFetcher(timeout time.Duration, cacheDir string) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		cacheDir: cacheDir,
	}
}

// Fetch retrieves the feed body. fromCache is true when the server answered
// 304 Not Modified and the cached body was reused. Any other non-2xx status
// or transport failure is returned as an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (body []byte, fromCache bool, err error) {
	if url == "" {
		return nil, false, errors.New("feed url is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build feed request: %w", err)
	}

	cachePath := f.cachePath(url)
	meta, cachedBody := f.loadCache(cachePath, url)
	if len(cachedBody) > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && len(cachedBody) > 0:
		return cachedBody, true, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, false, fmt.Errorf("read feed body: %w", err)
		}
		f.saveCache(cachePath, cacheMeta{
			URL:          url,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			UpdatedAt:    time.Now().UTC(),
		}, body)
		return body, false, nil
	default:
		return nil, false, fmt.Errorf("fetch feed: unexpected status %s", resp.Status)
	}
}

func (f *Fetcher) cachePath(url string) string {
	if f.cacheDir == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:8]))
}

func (f *Fetcher) loadCache(cachePath, url string) (cacheMeta, []byte) {
	var meta cacheMeta
	if cachePath == "" {
		return meta, nil
	}
	data, err := os.ReadFile(filepath.Join(cachePath, "meta.json"))
	if err != nil {
		return meta, nil
	}
	if err := json.Unmarshal(data, &meta); err != nil || meta.URL != url {
		return cacheMeta{}, nil
	}
	body, err := os.ReadFile(filepath.Join(cachePath, "body.ics"))
	if err != nil {
		return cacheMeta{}, nil
	}
	return meta, body
}

// saveCache is best-effort; a read-only cache directory must not fail a run.
func (f *Fetcher) saveCache(cachePath string, meta cacheMeta, body []byte) {
	if cachePath == "" {
		return
	}
	if err := os.MkdirAll(cachePath, 0o700); err != nil {
		return
	}
	if err := os.WriteFile(filepath.Join(cachePath, "body.ics"), body, 0o600); err != nil {
		return
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600)
}
