// Package feed provides the sources the store fetches raw feed text from.
package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// maxErrorBody caps how much of a failed response body is kept in the error.
const maxErrorBody = 512

// HTTPSource fetches the feed with a single GET. It implements store.FeedSource.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPSource creates a source for the feed at url.
func NewHTTPSource(url string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch returns the response body as text. There is no retry.
func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("feed request: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read feed body: %w", err)
	}

	s.logger.Debug("feed fetched", "url", s.url, "bytes", len(body))
	return string(body), nil
}

// FileSource reads the feed from a local file. It implements store.FeedSource.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the feed file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch returns the file contents as text.
func (s *FileSource) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.path) // #nosec G304 -- operator-provided path
	if err != nil {
		return "", fmt.Errorf("read feed file: %w", err)
	}
	return string(data), nil
}
