package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	Preview bool
	Timeout time.Duration
}

// Artifact is one auxiliary file retrieved outside the patch flow.
type Artifact struct {
	URL  string
	Path string
}

// Fetcher downloads single resources to local paths.
type Fetcher struct {
	config Config
	client *http.Client
	logger *zap.Logger
}

func NewFetcher(config Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// Fetch retrieves the artifact's URL into its destination path, creating
// parent directories as needed.
func (f *Fetcher) Fetch(ctx context.Context, artifact Artifact) error {
	f.logger.Info("fetching artifact",
		zap.String("url", artifact.URL),
		zap.String("path", artifact.Path))

	if f.config.Preview {
		f.logger.Info("preview: would download",
			zap.String("url", artifact.URL),
			zap.String("path", artifact.Path))
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifact.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", artifact.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("failed to fetch %s: unexpected status %s", artifact.URL, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(artifact.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	file, err := os.Create(artifact.Path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", artifact.Path, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", artifact.Path, err)
	}

	return nil
}
