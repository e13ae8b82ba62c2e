package workshop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"mappack/internal/services"
)

// Downloader fetches packed containers and preview images from the CDN.
type Downloader struct {
	httpClient *http.Client
	retry      services.RetryPolicy
}

// ContainerFetcher is the subset of download behaviour the resolver needs.
type ContainerFetcher interface {
	Download(ctx context.Context, fileURL, destPath string) error
}

var _ ContainerFetcher = (*Downloader)(nil)

// NewDownloader creates a CDN downloader with the given per-request timeout.
func NewDownloader(timeout time.Duration, opts ...DownloaderOption) *Downloader {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	d := &Downloader{
		httpClient: &http.Client{Timeout: timeout},
		retry:      services.DefaultRetry,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithDownloadHTTPClient overrides the default HTTP client.
func WithDownloadHTTPClient(client *http.Client) DownloaderOption {
	return func(d *Downloader) {
		if client != nil {
			d.httpClient = client
		}
	}
}

// WithDownloadRetry overrides the default retry policy.
func WithDownloadRetry(policy services.RetryPolicy) DownloaderOption {
	return func(d *Downloader) {
		d.retry = policy
	}
}

// Download streams fileURL to destPath. The file appears atomically: data is
// written to a temp file in the destination directory and renamed into place
// only after the full body has been read.
func (d *Downloader) Download(ctx context.Context, fileURL, destPath string) error {
	if fileURL == "" {
		return errors.New("file url required")
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}

	return d.retry.Do(ctx, func() error {
		return d.fetchOnce(ctx, fileURL, destPath)
	})
}

func (d *Downloader) fetchOnce(ctx context.Context, fileURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "workshop", "download", fileURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrTransient, "workshop", "download",
			fmt.Sprintf("%s: status %d", fileURL, resp.StatusCode), nil)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), filepath.Base(destPath)+".part-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return services.Wrap(services.ErrTransient, "workshop", "download", fileURL, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("finalize download: %w", err)
	}
	return nil
}
