// Package imagery downloads satellite images of surveyed houses from a
// static-maps endpoint. Imagery is best-effort: any failure is reported to
// the caller, which records an empty image path and moves on.
package imagery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rooftopdata/solar-survey/internal/domain"
	"github.com/rooftopdata/solar-survey/internal/observability"
)

// imagesSubdir is the directory under the survey output root where house
// images land. Returned paths are relative to the output root so the CSV
// stays portable.
const imagesSubdir = "house_images"

const (
	zoomLevel = 19
	imageSize = "1024x1024"
)

// Client fetches and stores aerial images. It implements collector.ImageFetcher.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	outputDir  string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a static-maps imagery client writing under outputDir.
func NewClient(key, baseURL string, timeout time.Duration, outputDir string, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		key: key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   baseURL,
		outputDir: outputDir,
		metrics:   metrics,
		logger:    logger,
	}
}

// Fetch downloads the satellite image for a coordinate pair and returns the
// image path relative to the output root.
func (c *Client) Fetch(ctx context.Context, address string, geo domain.Geo) (string, error) {
	params := url.Values{
		"center":  {fmt.Sprintf("%f,%f", geo.Lat, geo.Lon)},
		"zoom":    {fmt.Sprintf("%d", zoomLevel)},
		"size":    {imageSize},
		"maptype": {"satellite"},
		"format":  {"png"},
		"key":     {c.key},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		c.metrics.ImageryDownloads.WithLabelValues("error").Inc()
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ImageryDownloads.WithLabelValues("error").Inc()
		return "", fmt.Errorf("imagery request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ImageryDownloads.WithLabelValues("error").Inc()
		return "", fmt.Errorf("imagery API error: status %d", resp.StatusCode)
	}

	relPath := filepath.Join(imagesSubdir, fmt.Sprintf("house_%.4f_%.4f_zoom%d.png", geo.Lat, geo.Lon, zoomLevel))
	fullPath := filepath.Join(c.outputDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		c.metrics.ImageryDownloads.WithLabelValues("error").Inc()
		return "", fmt.Errorf("create image dir: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		c.metrics.ImageryDownloads.WithLabelValues("error").Inc()
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		c.metrics.ImageryDownloads.WithLabelValues("error").Inc()
		return "", fmt.Errorf("write image: %w", err)
	}

	c.metrics.ImageryDownloads.WithLabelValues("success").Inc()
	c.logger.Debug("house image downloaded", "address", address, "path", relPath)
	return relPath, nil
}
