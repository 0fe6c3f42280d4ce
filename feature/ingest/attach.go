package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"stock-manager/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

var (
	colorNameCleaner = regexp.MustCompile(`[^a-zA-Z0-9_]`)
	underscoreRuns   = regexp.MustCompile(`_+`)
)

var allowedImageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
}

// ImageAttacher fetches an image URL and streams it into object storage
// under products/<code>/<code>_<color><ext>. The fetch uses a fixed timeout
// so a slow host cannot stall the owning row.
type ImageAttacher struct {
	client  storage.Client
	bucket  string
	http    *http.Client
	logger  *zap.Logger
}

// NewImageAttacher creates an attacher with the configured fetch timeout.
func NewImageAttacher(client storage.Client, bucket string, timeoutSeconds int, logger *zap.Logger) *ImageAttacher {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 15
	}
	return &ImageAttacher{
		client: client,
		bucket: bucket,
		http:   &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
		logger: logger,
	}
}

// Attach downloads the image and stores it, returning the object locator and
// filename to record on the variant.
func (a *ImageAttacher) Attach(ctx context.Context, productCode, colorName, imageURL string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("invalid image url: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := a.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("image fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("image fetch failed: HTTP %d", resp.StatusCode)
	}

	filename := productCode + "_" + CleanColorName(colorName) + imageExtension(imageURL)
	objectName := path.Join("products", productCode, filename)

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// ContentLength may be -1; the client then streams with unknown size.
	_, err = a.client.PutObject(ctx, a.bucket, objectName, resp.Body, resp.ContentLength, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("image store failed: %w", err)
	}

	a.logger.Debug("Stored variant image",
		zap.String("object", objectName),
		zap.String("source", imageURL),
	)
	return objectName, filename, nil
}

// CleanColorName lowercases a color name and squashes anything unsafe for a
// filename into single underscores.
func CleanColorName(colorName string) string {
	clean := strings.ToLower(strings.TrimSpace(colorName))
	clean = colorNameCleaner.ReplaceAllString(clean, "_")
	clean = underscoreRuns.ReplaceAllString(clean, "_")
	return strings.Trim(clean, "_")
}

// imageExtension extracts a known image extension from the URL path,
// defaulting to .jpg.
func imageExtension(imageURL string) string {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return ".jpg"
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	if _, ok := allowedImageExtensions[ext]; !ok {
		return ".jpg"
	}
	return ext
}
