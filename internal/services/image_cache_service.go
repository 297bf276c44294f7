package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

const (
	// Card images are ~421x614 upstream; cap the cached copy there
	cachedImageMaxDim  = 624
	cachedImageQuality = 85

	maxImageDownloadBytes = 10 << 20 // 10MB
	imageDownloadTimeout  = 30 * time.Second
)

// ImageCacheService downloads card images and stores resized local
// copies so the UI stops depending on the upstream image host
type ImageCacheService struct {
	basePath   string
	httpClient *http.Client
}

// NewImageCacheService creates a new ImageCacheService
func NewImageCacheService(basePath string) *ImageCacheService {
	return &ImageCacheService{
		basePath: basePath,
		httpClient: &http.Client{
			Timeout: imageDownloadTimeout,
		},
	}
}

// CacheCardImage fetches the remote image and writes a JPEG copy
// under {userID}/{setCode}.jpg. Returns the path relative to the
// storage root. Re-caching the same card overwrites the old copy.
func (s *ImageCacheService) CacheCardImage(ctx context.Context, userID, setCode, imageURL string) (string, error) {
	if err := validateImageURL(imageURL); err != nil {
		return "", err
	}

	data, err := s.download(ctx, imageURL)
	if err != nil {
		return "", err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode card image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > cachedImageMaxDim || bounds.Dy() > cachedImageMaxDim {
		if bounds.Dx() > bounds.Dy() {
			img = imaging.Resize(img, cachedImageMaxDim, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, cachedImageMaxDim, imaging.Lanczos)
		}
	}

	dir := filepath.Join(s.basePath, userID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create image cache directory: %w", err)
	}

	filename := sanitizeFilename(setCode) + ".jpg"
	relativePath := filepath.Join(userID, filename)
	fullPath := filepath.Join(s.basePath, relativePath)

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create cached image file: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: cachedImageQuality}); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to encode cached image: %w", err)
	}

	return relativePath, nil
}

// RemoveUserImages deletes the user's cached images (account deletion)
func (s *ImageCacheService) RemoveUserImages(userID string) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	return os.RemoveAll(filepath.Join(s.basePath, userID))
}

// ServePath resolves a relative cached-image path for serving,
// rejecting anything that escapes the storage root
func (s *ImageCacheService) ServePath(relativePath string) (string, error) {
	cleaned := filepath.Clean(relativePath)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid image path")
	}
	return filepath.Join(s.basePath, cleaned), nil
}

func (s *ImageCacheService) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image host returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) > maxImageDownloadBytes {
		return nil, fmt.Errorf("image exceeds %d byte limit", maxImageDownloadBytes)
	}

	return data, nil
}

func validateImageURL(imageURL string) error {
	u, err := url.Parse(imageURL)
	if err != nil {
		return fmt.Errorf("invalid image URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("image URL must be http or https")
	}
	return nil
}

func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
