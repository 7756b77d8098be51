// Package media generates blur-up placeholder payloads for cover images.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
	"github.com/PressPlayMedia/pressplay-go/pkg/config"
)

// PlaceholderService downscales a cover image to a tiny webp and returns it
// as a base64 data URI suitable for inline blur-up rendering.
type PlaceholderService struct {
	httpClient *http.Client
	logger     *logging.ChanneledLogger
}

// NewPlaceholderService creates a placeholder service.
func NewPlaceholderService(logger *logging.ChanneledLogger) *PlaceholderService {
	return &PlaceholderService{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// Generate fetches the source image and produces the placeholder data URI.
func (s *PlaceholderService) Generate(ctx context.Context, sourceURL string) (string, error) {
	start := time.Now()

	src, err := s.fetchImage(ctx, sourceURL)
	if err != nil {
		s.logger.Media().Error("Failed to fetch source image", "error", err.Error(), "url", sourceURL)
		return "", err
	}

	placeholder, err := EncodePlaceholder(src)
	if err != nil {
		s.logger.Media().Error("Failed to encode placeholder", "error", err.Error(), "url", sourceURL)
		return "", err
	}

	s.logger.Media().Debug("Placeholder generated",
		"url", sourceURL, "bytes", len(placeholder), "duration", time.Since(start))
	return placeholder, nil
}

func (s *PlaceholderService) fetchImage(ctx context.Context, sourceURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned %d", resp.StatusCode)
	}

	src, err := imaging.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}
	return src, nil
}

// EncodePlaceholder downscales an already-decoded image and encodes the
// blur-up data URI. Split out so callers with local images skip the fetch.
func EncodePlaceholder(src image.Image) (string, error) {
	thumb := imaging.Resize(src, config.PlaceholderWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	err := webp.Encode(&buf, thumb, &webp.Options{Quality: config.PlaceholderQuality})
	if err != nil {
		return "", fmt.Errorf("webp encode failed: %w", err)
	}

	return "data:image/webp;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
