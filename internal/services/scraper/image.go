package scraper

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ternarybob/rdms-mcp/internal/models"
)

const defaultImageSubtype = "png"

// DownloadImage fetches an image under the authenticated session. With
// analyze set the bytes come back inline for AI consumption; otherwise they
// are written to the images directory and the resolved path is returned.
// Image retrieval never runs the extraction engines.
func (s *Service) DownloadImage(ctx context.Context, imageURL, filename string, analyze bool) (*models.ImagePayload, *models.SavedImage, error) {
	if err := s.ensureAuthenticated(ctx); err != nil {
		return nil, nil, err
	}

	if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
		imageURL = s.session.BaseURL() + "/" + strings.TrimLeft(imageURL, "/")
	}

	resp, err := s.client.Get(ctx, imageURL, s.session.CookieMap(), map[string]string{
		"Referer": s.session.BaseURL(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrImageFetchFailed, err)
	}
	s.session.AbsorbCookies(resp.Cookies)

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("%w: HTTP %d", ErrImageFetchFailed, resp.StatusCode)
	}

	mimeType, subtype := imageMime(resp.Header.Get("Content-Type"))

	if analyze {
		payload := &models.ImagePayload{
			URL:      imageURL,
			MimeType: mimeType,
			Subtype:  subtype,
			Size:     len(resp.Body),
			Data:     base64.StdEncoding.EncodeToString(resp.Body),
		}
		return payload, nil, nil
	}

	if filename == "" {
		filename = "rdms-" + uuid.New().String() + "." + subtype
	}
	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.imagesDir, filename)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("%w: create image dir: %v", ErrImageFetchFailed, err)
	}
	if err := os.WriteFile(path, resp.Body, 0644); err != nil {
		return nil, nil, fmt.Errorf("%w: write image: %v", ErrImageFetchFailed, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	s.logger.Info().Str("url", imageURL).Str("path", abs).Int("size", len(resp.Body)).Msg("Image saved")
	return nil, &models.SavedImage{
		URL:     imageURL,
		SavedTo: abs,
		Subtype: subtype,
		Size:    len(resp.Body),
	}, nil
}

// imageMime derives the full MIME type and its subtype from a Content-Type
// header, defaulting to png when the header is absent or unparseable.
func imageMime(contentType string) (mimeType, subtype string) {
	if contentType == "" {
		return "image/" + defaultImageSubtype, defaultImageSubtype
	}
	parsed, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "image/" + defaultImageSubtype, defaultImageSubtype
	}
	parts := strings.SplitN(parsed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "image/" + defaultImageSubtype, defaultImageSubtype
	}
	return parsed, parts[1]
}
