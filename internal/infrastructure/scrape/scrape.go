package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/levente-murgas/producthunt-ideator/internal/ports"
)

const maxBodyBytes = 2 << 20

// Service fetches product web pages for enrichment. Everything here is
// best-effort: failures are logged and reported as empty strings so the
// enrichment stage never aborts on a broken landing page.
type Service struct {
	client    *http.Client
	converter *md.Converter
	logger    *slog.Logger
}

var _ ports.Scraper = (*Service)(nil)

// NewService wires an HTTP client; the default carries the fixed 20s scrape
// timeout.
func NewService(client *http.Client, logger *slog.Logger) *Service {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:    client,
		converter: md.NewConverter("", true, nil),
		logger:    logger,
	}
}

// LandingText downloads the product's landing page and reduces it to plain
// markdown text used as supplementary input for the summarization prompt.
func (s *Service) LandingText(ctx context.Context, pageURL string) string {
	if pageURL == "" {
		return ""
	}

	body, err := s.get(ctx, pageURL)
	if err != nil {
		s.logger.Debug("landing page fetch failed", "url", pageURL, "error", err)
		return ""
	}

	text, err := s.converter.ConvertString(string(body))
	if err != nil {
		s.logger.Debug("landing page conversion failed", "url", pageURL, "error", err)
		return ""
	}

	return strings.TrimSpace(text)
}

// PreviewImageURL extracts the og:image URL from the product's canonical
// page metadata.
func (s *Service) PreviewImageURL(ctx context.Context, pageURL string) string {
	if pageURL == "" {
		return ""
	}

	body, err := s.get(ctx, pageURL)
	if err != nil {
		s.logger.Debug("preview page fetch failed", "url", pageURL, "error", err)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		s.logger.Debug("preview page parse failed", "url", pageURL, "error", err)
		return ""
	}

	content, _ := doc.Find(`meta[property="og:image"]`).First().Attr("content")
	return content
}

func (s *Service) get(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "producthunt-ideator/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}

	return body, nil
}
