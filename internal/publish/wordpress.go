package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/levente-murgas/producthunt-ideator/internal/config"
	"github.com/levente-murgas/producthunt-ideator/internal/domain"
	"github.com/levente-murgas/producthunt-ideator/internal/ports"
)

// WordPress publishes rendered daily documents to a WordPress site. Publish
// failures are deliberately non-fatal: they are logged and, for rejected
// posts, the raw response is kept on disk for diagnosis.
type WordPress struct {
	baseURL    string
	username   string
	password   string
	categoryID int
	dataDir    string
	client     *http.Client
	logger     *slog.Logger
}

var _ ports.Publisher = (*WordPress)(nil)

// NewWordPress builds a publisher from configuration. Redirects are
// disabled so a misconfigured site cannot silently re-route the post.
func NewWordPress(cfg config.WordPressConfig, dataDir string, logger *slog.Logger) *WordPress {
	if logger == nil {
		logger = slog.Default()
	}
	return &WordPress{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		username:   cfg.Username,
		password:   cfg.Password,
		categoryID: cfg.CategoryID,
		dataDir:    dataDir,
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}
}

// Publish reads the rendered document for the date, strips its title line,
// converts the rest to HTML and POSTs it. A missing document is a logged
// no-op; HTTP 201 is the only success status.
func (w *WordPress) Publish(ctx context.Context, date string) error {
	path := filepath.Join(w.dataDir, domain.DocumentFileName(date))

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		w.logger.Error("rendered document not found", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	title, body := splitTitle(string(raw))

	var html bytes.Buffer
	if err := goldmark.Convert([]byte(body), &html); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}

	slug := strings.TrimSuffix(filepath.Base(path), ".md")
	payload, err := json.Marshal(map[string]any{
		"title":      title,
		"content":    html.String(),
		"status":     "publish",
		"slug":       slug,
		"categories": []int{w.categoryID},
	})
	if err != nil {
		return fmt.Errorf("marshal post payload: %w", err)
	}

	endpoint := w.baseURL + "/wp-json/wp/v2/posts"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("new publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(w.username, w.password)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("publish post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		w.logger.Info("post published", "slug", slug)
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	w.logger.Error("failed to publish post", "status", resp.Status, "slug", slug)

	sidecar := filepath.Join(w.dataDir, fmt.Sprintf("error_%s.json", slug))
	if writeErr := os.WriteFile(sidecar, respBody, 0o644); writeErr != nil {
		w.logger.Error("cannot persist publish diagnostics", "path", sidecar, "error", writeErr)
	}

	return nil
}

// splitTitle separates the leading "# ..." heading from the rest of the
// document. The title text loses its hash markers; the body keeps
// everything after the first line.
func splitTitle(content string) (string, string) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 {
		return "", ""
	}

	title := strings.TrimSpace(strings.TrimLeft(lines[0], "#"))
	body := lines
	if strings.HasPrefix(lines[0], "#") {
		body = lines[1:]
	}
	return title, strings.Join(body, "\n")
}
