package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLandingTextExtractsPageContent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><h1>Acme Widgets</h1><p>Widgets for everyone.</p></body></html>`))
	}))
	defer server.Close()

	service := NewService(server.Client(), nil)

	text := service.LandingText(context.Background(), server.URL)
	if !strings.Contains(text, "Acme Widgets") {
		t.Fatalf("expected heading in landing text, got %q", text)
	}
	if !strings.Contains(text, "Widgets for everyone.") {
		t.Fatalf("expected paragraph in landing text, got %q", text)
	}
}

func TestLandingTextSwallowsFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	service := NewService(server.Client(), nil)

	if text := service.LandingText(context.Background(), server.URL); text != "" {
		t.Fatalf("expected empty text on 404, got %q", text)
	}
	if text := service.LandingText(context.Background(), ""); text != "" {
		t.Fatalf("expected empty text for empty url, got %q", text)
	}
}

func TestPreviewImageURLReadsOGTag(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<meta property="og:title" content="Acme" />
			<meta property="og:image" content="https://img.test/acme.png" />
		</head><body></body></html>`))
	}))
	defer server.Close()

	service := NewService(server.Client(), nil)

	got := service.PreviewImageURL(context.Background(), server.URL)
	if got != "https://img.test/acme.png" {
		t.Fatalf("unexpected preview url: %q", got)
	}
}

func TestPreviewImageURLEmptyOn404(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	service := NewService(server.Client(), nil)

	if got := service.PreviewImageURL(context.Background(), server.URL); got != "" {
		t.Fatalf("expected empty preview url on 404, got %q", got)
	}
}

func TestPreviewImageURLEmptyWithoutTag(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>no og tags</title></head><body></body></html>`))
	}))
	defer server.Close()

	service := NewService(server.Client(), nil)

	if got := service.PreviewImageURL(context.Background(), server.URL); got != "" {
		t.Fatalf("expected empty preview url without og:image, got %q", got)
	}
}
