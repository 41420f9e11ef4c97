package note

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/minuteman/internal/model"
	"github.com/hitoshi/minuteman/internal/security"
)

// permissiveGuard は検証をスキップするテスト用ガード。
// httptestサーバー（ループバック）へ接続するために使用する。
type permissiveGuard struct {
	validateErr error
}

func (g *permissiveGuard) ValidateURL(_ string) error {
	return g.validateErr
}

func (g *permissiveGuard) NewSafeClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

var _ security.SSRFGuardService = (*permissiveGuard)(nil)

func importerLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestFetch_ExtractsTitleAndText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><head><title>週次定例</title><style>p{}</style></head>` +
			`<body><p>議題は予算</p><script>tracker()</script></body></html>`))
	}))
	defer server.Close()

	imp := NewImporter(&permissiveGuard{}, importerLogger(), 5*time.Second, 1<<20)

	page, err := imp.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if page.Title != "週次定例" {
		t.Errorf("Title = %q", page.Title)
	}
	if !strings.Contains(page.Body, "議題は予算") {
		t.Errorf("Body = %q", page.Body)
	}
	if strings.Contains(page.Body, "tracker") {
		t.Errorf("script content should be excluded, got %q", page.Body)
	}
}

func TestFetch_RejectedURLIsBadRequest(t *testing.T) {
	guard := &permissiveGuard{validateErr: errors.New("blocked IP address: 169.254.169.254")}
	imp := NewImporter(guard, importerLogger(), 5*time.Second, 1<<20)

	_, err := imp.Fetch(context.Background(), "http://169.254.169.254/latest/meta-data/")
	apiErr, ok := model.AsAPIError(err)
	if !ok || apiErr.Code != model.CodeBadRequest {
		t.Fatalf("expected BAD_REQUEST, got %v", err)
	}
	// ブロック理由の内部詳細はdetailsに漏らさない
	if strings.Contains(apiErr.Details["url"], "169.254") {
		t.Errorf("details should not echo the blocked target: %v", apiErr.Details)
	}
}

func TestFetch_NonOKStatusIsBadRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	imp := NewImporter(&permissiveGuard{}, importerLogger(), 5*time.Second, 1<<20)

	_, err := imp.Fetch(context.Background(), server.URL)
	apiErr, ok := model.AsAPIError(err)
	if !ok || apiErr.Code != model.CodeBadRequest {
		t.Errorf("expected BAD_REQUEST, got %v", err)
	}
}

func TestFetch_TruncatesOversizedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><body><p>" + strings.Repeat("あ", 10000) + "</p></body></html>"))
	}))
	defer server.Close()

	imp := NewImporter(&permissiveGuard{}, importerLogger(), 5*time.Second, 512)

	page, err := imp.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(page.Body) > 1024 {
		t.Errorf("body should be truncated near maxSize, got %d bytes", len(page.Body))
	}
}

func TestFetch_FallbackTitleFromHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><body><p>no title here</p></body></html>`))
	}))
	defer server.Close()

	imp := NewImporter(&permissiveGuard{}, importerLogger(), 5*time.Second, 1<<20)

	page, err := imp.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !strings.HasPrefix(page.Title, "Imported from ") {
		t.Errorf("Title = %q, want fallback", page.Title)
	}
}
