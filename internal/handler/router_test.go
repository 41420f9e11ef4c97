package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/minuteman/internal/middleware"
	"github.com/hitoshi/minuteman/internal/model"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rl.Stop)

	resolver := &mockAuthService{
		resolveFn: func(_ context.Context, rawToken string) (*model.Session, error) {
			if rawToken == "valid-token" {
				return &model.Session{ID: "session-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
			}
			return nil, model.NewUnauthorizedError()
		},
	}

	deps := &RouterDeps{
		SessionResolver:   resolver,
		RateLimiter:       rl,
		CORSAllowedOrigin: "http://localhost:3000",
		Logger:            slog.New(slog.NewJSONHandler(io.Discard, nil)),

		AuthService: resolver,
		AuthConfig:  testAuthConfig(),

		NoteService:       &mockNoteService{},
		ExtractionService: &mockExtractionService{},
		ActionItemService: &mockActionItemService{},
		UserService:       &mockUserService{},
	}

	return NewRouter(deps)
}

type mockUserService struct {
	withdrawFn func(ctx context.Context, userID string) error
}

func (m *mockUserService) Withdraw(ctx context.Context, userID string) error {
	if m.withdrawFn != nil {
		return m.withdrawFn(ctx, userID)
	}
	return nil
}

var _ UserServiceInterface = (*mockUserService)(nil)

// --- テスト ---

func TestRouter_HealthIsPublic(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRouter_APIWithoutTokenIsUnauthorized(t *testing.T) {
	router := testRouter(t)

	paths := []string{"/api/notes", "/api/items", "/api/notes/note-1"}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", path, rec.Code)
		}
	}
}

func TestRouter_APIWithValidToken(t *testing.T) {
	router := testRouter(t)

	r := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	r.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "valid-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_BearerHeaderAlsoAccepted(t *testing.T) {
	router := testRouter(t)

	r := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	r.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

// 状態変更メソッドは認証済みでもCSRFトークンなしでは拒否される。
func TestRouter_MutationWithoutCSRFTokenIsForbidden(t *testing.T) {
	router := testRouter(t)

	r := httptest.NewRequest(http.MethodPost, "/api/notes", nil)
	r.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "valid-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRouter_WithdrawClearsCookie(t *testing.T) {
	router := testRouter(t)

	r := httptest.NewRequest(http.MethodDelete, "/api/users/me", nil)
	r.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "valid-token"})
	r.AddCookie(&http.Cookie{Name: "csrf_token", Value: "tok"})
	r.Header.Set("X-CSRF-Token", "tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204: %s", rec.Code, rec.Body.String())
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie should be cleared on withdrawal")
	}
}

func TestRouter_UnknownPathIs404(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
