package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/minuteman/internal/model"
)

type mockResolver struct {
	resolveFn func(ctx context.Context, rawToken string) (*model.Session, error)
}

func (m *mockResolver) ResolveSession(ctx context.Context, rawToken string) (*model.Session, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, rawToken)
	}
	return nil, model.NewUnauthorizedError()
}

var _ SessionResolver = (*mockResolver)(nil)

func TestBearerToken_CookieTakesPrecedence(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
	r.Header.Set("Authorization", "Bearer header-token")

	if got := BearerToken(r); got != "cookie-token" {
		t.Errorf("BearerToken = %q, want %q", got, "cookie-token")
	}
}

func TestBearerToken_FallsBackToAuthorizationHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer header-token")

	if got := BearerToken(r); got != "header-token" {
		t.Errorf("BearerToken = %q, want %q", got, "header-token")
	}
}

func TestBearerToken_MissingReturnsEmpty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := BearerToken(r); got != "" {
		t.Errorf("BearerToken = %q, want empty", got)
	}

	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if got := BearerToken(r); got != "" {
		t.Errorf("non-Bearer scheme should yield empty, got %q", got)
	}
}

func TestSessionMiddleware_InjectsUserID(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(_ context.Context, rawToken string) (*model.Session, error) {
			if rawToken != "valid-token" {
				return nil, model.NewUnauthorizedError()
			}
			return &model.Session{ID: "session-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "valid-token"})
	rec := httptest.NewRecorder()

	NewSessionMiddleware(resolver)(next).ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != "user-1" {
		t.Errorf("user ID in context = %q, want %q", gotUserID, "user-1")
	}
}

func TestSessionMiddleware_MissingAndInvalidTokenAreIdentical(t *testing.T) {
	resolver := &mockResolver{}

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("handler should not be reached")
	})
	mw := NewSessionMiddleware(resolver)(next)

	// トークンなし
	r1 := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	rec1 := httptest.NewRecorder()
	mw.ServeHTTP(rec1, r1)

	// 無効なトークン
	r2 := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	r2.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bogus"})
	rec2 := httptest.NewRecorder()
	mw.ServeHTTP(rec2, r2)

	if rec1.Code != 401 || rec2.Code != 401 {
		t.Fatalf("status = %d / %d, want 401 / 401", rec1.Code, rec2.Code)
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Error("missing and invalid tokens must produce byte-identical bodies")
	}
}

func TestSessionMiddleware_UnclassifiedResolverErrorIs500(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(_ context.Context, _ string) (*model.Session, error) {
			return nil, context.DeadlineExceeded
		},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("handler should not be reached")
	})

	r := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	rec := httptest.NewRecorder()
	NewSessionMiddleware(resolver)(next).ServeHTTP(rec, r)

	if rec.Code != 500 {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if env.Error.Code != "INTERNAL" {
		t.Errorf("code = %q, want INTERNAL", env.Error.Code)
	}
}

func TestUserIDFromContext_Missing(t *testing.T) {
	if _, err := UserIDFromContext(context.Background()); err == nil {
		t.Error("missing user ID should return error")
	}
}

func TestContextWithUserID_RoundTrip(t *testing.T) {
	ctx := ContextWithUserID(context.Background(), "user-1")
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		t.Fatalf("UserIDFromContext failed: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("userID = %q", userID)
	}
}
