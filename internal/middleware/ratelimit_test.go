package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func testRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(1.0 / 60.0),
		GeneralBurst:    2,
		ExtractRate:     rate.Limit(1.0 / 60.0),
		ExtractBurst:    1,
		CleanupInterval: time.Hour,
	}
}

func authedRequest(path string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	return r.WithContext(ContextWithUserID(r.Context(), "user-1"))
}

func TestGeneralMiddleware_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := rl.GeneralMiddleware()(next)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, authedRequest("/api/notes"))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestGeneralMiddleware_ExceedingBurstIsRateLimited(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := rl.GeneralMiddleware()(next)

	for i := 0; i < 2; i++ {
		mw.ServeHTTP(httptest.NewRecorder(), authedRequest("/api/notes"))
	}

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, authedRequest("/api/notes"))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header should be set")
	}

	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if env.Error.Code != "RATE_LIMITED" {
		t.Errorf("code = %q, want RATE_LIMITED", env.Error.Code)
	}
}

func TestExtractionMiddleware_IndependentOfGeneralLimit(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	extractMw := rl.ExtractionMiddleware()(ok)
	generalMw := rl.GeneralMiddleware()(ok)

	// 抽出のバースト(1)を使い切る
	extractMw.ServeHTTP(httptest.NewRecorder(), authedRequest("/api/notes/n1/extract"))

	rec := httptest.NewRecorder()
	extractMw.ServeHTTP(rec, authedRequest("/api/notes/n1/extract"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second extraction should be limited, status = %d", rec.Code)
	}

	// 抽出が制限されていても一般APIは通る
	rec = httptest.NewRecorder()
	generalMw.ServeHTTP(rec, authedRequest("/api/notes"))
	if rec.Code != http.StatusOK {
		t.Errorf("general request should pass, status = %d", rec.Code)
	}
}

func TestRateLimiter_PerUserIsolation(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := rl.GeneralMiddleware()(next)

	// user-1のバーストを使い切る
	for i := 0; i < 3; i++ {
		mw.ServeHTTP(httptest.NewRecorder(), authedRequest("/api/notes"))
	}

	// user-2は影響を受けない
	r := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	r = r.WithContext(ContextWithUserID(r.Context(), "user-2"))
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Errorf("user-2 should not share user-1's bucket, status = %d", rec.Code)
	}

	if rl.GeneralLimiterCount() != 2 {
		t.Errorf("limiter count = %d, want 2", rl.GeneralLimiterCount())
	}
}

func TestGeneralMiddleware_MissingUserIDIsUnauthorized(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("handler should not be reached")
	})
	mw := rl.GeneralMiddleware()(next)

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
