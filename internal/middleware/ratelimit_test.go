package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/taskdeck/internal/model"
)

func newTestRateLimiter(t *testing.T, generalBurst, taskWriteBurst int) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(0.001),
		GeneralBurst:    generalBurst,
		TaskWriteRate:   rate.Limit(0.001),
		TaskWriteBurst:  taskWriteBurst,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(rl.Stop)
	return rl
}

func authedRequest(method, path, userID string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	ctx := ContextWithIdentity(req.Context(), model.Identity{UserID: userID, Email: userID + "@example.com"})
	return req.WithContext(ctx)
}

func TestRateLimiter_General_AllowsWithinBurst(t *testing.T) {
	rl := newTestRateLimiter(t, 3, 3)
	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, authedRequest(http.MethodGet, "/api/tasks", "user-1"))
		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, w.Result().StatusCode, http.StatusOK)
		}
	}
}

func TestRateLimiter_General_RejectsBeyondBurst(t *testing.T) {
	rl := newTestRateLimiter(t, 2, 2)
	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, authedRequest(http.MethodGet, "/api/tasks", "user-1"))
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest(http.MethodGet, "/api/tasks", "user-1"))

	resp := w.Result()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("expected Retry-After header on rate limited response")
	}
}

func TestRateLimiter_General_IsPerUser(t *testing.T) {
	rl := newTestRateLimiter(t, 1, 1)
	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// user-1のバーストを使い切る
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest(http.MethodGet, "/api/tasks", "user-1"))

	// user-2には影響しない
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest(http.MethodGet, "/api/tasks", "user-2"))
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("user-2 status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	if got := rl.GeneralLimiterCount(); got != 2 {
		t.Errorf("GeneralLimiterCount = %d, want 2", got)
	}
}

func TestRateLimiter_TaskWrite_IndependentOfGeneral(t *testing.T) {
	rl := newTestRateLimiter(t, 10, 1)
	writeHandler := rl.TaskWriteMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// 書き込みのバーストを使い切る
	w := httptest.NewRecorder()
	writeHandler.ServeHTTP(w, authedRequest(http.MethodPost, "/api/tasks", "user-1"))

	w = httptest.NewRecorder()
	writeHandler.ServeHTTP(w, authedRequest(http.MethodPost, "/api/tasks", "user-1"))
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("write status = %d, want %d", w.Result().StatusCode, http.StatusTooManyRequests)
	}

	// API全般のリミッターは別管理
	readHandler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	w = httptest.NewRecorder()
	readHandler.ServeHTTP(w, authedRequest(http.MethodGet, "/api/tasks", "user-1"))
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("read status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestRateLimiter_NoIdentity_ReturnsUnauthorized(t *testing.T) {
	rl := newTestRateLimiter(t, 1, 1)
	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called without identity")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}
