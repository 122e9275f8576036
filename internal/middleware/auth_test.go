package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/taskdeck/internal/model"
)

// mockTokenDecoder はTokenDecoderのモック実装。
type mockTokenDecoder struct {
	decodeFn func(tokenString string) *model.Identity
}

func (m *mockTokenDecoder) Decode(tokenString string) *model.Identity {
	if m.decodeFn != nil {
		return m.decodeFn(tokenString)
	}
	return nil
}

func TestAuthMiddleware_NoCookie_ReturnsUnauthorized(t *testing.T) {
	mw := NewAuthMiddleware(&mockTokenDecoder{})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called without a cookie")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_InvalidToken_ReturnsUnauthorized(t *testing.T) {
	decoder := &mockTokenDecoder{
		decodeFn: func(tokenString string) *model.Identity {
			return nil
		},
	}
	mw := NewAuthMiddleware(decoder)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "invalid-token"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ValidToken_InjectsIdentity(t *testing.T) {
	decoder := &mockTokenDecoder{
		decodeFn: func(tokenString string) *model.Identity {
			if tokenString != "valid-token" {
				t.Errorf("tokenString = %q, want %q", tokenString, "valid-token")
			}
			return &model.Identity{UserID: "user-123", Email: "taro@example.com"}
		},
	}
	mw := NewAuthMiddleware(decoder)

	var gotIdentity model.Identity
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := IdentityFromContext(r.Context())
		if err != nil {
			t.Fatalf("IdentityFromContext failed: %v", err)
		}
		gotIdentity = identity
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "valid-token"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if gotIdentity.UserID != "user-123" {
		t.Errorf("UserID = %q, want %q", gotIdentity.UserID, "user-123")
	}
}

func TestIdentityFromContext_MissingIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := IdentityFromContext(req.Context()); err == nil {
		t.Error("expected error for context without identity")
	}
}
