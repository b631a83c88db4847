package apiapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authsvc "github.com/ugis90/playlistplayer/internal/services/auth"
)

func newAuthService() (*authsvc.Service, *authsvc.JWTManager) {
	jwtManager := authsvc.NewJWTManager("test-secret", 15*time.Minute)
	return authsvc.NewService(jwtManager, nil, nil, 7*24*time.Hour), jwtManager
}

func TestAuthMiddlewarePassesIdentity(t *testing.T) {
	service, jwtManager := newAuthService()
	token, _, err := jwtManager.GenerateAccessToken(7, "alice", []string{"User"})
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	var got authsvc.Identity
	AuthMiddleware(service, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = authsvc.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if got.UserID != 7 || got.Username != "alice" {
		t.Fatalf("identity = %+v", got)
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	service, _ := newAuthService()

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	rr := httptest.NewRecorder()

	AuthMiddleware(service, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run without a token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestAuthMiddlewareRejectsForgedToken(t *testing.T) {
	service, _ := newAuthService()
	forged := authsvc.NewJWTManager("other-secret", 15*time.Minute)
	token, _, err := forged.GenerateAccessToken(7, "alice", []string{"User"})
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	AuthMiddleware(service, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run with a forged token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestRequireRoleAllowsAdministrator(t *testing.T) {
	mw := RequireRole("Administrator")

	req := httptest.NewRequest(http.MethodPost, "/api/categories", nil)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: 1,
		Roles:  []string{"User", "Administrator"},
	}))
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
}

func TestRequireRoleRejectsPlainUser(t *testing.T) {
	mw := RequireRole("Administrator")

	req := httptest.NewRequest(http.MethodPost, "/api/categories", nil)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: 2,
		Roles:  []string{"User"},
	}))
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run for a plain user")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}
}
