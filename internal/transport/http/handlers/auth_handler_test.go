package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	authsvc "github.com/ugis90/playlistplayer/internal/services/auth"
)

type fakeSessionStore struct {
	sessions map[string]authsvc.SessionRecord
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]authsvc.SessionRecord{}}
}

func (f *fakeSessionStore) Create(_ context.Context, session authsvc.SessionRecord) error {
	f.sessions[session.SID] = session
	return nil
}

func (f *fakeSessionStore) Rotate(_ context.Context, sid, oldToken, newToken string, expiresAt time.Time) error {
	session, ok := f.sessions[sid]
	if !ok || session.RefreshToken != oldToken || !session.ExpiresAt.After(time.Now()) {
		return authsvc.ErrSessionNotFound
	}
	session.RefreshToken = newToken
	session.ExpiresAt = expiresAt
	f.sessions[sid] = session
	return nil
}

func (f *fakeSessionStore) Delete(_ context.Context, sid string) error {
	if _, ok := f.sessions[sid]; !ok {
		return authsvc.ErrSessionNotFound
	}
	delete(f.sessions, sid)
	return nil
}

type fakeUserStore struct {
	users map[string]authsvc.UserRecord
}

func newFakeUserStore(t *testing.T) *fakeUserStore {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123!"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &fakeUserStore{users: map[string]authsvc.UserRecord{
		"alice": {ID: 1, Username: "alice", PasswordHash: string(hash), Roles: []string{"User"}},
	}}
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (authsvc.UserRecord, error) {
	user, ok := f.users[username]
	if !ok {
		return authsvc.UserRecord{}, authsvc.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, userID int64) (authsvc.UserRecord, error) {
	for _, user := range f.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return authsvc.UserRecord{}, authsvc.ErrUserNotFound
}

func newAuthFixture(t *testing.T) (*AuthHandler, *authsvc.JWTManager) {
	t.Helper()
	jwtManager := authsvc.NewJWTManager("test-secret", 15*time.Minute)
	service := authsvc.NewService(jwtManager, newFakeSessionStore(), newFakeUserStore(t), 7*24*time.Hour)
	return NewAuthHandler(service, CookieConfig{Secure: false}), jwtManager
}

func refreshCookie(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range res.Cookies() {
		if cookie.Name == "RefreshToken" {
			return cookie
		}
	}
	return nil
}

func TestLoginSetsRefreshCookie(t *testing.T) {
	handler, _ := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"userName":"alice","password":"Secret123!"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.AccessToken == "" {
		t.Fatal("accessToken must be non-empty")
	}

	cookie := refreshCookie(t, rec.Result())
	if cookie == nil {
		t.Fatal("RefreshToken cookie must be set")
	}
	if !cookie.HttpOnly {
		t.Fatal("RefreshToken cookie must be HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("SameSite = %v, want Lax", cookie.SameSite)
	}
	if !cookie.Expires.After(time.Now()) {
		t.Fatal("cookie expiry must match the session, not be a session cookie")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	handler, _ := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"userName":"alice","password":"wrong"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if refreshCookie(t, rec.Result()) != nil {
		t.Fatal("failed login must not set a cookie")
	}
}

func TestRefreshWithoutCookie(t *testing.T) {
	handler, _ := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/accessToken", nil)
	rec := httptest.NewRecorder()
	handler.Refresh(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestRefreshRotatesCookie(t *testing.T) {
	handler, _ := newAuthFixture(t)

	loginReq := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"userName":"alice","password":"Secret123!"}`))
	loginRec := httptest.NewRecorder()
	handler.Login(loginRec, loginReq)
	first := refreshCookie(t, loginRec.Result())
	if first == nil {
		t.Fatal("login must set a cookie")
	}

	refreshReq := httptest.NewRequest(http.MethodPost, "/api/accessToken", nil)
	refreshReq.AddCookie(first)
	refreshRec := httptest.NewRecorder()
	handler.Refresh(refreshRec, refreshReq)

	if refreshRec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, want 200", refreshRec.Code)
	}
	second := refreshCookie(t, refreshRec.Result())
	if second == nil || second.Value == first.Value {
		t.Fatal("refresh must rotate the cookie value")
	}

	// The rotated-out token is dead.
	staleReq := httptest.NewRequest(http.MethodPost, "/api/accessToken", nil)
	staleReq.AddCookie(first)
	staleRec := httptest.NewRecorder()
	handler.Refresh(staleRec, staleReq)
	if staleRec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("stale refresh status = %d, want 422", staleRec.Code)
	}
}

func TestRefreshWithExpiredToken(t *testing.T) {
	handler, jwtManager := newAuthFixture(t)

	expired, err := jwtManager.GenerateRefreshToken("some-sid", 1, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/accessToken", nil)
	req.AddCookie(&http.Cookie{Name: "RefreshToken", Value: expired})
	rec := httptest.NewRecorder()
	handler.Refresh(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestLogoutClearsCookieAndKillsSession(t *testing.T) {
	handler, _ := newAuthFixture(t)

	loginReq := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"userName":"alice","password":"Secret123!"}`))
	loginRec := httptest.NewRecorder()
	handler.Login(loginRec, loginReq)
	cookie := refreshCookie(t, loginRec.Result())
	if cookie == nil {
		t.Fatal("login must set a cookie")
	}

	logoutReq := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	logoutReq.AddCookie(cookie)
	logoutRec := httptest.NewRecorder()
	handler.Logout(logoutRec, logoutReq)

	if logoutRec.Code != http.StatusOK {
		t.Fatalf("logout status = %d, want 200", logoutRec.Code)
	}
	cleared := refreshCookie(t, logoutRec.Result())
	if cleared == nil || cleared.Value != "" || cleared.MaxAge != -1 {
		t.Fatal("logout must clear the cookie")
	}

	// Refresh with the invalidated token fails.
	refreshReq := httptest.NewRequest(http.MethodPost, "/api/accessToken", nil)
	refreshReq.AddCookie(cookie)
	refreshRec := httptest.NewRecorder()
	handler.Refresh(refreshRec, refreshReq)
	if refreshRec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("refresh after logout status = %d, want 422", refreshRec.Code)
	}
}

func TestLogoutWithoutCookie(t *testing.T) {
	handler, _ := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}
