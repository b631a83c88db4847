package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinSessionTTL = 24 * time.Hour
	MaxSessionTTL = 30 * 24 * time.Hour
)

type SessionStore interface {
	Create(ctx context.Context, session SessionRecord) error
	Rotate(ctx context.Context, sid, oldToken, newToken string, expiresAt time.Time) error
	Delete(ctx context.Context, sid string) error
}

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (UserRecord, error)
	FindByID(ctx context.Context, userID int64) (UserRecord, error)
}

var ErrUserNotFound = errors.New("user not found")

type Service struct {
	jwt        *JWTManager
	sessions   SessionStore
	users      UserStore
	sessionTTL time.Duration
	now        func() time.Time
}

func NewService(jwtManager *JWTManager, sessions SessionStore, users UserStore, sessionTTL time.Duration) *Service {
	if sessionTTL < MinSessionTTL {
		sessionTTL = MinSessionTTL
	}
	if sessionTTL > MaxSessionTTL {
		sessionTTL = MaxSessionTTL
	}

	return &Service{
		jwt:        jwtManager,
		sessions:   sessions,
		users:      users,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Login verifies the credentials and opens a session. A missing user and
// a wrong password both come back as ErrInvalidCredentials so the caller
// cannot tell which check failed.
func (s *Service) Login(ctx context.Context, username, password string) (AuthResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return AuthResult{}, ErrInvalidInput
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("find user by username: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	sid := uuid.NewString()
	expiresAt := s.now().Add(s.sessionTTL)

	refreshToken, err := s.jwt.GenerateRefreshToken(sid, user.ID, expiresAt)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.sessions.Create(ctx, SessionRecord{
		SID:          sid,
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}); err != nil {
		return AuthResult{}, fmt.Errorf("create session: %w", err)
	}

	accessToken, accessExpires, err := s.jwt.GenerateAccessToken(user.ID, user.Username, user.Roles)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	return AuthResult{
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		AccessExpires:  accessExpires,
		SessionExpires: expiresAt,
		Me: Me{
			ID:       user.ID,
			Username: user.Username,
			Roles:    user.Roles,
		},
	}, nil
}

// Refresh rotates the session's refresh token. Validation and rotation
// happen in one conditional store update, so the presented token fails
// if it was already rotated out, the session expired, or the session is
// gone. Every failure collapses to ErrUnauthorized.
func (s *Service) Refresh(ctx context.Context, presented string) (AuthResult, error) {
	claims, ok := s.jwt.TryParseRefreshToken(presented)
	if !ok {
		return AuthResult{}, ErrUnauthorized
	}

	newExpiresAt := s.now().Add(s.sessionTTL)
	newRefreshToken, err := s.jwt.GenerateRefreshToken(claims.SID, claims.UserID, newExpiresAt)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.sessions.Rotate(ctx, claims.SID, presented, newRefreshToken, newExpiresAt); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("rotate session: %w", err)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("find user by id: %w", err)
	}

	accessToken, accessExpires, err := s.jwt.GenerateAccessToken(user.ID, user.Username, user.Roles)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	return AuthResult{
		AccessToken:    accessToken,
		RefreshToken:   newRefreshToken,
		AccessExpires:  accessExpires,
		SessionExpires: newExpiresAt,
		Me: Me{
			ID:       user.ID,
			Username: user.Username,
			Roles:    user.Roles,
		},
	}, nil
}

// Logout invalidates the session named by the presented refresh token.
func (s *Service) Logout(ctx context.Context, presented string) error {
	claims, ok := s.jwt.TryParseRefreshToken(presented)
	if !ok {
		return ErrUnauthorized
	}

	if err := s.sessions.Delete(ctx, claims.SID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

func (s *Service) ValidateAccessToken(accessToken string) (AccessClaims, error) {
	claims, err := s.jwt.ParseAccessToken(accessToken)
	if err != nil {
		return AccessClaims{}, ErrUnauthorized
	}
	return claims, nil
}
