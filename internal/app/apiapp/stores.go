package apiapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgrepo "github.com/ugis90/playlistplayer/internal/repo/postgres"
	accountsvc "github.com/ugis90/playlistplayer/internal/services/accounts"
	authsvc "github.com/ugis90/playlistplayer/internal/services/auth"
)

// The service packages own their store interfaces and sentinel errors;
// these adapters map the postgres repos onto them.

type authSessionStore struct {
	repo *pgrepo.SessionRepo
}

func (s authSessionStore) Create(ctx context.Context, session authsvc.SessionRecord) error {
	return s.repo.Create(ctx, pgrepo.SessionRecord{
		ID:           session.SID,
		UserID:       session.UserID,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    session.ExpiresAt,
	})
}

func (s authSessionStore) Rotate(ctx context.Context, sid, oldToken, newToken string, expiresAt time.Time) error {
	err := s.repo.Rotate(ctx, sid, oldToken, newToken, expiresAt)
	if errors.Is(err, pgrepo.ErrSessionNotFound) {
		return authsvc.ErrSessionNotFound
	}
	return err
}

func (s authSessionStore) Delete(ctx context.Context, sid string) error {
	err := s.repo.Delete(ctx, sid)
	if errors.Is(err, pgrepo.ErrSessionNotFound) {
		return authsvc.ErrSessionNotFound
	}
	return err
}

type authUserStore struct {
	repo *pgrepo.UserRepo
}

func (s authUserStore) FindByUsername(ctx context.Context, username string) (authsvc.UserRecord, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return authsvc.UserRecord{}, authsvc.ErrUserNotFound
		}
		return authsvc.UserRecord{}, err
	}
	return authUserRecord(user), nil
}

func (s authUserStore) FindByID(ctx context.Context, userID int64) (authsvc.UserRecord, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return authsvc.UserRecord{}, authsvc.ErrUserNotFound
		}
		return authsvc.UserRecord{}, err
	}
	return authUserRecord(user), nil
}

func authUserRecord(user pgrepo.UserRecord) authsvc.UserRecord {
	return authsvc.UserRecord{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Roles:        user.Roles,
	}
}

type accountUserStore struct {
	repo *pgrepo.UserRepo
}

func (s accountUserStore) CreateWithRoles(ctx context.Context, username, email, passwordHash string, roles []string) (accountsvc.CreatedUser, error) {
	user, err := s.repo.CreateWithRoles(ctx, username, email, passwordHash, roles)
	if err != nil {
		switch {
		case errors.Is(err, pgrepo.ErrUsernameTaken):
			return accountsvc.CreatedUser{}, accountsvc.ErrUsernameTaken
		case errors.Is(err, pgrepo.ErrEmailTaken):
			return accountsvc.CreatedUser{}, accountsvc.ErrEmailTaken
		}
		return accountsvc.CreatedUser{}, fmt.Errorf("create user with roles: %w", err)
	}

	return accountsvc.CreatedUser{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
	}, nil
}
