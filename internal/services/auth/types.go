package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSessionNotFound    = errors.New("session not found")
)

type SessionRecord struct {
	SID          string
	UserID       int64
	RefreshToken string
	ExpiresAt    time.Time
}

type UserRecord struct {
	ID           int64
	Username     string
	PasswordHash string
	Roles        []string
}

type AccessClaims struct {
	UserID    int64
	Username  string
	Roles     []string
	ExpiresAt time.Time
}

type RefreshClaims struct {
	SID       string
	UserID    int64
	ExpiresAt time.Time
}

type Me struct {
	ID       int64
	Username string
	Roles    []string
}

type AuthResult struct {
	AccessToken    string
	RefreshToken   string
	AccessExpires  time.Time
	SessionExpires time.Time
	Me             Me
}
