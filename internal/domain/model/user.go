package model

import (
	"time"

	"github.com/ugis90/playlistplayer/internal/domain/enums"
)

type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Roles        []enums.Role `json:"roles"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
