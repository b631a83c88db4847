package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ugis90/playlistplayer/internal/domain/enums"
	"github.com/ugis90/playlistplayer/internal/pkg/validate"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)

// ValidationError carries the per-field problems for a rejected
// registration so handlers never have to probe loose error shapes.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

type UserStore interface {
	CreateWithRoles(ctx context.Context, username, email, passwordHash string, roles []string) (CreatedUser, error)
}

type CreatedUser struct {
	ID        int64
	Username  string
	Email     string
	Roles     []string
	CreatedAt time.Time
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type Service struct {
	users UserStore
}

func NewService(users UserStore) *Service {
	return &Service{users: users}
}

// Register creates the user with the default role. User row and role
// assignment commit together; a duplicate username surfaces as a field
// error and leaves no partial state behind.
func (s *Service) Register(ctx context.Context, in RegisterInput) (CreatedUser, error) {
	if s.users == nil {
		return CreatedUser{}, fmt.Errorf("user store is nil")
	}

	fields := map[string][]string{}
	if problems := validate.Username(in.Username); len(problems) > 0 {
		fields["userName"] = problems
	}
	if problems := validate.Email(in.Email); len(problems) > 0 {
		fields["email"] = problems
	}
	if problems := validate.Password(in.Password); len(problems) > 0 {
		fields["password"] = problems
	}
	if len(fields) > 0 {
		return CreatedUser{}, &ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return CreatedUser{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateWithRoles(ctx,
		strings.TrimSpace(in.Username),
		strings.TrimSpace(in.Email),
		string(hash),
		[]string{string(enums.RoleUser)},
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			return CreatedUser{}, &ValidationError{Fields: map[string][]string{
				"userName": {"Username already taken"},
			}}
		case errors.Is(err, ErrEmailTaken):
			return CreatedUser{}, &ValidationError{Fields: map[string][]string{
				"email": {"Email already taken"},
			}}
		}
		return CreatedUser{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}
