package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Varun5711/tasktracker/internal/auth"
	"github.com/Varun5711/tasktracker/internal/models"
	"github.com/Varun5711/tasktracker/internal/storage"
)

// UserCache short-circuits the user lookup on every authenticated request.
type UserCache interface {
	GetUser(ctx context.Context, email string) (*models.User, bool)
	SetUser(ctx context.Context, user *models.User) error
}

type Session struct {
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	users  storage.UserStore
	hasher auth.PasswordHasher
	jwt    *auth.JWTManager
	cache  UserCache
}

// NewAuthService wires the auth flow; cache may be nil.
func NewAuthService(users storage.UserStore, hasher auth.PasswordHasher, jwt *auth.JWTManager, cache UserCache) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		jwt:    jwt,
		cache:  cache,
	}
}

// Authenticate checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Check(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return user, nil
}

func (s *AuthService) IssueSession(user *models.User) (*Session, error) {
	token, expiresAt, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *Session, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.IssueSession(user)
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// ResolveSession maps a token back to its user via the email claim.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	if s.cache != nil {
		if user, found := s.cache.GetUser(ctx, claims.Email); found {
			return user, nil
		}
	}

	user, err := s.users.GetUserByEmail(ctx, claims.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidSession
	}

	if s.cache != nil {
		// best effort; a failed write only costs a lookup next time
		_ = s.cache.SetUser(ctx, user)
	}

	return &models.User{ID: user.ID, Email: user.Email}, nil
}
