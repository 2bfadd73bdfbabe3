package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/momna763/Target-Lock/internal/models"
	"github.com/momna763/Target-Lock/internal/repo"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCredentialsTooWeak = errors.New("username or password too short")
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidRole        = errors.New("invalid role")
)

// Service registers and authenticates users.
type Service struct {
	users  repo.UserRepository
	tokens *TokenIssuer
	cost   int
}

func NewService(users repo.UserRepository, tokens *TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

// Register creates a user and returns it with a fresh token. An empty role
// means models.RoleUser.
func (s *Service) Register(ctx context.Context, username, password, role string) (models.User, string, error) {
	username = strings.TrimSpace(username)
	if len(username) < MinUsernameLength || len(password) < MinPasswordLength {
		return models.User{}, "", ErrCredentialsTooWeak
	}
	switch role {
	case "":
		role = models.RoleUser
	case models.RoleUser, models.RoleAdmin:
	default:
		return models.User{}, "", ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			return models.User{}, "", ErrUserExists
		}
		return models.User{}, "", err
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (models.User, string, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}
