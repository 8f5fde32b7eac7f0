package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tappress/checkbox/internal/auth"
	"github.com/tappress/checkbox/internal/config"
	"github.com/tappress/checkbox/internal/errors"
	"github.com/tappress/checkbox/internal/model"
	"github.com/tappress/checkbox/internal/repository"
)

const bcryptCost = 10

// invalidCredentials is shared by every sign-in failure so the response does
// not reveal whether the email or the password was wrong.
const invalidCredentials = "Invalid email or password."

// UserService handles account registration and the token lifecycle.
type UserService interface {
	SignUp(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	SignIn(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	RefreshTokens(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, err error)
	ResolveAccessToken(token string) (userID string, err error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	users repository.UserRepository
	codec *auth.Codec
	cfg   config.AuthConfig
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, codec *auth.Codec, cfg config.AuthConfig) UserService {
	return &userService{users: users, codec: codec, cfg: cfg}
}

// SignUp registers a new account and issues its first token pair.
func (s *userService) SignUp(ctx context.Context, email, password string) (string, string, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return "", "", errors.NewResourceAlreadyExists("User with email %s already registered", email)
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return "", "", fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Two sign-ups racing on the same email: the unique index decides.
		if err == gorm.ErrDuplicatedKey {
			return "", "", errors.NewResourceAlreadyExists("User with email %s already registered", email)
		}
		return "", "", fmt.Errorf("create user: %w", err)
	}

	return s.generateTokens(user.ID)
}

// SignIn verifies credentials and issues a token pair.
func (s *userService) SignIn(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", "", errors.NewUnauthorized(invalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", errors.NewUnauthorized(invalidCredentials)
	}

	return s.generateTokens(user.ID)
}

// RefreshTokens exchanges a valid refresh token for a brand-new pair. Refresh
// tokens are stateless and stay usable until expiry; nothing is rotated or
// revoked server-side.
func (s *userService) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	userID, err := s.codec.Decode(refreshToken, []byte(s.cfg.RefreshTokenSecret))
	if err != nil {
		return "", "", err
	}
	return s.generateTokens(userID)
}

// ResolveAccessToken decodes an access token to the user id it identifies.
func (s *userService) ResolveAccessToken(token string) (string, error) {
	return s.codec.Decode(token, []byte(s.cfg.AccessTokenSecret))
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

// Delete removes a user and, through the cascading foreign keys, every
// receipt and product line the user owns.
func (s *userService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func (s *userService) generateTokens(userID string) (string, string, error) {
	accessToken, err := s.codec.Encode(
		userID,
		time.Duration(s.cfg.AccessTokenTTLMin)*time.Minute,
		[]byte(s.cfg.AccessTokenSecret),
	)
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.codec.Encode(
		userID,
		time.Duration(s.cfg.RefreshTokenTTLMin)*time.Minute,
		[]byte(s.cfg.RefreshTokenSecret),
	)
	if err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}
