package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/bank-cards/internal/config"
	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService authenticates users and issues JWT tokens.
type AuthService struct {
	users  UserStore
	log    *logrus.Logger
	config *config.Config
}

// NewAuthService initializes a new auth service
func NewAuthService(users UserStore, log *logrus.Logger, cfg *config.Config) *AuthService {
	return &AuthService{users: users, log: log, config: cfg}
}

// Claims carried in issued tokens.
type Claims struct {
	Roles []models.Role `json:"roles"`
	jwt.RegisteredClaims
}

// Login verifies the credentials and returns a signed JWT. Lookup and
// password failures are reported identically so usernames cannot be
// probed.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		return "", models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Roles: user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Username)
	return tokenString, nil
}
