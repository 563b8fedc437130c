// Package auth issues bearer tokens for the HTTP surface. The rest of
// the service only consumes the resulting principal string.
package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/fernbank/ledger-service/internal/middleware"
	"github.com/fernbank/ledger-service/internal/repository"
	"github.com/fernbank/ledger-service/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	users    repository.UserStore
	tokenTTL time.Duration
}

func NewService(users repository.UserStore) *Service {
	return &Service{users: users, tokenTTL: 24 * time.Hour}
}

// Login verifies the password and returns a signed HS256 token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	claims := middleware.Claims{
		UserID: strconv.FormatInt(user.ID, 10),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(middleware.JWTSecret())
}
