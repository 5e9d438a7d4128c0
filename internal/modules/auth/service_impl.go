package auth

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/ritamendes/fornaria-backend/internal/apperr"
	"github.com/ritamendes/fornaria-backend/internal/modules/user"
)

const tokenTTL = 24 * time.Hour

// Claims is the JWT payload issued on login. The name rides along so the
// middleware can build the caller identity without a database lookup.
type Claims struct {
	jwt.StandardClaims
	Name string `json:"name"`
}

type service struct {
	userRepo user.Repository
	secret   []byte
}

// NewService creates a new auth service signing tokens with secret.
func NewService(userRepo user.Repository, secret string) Service {
	return &service{userRepo: userRepo, secret: []byte(secret)}
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.Validation("email", "invalid credentials")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", apperr.Validation("password", "invalid credentials")
	}

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			ExpiresAt: time.Now().Add(tokenTTL).Unix(),
		},
		Name: u.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperr.Internal("sign token", err)
	}
	return signed, nil
}
