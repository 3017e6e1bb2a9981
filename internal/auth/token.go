package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const tokenTTL = 30 * 24 * time.Hour

// devFallbackSecret keeps a fresh checkout bootable without a .env.
// Anything real must set JWT_SECRET.
const devFallbackSecret = "flicklist-dev-secret-do-not-use-in-production"

// ErrInvalidToken covers every verification failure. Expired, forged,
// and malformed tokens are indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity a token asserts.
type Claims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed identity tokens. It is
// stateless: verification depends only on the token and the key.
type TokenService struct {
	secret []byte
}

// NewTokenService builds a token service around the signing key. An
// empty key falls back to the development default with a warning.
func NewTokenService(secret string) *TokenService {
	if secret == "" {
		logrus.Warn("JWT_SECRET is not set, using insecure development default")
		secret = devFallbackSecret
	}
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token asserting the given identity, valid for 30 days.
func (s *TokenService) Issue(userID uint, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token, returning the embedded identity.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
