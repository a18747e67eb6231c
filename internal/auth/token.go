// Package auth holds the token gate: connections and REST calls present an
// opaque JWT, the gate answers with the user id behind it or rejects.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avdeenko/chatline/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.RegisteredClaims
}

// Gate signs and validates access tokens with a shared HS256 secret.
type Gate struct {
	secret []byte
	ttl    time.Duration
}

func New(secret string, ttl time.Duration) *Gate {
	return &Gate{secret: []byte(secret), ttl: ttl}
}

// DecodeToken validates signature and expiry and extracts the user id from
// the sub claim. Any failure collapses into ErrInvalidToken; callers never
// learn why a credential was rejected.
func (g *Gate) DecodeToken(token string) (domain.UserID, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return 0, ErrInvalidToken
	}
	uid, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || uid <= 0 {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return domain.UserID(uid), nil
}

// Sign mints a token for userID with the gate's ttl.
func (g *Gate) Sign(userID domain.UserID) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(int64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}
