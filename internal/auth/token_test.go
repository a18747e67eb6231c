package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/avdeenko/chatline/internal/domain"
)

func TestSignAndDecode(t *testing.T) {
	req := require.New(t)
	gate := New("test-secret", time.Hour)

	token, err := gate.Sign(domain.UserID(42))
	req.NoError(err)

	uid, err := gate.DecodeToken(token)
	req.NoError(err)
	req.Equal(domain.UserID(42), uid)
}

func TestDecodeRejections(t *testing.T) {
	gate := New("test-secret", time.Hour)

	expired := New("test-secret", -time.Minute)
	expiredToken, err := expired.Sign(7)
	require.NoError(t, err)

	otherSecret := New("other-secret", time.Hour)
	foreignToken, err := otherSecret.Sign(7)
	require.NoError(t, err)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noSubjectToken, err := noSubject.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"expired", expiredToken},
		{"wrong secret", foreignToken},
		{"no subject", noSubjectToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gate.DecodeToken(tt.token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
