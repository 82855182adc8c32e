package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret")

	tokenString, err := m.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	userID, err := m.Verify(tokenString)
	require.NoError(t, err)
	require.Equal(t, uint64(42), userID)
}

func TestVerifyWrongSecret(t *testing.T) {
	tokenString, err := NewManager("secret-a").Issue(1)
	require.NoError(t, err)

	_, err = NewManager("secret-b").Verify(tokenString)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	m := NewManager("test-secret")

	claims := jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Verify(expired)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	m := NewManager("test-secret")

	claims := jwt.RegisteredClaims{Subject: "7"}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	m := NewManager("test-secret")
	_, err := m.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
