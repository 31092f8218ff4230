package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_IssueAndVerify(t *testing.T) {
	mgr := NewJWTManager("test-secret")

	token, err := mgr.Issue("u-1", "ada@campus.edu", "organizer", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, role, err := mgr.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "organizer", role)
}

func TestJWTManager_Verify_Rejections(t *testing.T) {
	mgr := NewJWTManager("test-secret")

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := mgr.Verify("not.a.token")
		require.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("other-secret")
		token, err := other.Issue("u-1", "ada@campus.edu", "student", time.Hour)
		require.NoError(t, err)
		_, _, err = mgr.Verify(token)
		require.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := mgr.Issue("u-1", "ada@campus.edu", "student", -time.Minute)
		require.NoError(t, err)
		_, _, err = mgr.Verify(token)
		require.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := jwtClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Role: "student",
		}
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		token, err := raw.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, _, err = mgr.Verify(token)
		require.Error(t, err)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		raw := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u-1"})
		token, err := raw.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, _, err = mgr.Verify(token)
		require.Error(t, err)
	})
}
