package auth_test

import (
	"testing"
	"time"

	"jitutong/backend/internal/auth"
	"jitutong/backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueUserRoundTrip(t *testing.T) {
	ts := auth.NewTokenService("test-secret")

	token, expiresIn, err := ts.IssueUser(42)
	require.NoError(t, err)
	assert.Equal(t, int((30 * 24 * time.Hour).Seconds()), expiresIn)

	claims, err := ts.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, auth.KindUser, claims.Kind)
	assert.Empty(t, claims.Role)

	id, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestIssueAdminCarriesRole(t *testing.T) {
	ts := auth.NewTokenService("test-secret")
	admin := &models.Admin{ID: 7, Username: "ops", Role: models.AdminRoleWikiAdmin}

	token, expiresIn, err := ts.IssueAdmin(admin)
	require.NoError(t, err)
	assert.Equal(t, int((24 * time.Hour).Seconds()), expiresIn)

	claims, err := ts.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, auth.KindAdmin, claims.Kind)
	assert.Equal(t, models.AdminRoleWikiAdmin, claims.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, _, err := auth.NewTokenService("secret-a").IssueUser(1)
	require.NoError(t, err)

	_, err = auth.NewTokenService("secret-b").Verify(token)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	ts := auth.NewTokenService("test-secret")

	_, err := ts.Verify("not-a-token")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestVerifyExpiredToken(t *testing.T) {
	// Sign an already-expired token with the same secret the service uses.
	secret := "test-secret"
	claims := auth.Claims{
		Kind: auth.KindUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "9",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = auth.NewTokenService(secret).Verify(token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestVerifyRejectsUnsignedAlgorithm(t *testing.T) {
	claims := auth.Claims{
		Kind: auth.KindAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = auth.NewTokenService("test-secret").Verify(token)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}
