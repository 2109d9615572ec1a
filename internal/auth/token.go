// Package auth implements session token issuance/verification and the
// request gates that resolve a caller to a User or Admin principal.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"jitutong/backend/internal/config"
	"jitutong/backend/internal/models"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Principal kinds carried in the token's type claim. The tag is
// authoritative: a user token is never accepted where an admin token is
// required, regardless of signature validity.
const (
	KindUser  = "user"
	KindAdmin = "admin"
)

var (
	// ErrTokenExpired is returned by Verify for a well-formed but expired token.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid covers malformed tokens and bad signatures.
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims is the decoded claim set of a session token. Role is only present
// on admin tokens.
type Claims struct {
	Kind string `json:"type"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// SubjectID parses the subject claim as the principal's numeric id.
func (c *Claims) SubjectID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return uint(id), nil
}

// TokenService signs and verifies stateless HS256 session tokens.
// Invalidation is by expiry only; there is no revocation list.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// IssueUser creates a 30-day user token. Returns the signed token and its
// lifetime in seconds.
func (ts *TokenService) IssueUser(userID uint) (string, int, error) {
	return ts.issue(strconv.FormatUint(uint64(userID), 10), KindUser, "", config.UserTokenTTL)
}

// IssueAdmin creates a 1-day admin token carrying the admin's role.
func (ts *TokenService) IssueAdmin(admin *models.Admin) (string, int, error) {
	return ts.issue(strconv.FormatUint(uint64(admin.ID), 10), KindAdmin, admin.Role, config.AdminTokenTTL)
}

func (ts *TokenService) issue(subject, kind, role string, ttl time.Duration) (string, int, error) {
	now := time.Now()
	claims := Claims{
		Kind: kind,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    config.TokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return token, int(ttl.Seconds()), nil
}

// Verify decodes and validates a token, returning its claims or one of the
// typed failures ErrTokenExpired / ErrTokenInvalid.
func (ts *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ts.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
