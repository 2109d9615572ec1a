package auth

import (
	"errors"
	"net/http"
	"strings"

	"jitutong/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Context keys set by the gates.
const (
	ctxUserKey     = "auth.user"
	ctxAdminKey    = "auth.admin"
	ctxElevatedKey = "auth.elevated"
)

// PrincipalStore resolves token subjects to stored principals.
type PrincipalStore interface {
	GetUserByID(id uint) (*models.User, error)
	GetAdminByID(id uint) (*models.Admin, error)
}

// Guard bundles the token service with principal lookup for the gates.
type Guard struct {
	Tokens *TokenService
	Store  PrincipalStore
}

func NewGuard(tokens *TokenService, store PrincipalStore) *Guard {
	return &Guard{Tokens: tokens, Store: store}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
}

func tokenMessage(err error) string {
	if errors.Is(err, ErrTokenExpired) {
		return "Token has expired!"
	}
	return "Token is invalid!"
}

// OptionalUser resolves a User principal when a bearer token is present,
// and lets anonymous requests through with no principal. A token that is
// present but invalid still fails the request.
func (g *Guard) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		user, err := g.resolveUser(token)
		if err != nil {
			abortUnauthorized(c, tokenMessage(err))
			return
		}
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// RequireUser only admits requests carrying a valid user token that resolves
// to an existing, non-deleted user.
func (g *Guard) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, "Token is missing!")
			return
		}
		user, err := g.resolveUser(token)
		if err != nil {
			abortUnauthorized(c, tokenMessage(err))
			return
		}
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// RequireAdmin only admits admin-kind tokens resolving to an Admin row.
// A valid token of the wrong kind is a Forbidden, not an Unauthorized.
func (g *Guard) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, "Token is missing!")
			return
		}
		claims, err := g.Tokens.Verify(token)
		if err != nil {
			abortUnauthorized(c, tokenMessage(err))
			return
		}
		if claims.Kind != KindAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: Admin access required."})
			return
		}
		admin, err := g.resolveAdmin(claims)
		if err != nil {
			abortUnauthorized(c, "Admin user not found.")
			return
		}
		c.Set(ctxAdminKey, admin)
		c.Next()
	}
}

// RequireWikiEditor admits admin tokens unconditionally and user tokens
// whose user holds the wiki_editor or admin role. Downstream handlers see
// the resolved principal plus the elevated flag.
func (g *Guard) RequireWikiEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, "Token is missing!")
			return
		}
		claims, err := g.Tokens.Verify(token)
		if err != nil {
			abortUnauthorized(c, tokenMessage(err))
			return
		}

		if claims.Kind == KindAdmin {
			admin, err := g.resolveAdmin(claims)
			if err != nil {
				abortUnauthorized(c, "Admin user not found.")
				return
			}
			c.Set(ctxAdminKey, admin)
			c.Set(ctxElevatedKey, true)
			c.Next()
			return
		}

		user, err := g.lookupUser(claims)
		if err != nil {
			abortUnauthorized(c, "User not found.")
			return
		}
		if user.Role != models.RoleWikiEditor && user.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: Wiki editor access required."})
			return
		}
		c.Set(ctxUserKey, user)
		c.Set(ctxElevatedKey, true)
		c.Next()
	}
}

func (g *Guard) resolveUser(token string) (*models.User, error) {
	claims, err := g.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return g.lookupUser(claims)
}

func (g *Guard) lookupUser(claims *Claims) (*models.User, error) {
	id, err := claims.SubjectID()
	if err != nil {
		return nil, err
	}
	user, err := g.Store.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if user.Status == models.StatusDeleted {
		return nil, ErrTokenInvalid
	}
	return user, nil
}

func (g *Guard) resolveAdmin(claims *Claims) (*models.Admin, error) {
	id, err := claims.SubjectID()
	if err != nil {
		return nil, err
	}
	return g.Store.GetAdminByID(id)
}

// CurrentUser returns the User principal set by a gate, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUserKey); ok {
		return v.(*models.User)
	}
	return nil
}

// CurrentAdmin returns the Admin principal set by a gate, or nil.
func CurrentAdmin(c *gin.Context) *models.Admin {
	if v, ok := c.Get(ctxAdminKey); ok {
		return v.(*models.Admin)
	}
	return nil
}

// IsElevated reports whether the wiki-editor gate marked this request as
// admin-level.
func IsElevated(c *gin.Context) bool {
	return c.GetBool(ctxElevatedKey)
}

// ElevatedRole returns the effective console role of the request principal:
// the Admin's role for admin tokens, the User's role otherwise.
func ElevatedRole(c *gin.Context) string {
	if a := CurrentAdmin(c); a != nil {
		return a.Role
	}
	if u := CurrentUser(c); u != nil {
		return u.Role
	}
	return ""
}
