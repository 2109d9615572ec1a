package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"jitutong/backend/internal/auth"
	"jitutong/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeStore resolves principals from in-memory maps.
type fakeStore struct {
	users  map[uint]*models.User
	admins map[uint]*models.Admin
}

func (f *fakeStore) GetUserByID(id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) GetAdminByID(id uint) (*models.Admin, error) {
	if a, ok := f.admins[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type guardFixture struct {
	tokens *auth.TokenService
	guard  *auth.Guard
	store  *fakeStore
}

func newGuardFixture() *guardFixture {
	store := &fakeStore{
		users:  map[uint]*models.User{},
		admins: map[uint]*models.Admin{},
	}
	tokens := auth.NewTokenService("gate-test-secret")
	return &guardFixture{tokens: tokens, guard: auth.NewGuard(tokens, store), store: store}
}

func runGate(gate gin.HandlerFunc, token string, onPass gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if onPass == nil {
		onPass = func(c *gin.Context) { c.Status(http.StatusOK) }
	}
	r.GET("/probe", gate, onPass)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOptionalUserAllowsAnonymous(t *testing.T) {
	fx := newGuardFixture()

	w := runGate(fx.guard.OptionalUser(), "", func(c *gin.Context) {
		assert.Nil(t, auth.CurrentUser(c))
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalUserRejectsInvalidToken(t *testing.T) {
	fx := newGuardFixture()

	w := runGate(fx.guard.OptionalUser(), "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUserMissingToken(t *testing.T) {
	fx := newGuardFixture()

	w := runGate(fx.guard.RequireUser(), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUserResolvesPrincipal(t *testing.T) {
	fx := newGuardFixture()
	fx.store.users[5] = &models.User{ID: 5, Phone: "13800000005", Status: models.StatusActive}
	token, _, err := fx.tokens.IssueUser(5)
	require.NoError(t, err)

	w := runGate(fx.guard.RequireUser(), token, func(c *gin.Context) {
		user := auth.CurrentUser(c)
		require.NotNil(t, user)
		assert.Equal(t, uint(5), user.ID)
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireUserRejectsDeletedUser(t *testing.T) {
	fx := newGuardFixture()
	fx.store.users[6] = &models.User{ID: 6, Status: models.StatusDeleted}
	token, _, err := fx.tokens.IssueUser(6)
	require.NoError(t, err)

	w := runGate(fx.guard.RequireUser(), token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// A valid user token presented at the admin gate is a Forbidden, not an
// Unauthorized: the type tag is authoritative.
func TestRequireAdminRejectsUserToken(t *testing.T) {
	fx := newGuardFixture()
	fx.store.users[5] = &models.User{ID: 5, Role: models.RoleAdmin, Status: models.StatusActive}
	token, _, err := fx.tokens.IssueUser(5)
	require.NoError(t, err)

	w := runGate(fx.guard.RequireAdmin(), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminResolvesAdmin(t *testing.T) {
	fx := newGuardFixture()
	fx.store.admins[3] = &models.Admin{ID: 3, Username: "ops", Role: models.AdminRoleAdmin}
	token, _, err := fx.tokens.IssueAdmin(fx.store.admins[3])
	require.NoError(t, err)

	w := runGate(fx.guard.RequireAdmin(), token, func(c *gin.Context) {
		admin := auth.CurrentAdmin(c)
		require.NotNil(t, admin)
		assert.Equal(t, "ops", admin.Username)
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdminMissingRow(t *testing.T) {
	fx := newGuardFixture()
	ghost := &models.Admin{ID: 99, Role: models.AdminRoleAdmin}
	token, _, err := fx.tokens.IssueAdmin(ghost)
	require.NoError(t, err)

	w := runGate(fx.guard.RequireAdmin(), token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireWikiEditorAdminTokenPasses(t *testing.T) {
	fx := newGuardFixture()
	fx.store.admins[3] = &models.Admin{ID: 3, Username: "ops", Role: models.AdminRoleEditor}
	token, _, err := fx.tokens.IssueAdmin(fx.store.admins[3])
	require.NoError(t, err)

	w := runGate(fx.guard.RequireWikiEditor(), token, func(c *gin.Context) {
		assert.True(t, auth.IsElevated(c))
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireWikiEditorUserRoles(t *testing.T) {
	cases := []struct {
		name     string
		role     string
		wantCode int
	}{
		{"wiki editor passes", models.RoleWikiEditor, http.StatusOK},
		{"admin role passes", models.RoleAdmin, http.StatusOK},
		{"plain user forbidden", models.RoleUser, http.StatusForbidden},
		{"wiki admin forbidden without console token", models.RoleWikiAdmin, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newGuardFixture()
			fx.store.users[8] = &models.User{ID: 8, Role: tc.role, Status: models.StatusActive}
			token, _, err := fx.tokens.IssueUser(8)
			require.NoError(t, err)

			w := runGate(fx.guard.RequireWikiEditor(), token, nil)
			assert.Equal(t, tc.wantCode, w.Code)
		})
	}
}
