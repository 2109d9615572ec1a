package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"jitutong/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPasswordHashesAndVerifies(t *testing.T) {
	user := models.User{Phone: "13800000001"}

	require.NoError(t, user.SetPassword("s3cret-pass"))
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, user.CheckPassword("s3cret-pass"))
	assert.False(t, user.CheckPassword("wrong"))
}

// Users and admins are embedded in many responses; their credential and ban
// fields must never marshal, whatever the endpoint.
func TestUserMarshalOmitsCredentials(t *testing.T) {
	reason := "harassment"
	until := time.Now().Add(time.Hour)
	user := models.User{
		ID:           1,
		Phone:        "13800000001",
		PasswordHash: "$2a$10$secret-hash",
		Nickname:     "小明",
		Status:       models.StatusBanned,
		BanReason:    &reason,
		BanUntil:     &until,
	}

	out, err := json.Marshal(&user)
	require.NoError(t, err)

	body := string(out)
	assert.NotContains(t, body, "13800000001")
	assert.NotContains(t, body, "secret-hash")
	assert.NotContains(t, body, "harassment")
	assert.Contains(t, body, `"nickname":"小明"`)
}

func TestAdminMarshalOmitsPasswordHash(t *testing.T) {
	admin := models.Admin{ID: 1, Username: "ops", PasswordHash: "$2a$10$secret-hash", Role: models.AdminRoleAdmin}

	out, err := json.Marshal(&admin)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret-hash")
	assert.Contains(t, string(out), `"username":"ops"`)
}

func TestIsElevatedRole(t *testing.T) {
	assert.True(t, models.IsElevatedRole(models.RoleAdmin))
	assert.True(t, models.IsElevatedRole(models.RoleWikiAdmin))
	assert.False(t, models.IsElevatedRole(models.RoleWikiEditor))
	assert.False(t, models.IsElevatedRole(models.RoleUser))
	assert.False(t, models.IsElevatedRole(""))
}
