package handler

import (
	"errors"
	"net/http"
	"time"

	"jitutong/backend/internal/auth"
	"jitutong/backend/internal/config"
	"jitutong/backend/internal/models"
	"jitutong/backend/internal/moderation"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type adminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin authenticates a console account and returns a 1-day token.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Username and password are required.")
		return
	}

	admin, err := h.Store.GetAdminByUsername(req.Username)
	if err != nil || !admin.CheckPassword(req.Password) {
		respondMessage(c, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	now := time.Now()
	admin.LastLogin = &now
	if err := h.Store.SaveAdmin(admin); err != nil {
		respondError(c, err)
		return
	}

	token, expiresIn, err := h.Tokens.IssueAdmin(admin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": expiresIn,
		"user":      gin.H{"id": admin.ID, "username": admin.Username, "role": admin.Role},
	})
}

// AdminInfo returns the console account, joined with the mirrored user's
// nickname and avatar when one exists.
func (h *Handler) AdminInfo(c *gin.Context) {
	admin := auth.CurrentAdmin(c)
	info := gin.H{"id": admin.ID, "username": admin.Username, "role": admin.Role, "lastLogin": admin.LastLogin}

	if user, err := h.Store.GetUserByPhone(admin.Username); err == nil {
		info["nickname"] = user.Nickname
		info["avatar"] = user.AvatarURL
	}
	c.JSON(http.StatusOK, info)
}

// AdminStats returns the dashboard headline numbers.
func (h *Handler) AdminStats(c *gin.Context) {
	users, err := h.Store.CountUsers()
	if err != nil {
		respondError(c, err)
		return
	}
	locations, err := h.Store.CountLocations()
	if err != nil {
		respondError(c, err)
		return
	}
	pendingReviews, err := h.Store.CountReviewsByStatus(models.ModerationPending)
	if err != nil {
		respondError(c, err)
		return
	}
	pendingSuggestions, err := h.Store.CountSuggestionsByStatus(models.ModerationPending)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":              users,
		"locations":          locations,
		"pendingReviews":     pendingReviews,
		"pendingSuggestions": pendingSuggestions,
	})
}

// AdminListUsers searches accounts by nickname or phone.
func (h *Handler) AdminListUsers(c *gin.Context) {
	page, pageSize := pageParams(c)
	users, total, err := h.Store.ListUsers(c.Query("query"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(users))
	for i := range users {
		u := &users[i]
		entry := userJSON(u)
		entry["banReason"] = u.BanReason
		entry["banUntil"] = u.BanUntil
		entry["lastLogin"] = u.LastLogin
		entry["createdAt"] = u.CreatedAt
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"users": out, "total": total, "page": page})
}

type banRequest struct {
	Reason string     `json:"reason" binding:"required"`
	Until  *time.Time `json:"until"`
}

// AdminBanUser bans an account, indefinitely unless until is given.
func (h *Handler) AdminBanUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req banRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Reason is required.")
		return
	}

	user, err := h.Store.GetUserByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	user.Status = models.StatusBanned
	user.BanReason = &req.Reason
	user.BanUntil = req.Until
	if err := h.Store.SaveUser(user); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "User banned.")
}

// AdminUnbanUser restores a banned account.
func (h *Handler) AdminUnbanUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := h.Store.GetUserByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	user.Status = models.StatusActive
	user.BanReason = nil
	user.BanUntil = nil
	if err := h.Store.SaveUser(user); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "User unbanned.")
}

// AdminDeleteUser soft-deletes by default; ?hard=true removes the row and
// everything cascading from it.
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := h.Store.GetUserByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("hard") == "true" {
		if err := h.Store.DeleteUser(user); err != nil {
			respondError(c, err)
			return
		}
		respondMessage(c, http.StatusOK, "User permanently deleted.")
		return
	}

	user.Status = models.StatusDeleted
	if err := h.Store.SaveUser(user); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "User deleted.")
}

type adminUpdateUserRequest struct {
	Nickname *string `json:"nickname"`
	Bio      *string `json:"bio"`
	Password *string `json:"password"`
}

// AdminUpdateUser edits account fields from the console.
func (h *Handler) AdminUpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req adminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.Store.GetUserByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Nickname != nil {
		user.Nickname = *req.Nickname
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			respondError(c, err)
			return
		}
	}
	if err := h.Store.SaveUser(user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userJSON(user))
}

type permissionRequest struct {
	ID   uint   `json:"id" binding:"required"`
	Role string `json:"role" binding:"required"`
}

// AdminUpdatePermission changes a user's role, syncing the Admin mirror row
// in the same transaction.
func (h *Handler) AdminUpdatePermission(c *gin.Context) {
	var req permissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "id and role are required.")
		return
	}
	switch req.Role {
	case models.RoleUser, models.RoleWikiEditor, models.RoleWikiAdmin, models.RoleAdmin:
	default:
		respondMessage(c, http.StatusBadRequest, "Unknown role.")
		return
	}

	if err := h.Moderation.UpdatePermission(req.ID, req.Role); err != nil {
		if errors.Is(err, moderation.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "User not found.")
			return
		}
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Permission updated.")
}

// AdminUserLogs returns one account's audit trail.
func (h *Handler) AdminUserLogs(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, pageSize := pageParams(c)

	logs, total, err := h.Store.ListUserLogs(id, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "total": total, "page": page})
}

// AdminUploadAvatar uploads an avatar on behalf of a user. Full admins only,
// with the larger console size cap.
func (h *Handler) AdminUploadAvatar(c *gin.Context) {
	admin := auth.CurrentAdmin(c)
	if admin.Role != models.AdminRoleAdmin {
		respondMessage(c, http.StatusForbidden, "Forbidden: Admin role required.")
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "avatar file is required.")
		return
	}

	user, err := h.Store.GetUserByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	url, status, err := h.saveUpload(c, file, "avatars", config.AdminAvatarMaxSize)
	if err != nil {
		respondMessage(c, status, err.Error())
		return
	}
	h.removeUploadedFile(user.AvatarURL)
	user.AvatarURL = url
	if err := h.Store.SaveUser(user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": url})
}

// AdminGetSettings returns the console settings key/value pairs.
func (h *Handler) AdminGetSettings(c *gin.Context) {
	settings, err := h.Store.ListSystemSettings()
	if err != nil {
		respondError(c, err)
		return
	}
	out := gin.H{}
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	c.JSON(http.StatusOK, gin.H{"settings": out})
}

// AdminPutSettings upserts console settings from a flat JSON object.
func (h *Handler) AdminPutSettings(c *gin.Context) {
	var body map[string]datatypes.JSON
	if err := c.ShouldBindJSON(&body); err != nil || len(body) == 0 {
		respondMessage(c, http.StatusBadRequest, "A non-empty settings object is required.")
		return
	}
	for key, value := range body {
		if err := h.Store.UpsertSystemSetting(key, value); err != nil {
			respondError(c, err)
			return
		}
	}
	respondMessage(c, http.StatusOK, "Settings saved.")
}
