package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"
	"unicode/utf8"

	"jitutong/backend/internal/auth"
	"jitutong/backend/internal/config"
	"jitutong/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type registerRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Nickname string `json:"nickname"`
}

type loginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":       u.ID,
		"phone":    u.Phone,
		"nickname": u.Nickname,
		"avatar":   u.AvatarURL,
		"bio":      u.Bio,
		"role":     u.Role,
		"status":   u.Status,
	}
}

// Register creates a user account keyed by phone number.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Phone and password are required.")
		return
	}

	if _, err := h.Store.GetUserByPhone(req.Phone); err == nil {
		respondMessage(c, http.StatusConflict, "Phone number already registered.")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, err)
		return
	}

	user := models.User{Phone: req.Phone, Nickname: req.Nickname}
	if user.Nickname == "" && len(req.Phone) >= 4 {
		user.Nickname = "用户" + req.Phone[len(req.Phone)-4:]
	}
	if err := user.SetPassword(req.Password); err != nil {
		respondError(c, err)
		return
	}
	if err := h.Store.CreateUser(&user); err != nil {
		respondError(c, err)
		return
	}

	h.Audit.Log(c, user.ID, models.ActionRegister, "new account")

	token, expiresIn, err := h.Tokens.IssueUser(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "expiresIn": expiresIn, "user": userJSON(&user)})
}

// Login authenticates by phone + password and returns a 30-day token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Phone and password are required.")
		return
	}

	user, err := h.Store.GetUserByPhone(req.Phone)
	if err != nil {
		respondMessage(c, http.StatusUnauthorized, "Invalid phone or password.")
		return
	}
	if !user.CheckPassword(req.Password) {
		h.Audit.Log(c, user.ID, models.ActionLoginFailed, "wrong password")
		respondMessage(c, http.StatusUnauthorized, "Invalid phone or password.")
		return
	}
	if banned, msg := banStatus(user); banned {
		respondMessage(c, http.StatusForbidden, msg)
		return
	}

	now := time.Now()
	user.LastLogin = &now
	if err := h.Store.SaveUser(user); err != nil {
		respondError(c, err)
		return
	}
	// Login log feeds analytics; its failure must not fail the login.
	if err := h.Store.CreateLoginLog(&models.UserLoginLog{UserID: user.ID, IPAddress: c.ClientIP()}); err != nil {
		log.Printf("login log for user %d failed: %v", user.ID, err)
	}
	h.Audit.Log(c, user.ID, models.ActionLogin, "")

	token, expiresIn, err := h.Tokens.IssueUser(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "expiresIn": expiresIn, "user": userJSON(user)})
}

func banStatus(user *models.User) (bool, string) {
	if user.Status != models.StatusBanned {
		return false, ""
	}
	if user.BanUntil != nil && user.BanUntil.Before(time.Now()) {
		return false, ""
	}
	msg := "Account is banned."
	if user.BanReason != nil && *user.BanReason != "" {
		msg = "Account is banned: " + *user.BanReason
	}
	return true, msg
}

// GetProfile returns the authenticated user.
func (h *Handler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, userJSON(auth.CurrentUser(c)))
}

// UpdateProfile changes nickname/bio and optionally replaces the avatar via
// multipart upload. The old avatar file is removed best-effort.
func (h *Handler) UpdateProfile(c *gin.Context) {
	user := auth.CurrentUser(c)

	if nickname := c.PostForm("nickname"); nickname != "" {
		n := utf8.RuneCountInString(nickname)
		if n < config.NicknameMinLen || n > config.NicknameMaxLen {
			respondMessage(c, http.StatusBadRequest,
				fmt.Sprintf("Nickname must be %d-%d characters.", config.NicknameMinLen, config.NicknameMaxLen))
			return
		}
		user.Nickname = nickname
	}
	if bio, ok := c.GetPostForm("bio"); ok {
		user.Bio = bio
	}

	if file, err := c.FormFile("avatar"); err == nil {
		url, status, err := h.saveUpload(c, file, "avatars", config.AvatarMaxSize)
		if err != nil {
			respondMessage(c, status, err.Error())
			return
		}
		h.removeUploadedFile(user.AvatarURL)
		user.AvatarURL = url
	}

	if err := h.Store.SaveUser(user); err != nil {
		respondError(c, err)
		return
	}
	h.Audit.Log(c, user.ID, models.ActionUpdateProfile, "")
	c.JSON(http.StatusOK, userJSON(user))
}

// ListFavorites returns the user's bookmarked buildings.
func (h *Handler) ListFavorites(c *gin.Context) {
	user := auth.CurrentUser(c)
	favs, err := h.Store.ListFavorites(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favs})
}

type favoriteRequest struct {
	BuildingID *int  `json:"buildingId" binding:"required"`
	WikiID     *uint `json:"wikiId"`
}

// AddFavorite bookmarks a building. The (user, building) unique constraint
// turns a duplicate into a 409.
func (h *Handler) AddFavorite(c *gin.Context) {
	user := auth.CurrentUser(c)
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "buildingId is required.")
		return
	}

	fav := models.Favorite{UserID: user.ID, BuildingID: req.BuildingID, WikiID: req.WikiID}
	if err := h.Store.CreateFavorite(&fav); err != nil {
		if isDuplicate(err) {
			respondMessage(c, http.StatusConflict, "Already in favorites.")
			return
		}
		respondError(c, err)
		return
	}
	h.Audit.Log(c, user.ID, models.ActionAddFavorite, fmt.Sprintf("building %d", *req.BuildingID))
	c.JSON(http.StatusCreated, gin.H{"favorite": fav})
}

// RemoveFavorite deletes the bookmark for a building.
func (h *Handler) RemoveFavorite(c *gin.Context) {
	user := auth.CurrentUser(c)
	buildingID, err := paramInt(c, "buildingId")
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid building id.")
		return
	}

	fav, err := h.Store.GetFavoriteByBuilding(user.ID, buildingID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Store.DeleteFavorite(fav); err != nil {
		respondError(c, err)
		return
	}
	h.Audit.Log(c, user.ID, models.ActionRemoveFavorite, fmt.Sprintf("building %d", buildingID))
	respondMessage(c, http.StatusOK, "Removed from favorites.")
}

// FavoriteStatus reports whether the building is bookmarked.
func (h *Handler) FavoriteStatus(c *gin.Context) {
	user := auth.CurrentUser(c)
	buildingID, err := paramInt(c, "buildingId")
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid building id.")
		return
	}

	_, err = h.Store.GetFavoriteByBuilding(user.ID, buildingID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": err == nil})
}

type historyRequest struct {
	BuildingID *int   `json:"buildingId"`
	WikiID     *uint  `json:"wikiId"`
	Name       string `json:"name" binding:"required"`
	ImageURL   string `json:"imageUrl"`
	Address    string `json:"address"`
}

// AddHistory upserts a browsing-history entry; revisiting bumps last_visited.
func (h *Handler) AddHistory(c *gin.Context) {
	user := auth.CurrentUser(c)
	var req historyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BuildingID == nil {
		respondMessage(c, http.StatusBadRequest, "buildingId and name are required.")
		return
	}

	existing, err := h.Store.GetHistoryByBuilding(user.ID, *req.BuildingID)
	switch {
	case err == nil:
		existing.Name = req.Name
		existing.ImageURL = req.ImageURL
		existing.Address = req.Address
		err = h.Store.SaveHistory(existing)
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = h.Store.CreateHistory(&models.History{
			UserID:     user.ID,
			BuildingID: req.BuildingID,
			WikiID:     req.WikiID,
			Name:       req.Name,
			ImageURL:   req.ImageURL,
			Address:    req.Address,
		})
	}
	if err != nil {
		respondError(c, err)
		return
	}
	h.Audit.Log(c, user.ID, models.ActionAddHistory, fmt.Sprintf("building %d", *req.BuildingID))
	respondMessage(c, http.StatusOK, "History recorded.")
}

// ListHistory returns the 50 most recently visited entries.
func (h *Handler) ListHistory(c *gin.Context) {
	user := auth.CurrentUser(c)
	items, err := h.Store.ListHistory(user.ID, 50)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": items})
}

// ClearHistory wipes the user's browsing history.
func (h *Handler) ClearHistory(c *gin.Context) {
	user := auth.CurrentUser(c)
	if err := h.Store.ClearHistory(user.ID); err != nil {
		respondError(c, err)
		return
	}
	h.Audit.Log(c, user.ID, models.ActionClearHistory, "")
	respondMessage(c, http.StatusOK, "History cleared.")
}

// ListMessages returns the inbox, optionally filtered by type or unread.
func (h *Handler) ListMessages(c *gin.Context) {
	user := auth.CurrentUser(c)
	msgs, err := h.Store.ListMessages(user.ID, c.Query("type"), c.Query("unread") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// UnreadMessageCount returns the unread badge number.
func (h *Handler) UnreadMessageCount(c *gin.Context) {
	user := auth.CurrentUser(c)
	n, err := h.Store.CountUnreadMessages(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// MarkMessageRead marks one of the user's messages read.
func (h *Handler) MarkMessageRead(c *gin.Context) {
	user := auth.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	msg, err := h.Store.GetMessage(user.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	msg.IsRead = true
	if err := h.Store.SaveMessage(msg); err != nil {
		respondError(c, err)
		return
	}
	h.Audit.Log(c, user.ID, models.ActionMarkMessageRead, fmt.Sprintf("message %d", id))
	respondMessage(c, http.StatusOK, "Message marked as read.")
}

// MarkAllMessagesRead marks the whole inbox read.
func (h *Handler) MarkAllMessagesRead(c *gin.Context) {
	user := auth.CurrentUser(c)
	n, err := h.Store.MarkAllMessagesRead(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.Audit.Log(c, user.ID, models.ActionMarkAllRead, "")
	c.JSON(http.StatusOK, gin.H{"message": "All messages marked as read.", "updated": n})
}

// DeleteMessage removes one of the user's messages.
func (h *Handler) DeleteMessage(c *gin.Context) {
	user := auth.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	msg, err := h.Store.GetMessage(user.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Store.DeleteMessage(msg); err != nil {
		respondError(c, err)
		return
	}
	h.Audit.Log(c, user.ID, models.ActionDeleteMessage, fmt.Sprintf("message %d", id))
	respondMessage(c, http.StatusOK, "Message deleted.")
}

// ClearMessages empties the inbox.
func (h *Handler) ClearMessages(c *gin.Context) {
	user := auth.CurrentUser(c)
	n, err := h.Store.ClearMessages(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.Audit.Log(c, user.ID, models.ActionClearMessages, "")
	c.JSON(http.StatusOK, gin.H{"message": "All messages cleared.", "deleted": n})
}

// MyComments merges the user's reviews and replies into one reverse-
// chronological feed with manual pagination.
func (h *Handler) MyComments(c *gin.Context) {
	user := auth.CurrentUser(c)
	page, pageSize := pageParams(c)

	reviews, err := h.Store.ListUserReviews(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	replies, err := h.Store.ListUserReplies(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	type entry struct {
		createdAt time.Time
		item      gin.H
	}
	entries := make([]entry, 0, len(reviews)+len(replies))
	for i := range reviews {
		r := &reviews[i]
		locationName := ""
		if r.Location != nil {
			locationName = r.Location.Name
		}
		entries = append(entries, entry{createdAt: r.CreatedAt, item: gin.H{
			"id":             r.ID,
			"locationId":     r.LocationID,
			"locationName":   locationName,
			"rating":         r.Rating,
			"comment":        r.Comment,
			"createdAt":      r.CreatedAt,
			"parentId":       nil,
			"parentUserName": nil,
			"parentComment":  nil,
		}})
	}
	for i := range replies {
		rp := &replies[i]
		item := gin.H{
			"id":             rp.ID,
			"locationId":     nil,
			"locationName":   "",
			"rating":         nil,
			"comment":        rp.Content,
			"createdAt":      rp.CreatedAt,
			"parentId":       rp.ReviewID,
			"parentUserName": nil,
			"parentComment":  nil,
		}
		if parent := rp.Review; parent != nil {
			item["locationId"] = parent.LocationID
			item["parentComment"] = parent.Comment
			if parent.Author != nil {
				item["parentUserName"] = parent.Author.Nickname
			}
			if parent.Location != nil {
				item["locationName"] = parent.Location.Name
			}
		}
		entries = append(entries, entry{createdAt: rp.CreatedAt, item: item})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].createdAt.After(entries[j].createdAt) })

	total := len(entries)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	items := make([]gin.H, 0, end-start)
	for _, e := range entries[start:end] {
		items = append(items, e.item)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
		"pages":    (total + pageSize - 1) / pageSize,
	})
}
