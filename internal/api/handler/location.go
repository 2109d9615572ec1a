package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"unicode/utf8"

	"jitutong/backend/internal/auth"
	"jitutong/backend/internal/config"
	"jitutong/backend/internal/models"
	"jitutong/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type wikiLocationRequest struct {
	BuildingID     *int              `json:"buildingId"`
	Name           string            `json:"name" binding:"required"`
	Address        string            `json:"address"`
	MainImage      string            `json:"mainImage"`
	RichContent    string            `json:"richContent"`
	StructuredInfo datatypes.JSONMap `json:"structuredInfo"`
	Description    string            `json:"description"`
	Status         string            `json:"status"`
	Longitude      *float64          `json:"longitude"`
	Latitude       *float64          `json:"latitude"`
	Category       string            `json:"category"`
	Tags           []string          `json:"tags"`
}

func validCoords(lat, lng *float64) bool {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return false
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		return false
	}
	return true
}

// CreateWikiLocation creates a wiki page. Wiki-editor gate.
func (h *Handler) CreateWikiLocation(c *gin.Context) {
	var req wikiLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Name is required.")
		return
	}
	if !validCoords(req.Latitude, req.Longitude) {
		respondMessage(c, http.StatusBadRequest, "Coordinates are out of range.")
		return
	}

	loc := models.Location{
		BuildingID:     req.BuildingID,
		Name:           req.Name,
		Address:        req.Address,
		MainImage:      req.MainImage,
		RichContent:    req.RichContent,
		StructuredInfo: req.StructuredInfo,
		Description:    req.Description,
		Status:         req.Status,
		Longitude:      req.Longitude,
		Latitude:       req.Latitude,
	}
	if loc.Status == "" {
		loc.Status = models.LocationPublished
	}

	err := h.Store.WithTx(func(tx storage.Storage) error {
		if err := h.attachCategoryAndTags(tx, &loc, req.Category, req.Tags, false); err != nil {
			return err
		}
		return tx.CreateLocation(&loc)
	})
	if err != nil {
		if isDuplicate(err) {
			respondMessage(c, http.StatusConflict, "A location with this building id already exists.")
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"location": loc})
}

// GetWikiLocation returns a wiki page with its rating aggregate and popular
// review tags. Optional auth; a signed-in view lands in browsing history.
func (h *Handler) GetWikiLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	loc, err := h.Store.GetLocationByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	avg, count, err := h.Store.LocationRatingStats(id)
	if err != nil {
		respondError(c, err)
		return
	}
	tags, err := h.Store.PopularReviewTags(id, 10)
	if err != nil {
		respondError(c, err)
		return
	}

	// View logging is analytics-only and never fails the read.
	user := auth.CurrentUser(c)
	view := models.LocationView{LocationID: id}
	if user != nil {
		view.UserID = &user.ID
	}
	if err := h.Store.CreateLocationView(&view); err != nil {
		log.Printf("location view log for %d failed: %v", id, err)
	}
	if user != nil && loc.BuildingID != nil {
		h.recordHistoryVisit(user.ID, loc)
	}

	c.JSON(http.StatusOK, gin.H{
		"location":     loc,
		"avgRating":    avg,
		"reviewCount":  count,
		"popularTags":  tags,
		"categoryPath": categoryPath(loc.Category),
	})
}

func categoryPath(cat *models.Category) []string {
	var path []string
	for cat != nil {
		path = append([]string{cat.Name}, path...)
		cat = cat.Parent
	}
	return path
}

func (h *Handler) recordHistoryVisit(userID uint, loc *models.Location) {
	existing, err := h.Store.GetHistoryByBuilding(userID, *loc.BuildingID)
	switch {
	case err == nil:
		existing.Name = loc.Name
		existing.ImageURL = loc.MainImage
		existing.Address = loc.Address
		err = h.Store.SaveHistory(existing)
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = h.Store.CreateHistory(&models.History{
			UserID:     userID,
			BuildingID: loc.BuildingID,
			WikiID:     &loc.ID,
			Name:       loc.Name,
			ImageURL:   loc.MainImage,
			Address:    loc.Address,
		})
	}
	if err != nil {
		log.Printf("history visit for user %d failed: %v", userID, err)
	}
}

// UpdateWikiLocation edits a wiki page. Wiki-editor gate; name stays
// mandatory and coordinates stay in range.
func (h *Handler) UpdateWikiLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req wikiLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Name is required.")
		return
	}
	if !validCoords(req.Latitude, req.Longitude) {
		respondMessage(c, http.StatusBadRequest, "Coordinates are out of range.")
		return
	}

	err := h.Store.WithTx(func(tx storage.Storage) error {
		loc, err := tx.GetLocationByID(id)
		if err != nil {
			return err
		}
		loc.Name = req.Name
		loc.Address = req.Address
		loc.MainImage = req.MainImage
		loc.RichContent = req.RichContent
		loc.Description = req.Description
		if req.StructuredInfo != nil {
			loc.StructuredInfo = req.StructuredInfo
		}
		if req.Status != "" {
			loc.Status = req.Status
		}
		loc.Longitude = req.Longitude
		loc.Latitude = req.Latitude
		if err := h.attachCategoryAndTags(tx, loc, req.Category, req.Tags, true); err != nil {
			return err
		}
		return tx.SaveLocation(loc)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Location updated.")
}

func (h *Handler) attachCategoryAndTags(tx storage.Storage, loc *models.Location, category string, tagNames []string, replace bool) error {
	if category != "" {
		cat, err := tx.GetOrCreateCategory(category)
		if err != nil {
			return err
		}
		loc.CategoryID = &cat.ID
	}
	if tagNames == nil {
		return nil
	}
	tags := make([]models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := tx.GetOrCreateTag(name)
		if err != nil {
			return err
		}
		tags = append(tags, *tag)
	}
	if replace && loc.ID != 0 {
		return tx.ReplaceLocationTags(loc, tags)
	}
	loc.Tags = tags
	return nil
}

// ListWikiLocations lists wiki pages, filterable by keyword and tag.
func (h *Handler) ListWikiLocations(c *gin.Context) {
	locs, err := h.Store.ListWikiLocations(c.Query("keyword"), c.Query("tag"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locs})
}

// MapBuildings returns the published, geocoded locations for map rendering.
func (h *Handler) MapBuildings(c *gin.Context) {
	locs, err := h.Store.ListMapLocations()
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(locs))
	for i := range locs {
		loc := &locs[i]
		entry := gin.H{
			"id":         loc.ID,
			"buildingId": loc.BuildingID,
			"name":       loc.Name,
			"address":    loc.Address,
			"mainImage":  loc.MainImage,
			"longitude":  loc.Longitude,
			"latitude":   loc.Latitude,
		}
		if loc.Category != nil {
			entry["category"] = loc.Category.Name
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"buildings": out})
}

type suggestionRequest struct {
	Content    string `json:"content" binding:"required"`
	Type       string `json:"type"`
	Reason     string `json:"reason"`
	LocationID *uint  `json:"locationId"`
}

// SubmitSuggestion files a wiki edit suggestion. Anonymous callers are
// allowed; their suggestions simply carry no author.
func (h *Handler) SubmitSuggestion(c *gin.Context) {
	var req suggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Content is required.")
		return
	}
	if utf8.RuneCountInString(req.Content) < config.SuggestionMinLen {
		respondMessage(c, http.StatusBadRequest,
			fmt.Sprintf("Suggestions need at least %d characters.", config.SuggestionMinLen))
		return
	}
	if req.Type == "" {
		req.Type = models.SuggestionGeneral
	}
	if req.Type != models.SuggestionGeneral && req.Type != models.SuggestionLocation {
		respondMessage(c, http.StatusBadRequest, "Type must be general or location.")
		return
	}
	if req.Type == models.SuggestionLocation {
		if req.LocationID == nil {
			respondMessage(c, http.StatusBadRequest, "locationId is required for location suggestions.")
			return
		}
		if _, err := h.Store.GetLocationByID(*req.LocationID); err != nil {
			respondError(c, err)
			return
		}
	}

	sg := models.WikiSuggestion{
		Content:    req.Content,
		Type:       req.Type,
		Reason:     req.Reason,
		LocationID: req.LocationID,
	}
	if user := auth.CurrentUser(c); user != nil {
		sg.UserID = &user.ID
	}
	if err := h.Store.CreateSuggestion(&sg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"suggestion": sg, "message": "Suggestion submitted for review."})
}
