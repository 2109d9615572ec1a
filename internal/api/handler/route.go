package handler

import (
	"errors"
	"net/http"

	"jitutong/backend/internal/auth"
	"jitutong/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type favoriteRouteRequest struct {
	Name          string `json:"name"`
	StartID       *int   `json:"startId"`
	EndID         *int   `json:"endId"`
	StartName     string `json:"startName" binding:"required"`
	EndName       string `json:"endName" binding:"required"`
	StartPosition string `json:"startPosition"`
	EndPosition   string `json:"endPosition"`
	Distance      string `json:"distance" binding:"required"`
	WalkTime      string `json:"walkTime" binding:"required"`
	BikeTime      string `json:"bikeTime" binding:"required"`
}

// SaveRoute stores a navigation route. Saving the same endpoints twice
// returns the existing row instead of duplicating it.
func (h *Handler) SaveRoute(c *gin.Context) {
	user := auth.CurrentUser(c)
	var req favoriteRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Route endpoints and times are required.")
		return
	}

	route := models.FavoriteRoute{
		UserID:        user.ID,
		Name:          req.Name,
		StartID:       req.StartID,
		EndID:         req.EndID,
		StartName:     req.StartName,
		EndName:       req.EndName,
		StartPosition: req.StartPosition,
		EndPosition:   req.EndPosition,
		Distance:      req.Distance,
		WalkTime:      req.WalkTime,
		BikeTime:      req.BikeTime,
	}

	existing, err := h.Store.FindFavoriteRoute(&route)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"route": existing, "created": false})
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, err)
		return
	}

	if err := h.Store.CreateFavoriteRoute(&route); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"route": route, "created": true})
}

// ListRoutes returns the user's saved routes, newest first.
func (h *Handler) ListRoutes(c *gin.Context) {
	user := auth.CurrentUser(c)
	page, pageSize := pageParams(c)

	routes, total, err := h.Store.ListFavoriteRoutes(user.ID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes, "total": total, "page": page})
}

type renameRouteRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameRoute updates a saved route's display name.
func (h *Handler) RenameRoute(c *gin.Context) {
	user := auth.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req renameRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Name is required.")
		return
	}

	route, err := h.Store.GetFavoriteRoute(user.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	route.Name = req.Name
	if err := h.Store.SaveFavoriteRoute(route); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": route})
}

// DeleteRoute removes a saved route.
func (h *Handler) DeleteRoute(c *gin.Context) {
	user := auth.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	route, err := h.Store.GetFavoriteRoute(user.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Store.DeleteFavoriteRoute(route); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Route deleted.")
}
