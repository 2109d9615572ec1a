package handler

import (
	"net/http"
	"strconv"
	"time"

	"jitutong/backend/internal/config"
	"jitutong/backend/internal/models"

	"github.com/gin-gonic/gin"
)

func daysParam(c *gin.Context, fallback int) time.Time {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(fallback)))
	if err != nil || days < 1 || days > 365 {
		days = fallback
	}
	return time.Now().AddDate(0, 0, -days)
}

// AnalyticsOverview returns the console dashboard aggregate numbers.
func (h *Handler) AnalyticsOverview(c *gin.Context) {
	users, err := h.Store.CountUsers()
	if err != nil {
		respondError(c, err)
		return
	}
	banned, err := h.Store.CountUsersByStatus(models.StatusBanned)
	if err != nil {
		respondError(c, err)
		return
	}
	locations, err := h.Store.CountLocations()
	if err != nil {
		respondError(c, err)
		return
	}
	activeToday, err := h.Store.ActiveUserCount(time.Now().Truncate(24 * time.Hour))
	if err != nil {
		respondError(c, err)
		return
	}
	activeWeek, err := h.Store.ActiveUserCount(time.Now().AddDate(0, 0, -7))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalUsers":      users,
		"bannedUsers":     banned,
		"totalLocations":  locations,
		"activeToday":     activeToday,
		"activeThisWeek":  activeWeek,
	})
}

// AnalyticsUserActivity returns daily and hourly active-user curves.
func (h *Handler) AnalyticsUserActivity(c *gin.Context) {
	since := daysParam(c, 30)

	daily, err := h.Store.DailyActiveUsers(since)
	if err != nil {
		respondError(c, err)
		return
	}
	hourly, err := h.Store.HourlyActiveUsers(since)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily": daily, "hourly": hourly})
}

// AnalyticsTopLocations returns the rating leaderboard plus view hotspots.
func (h *Handler) AnalyticsTopLocations(c *gin.Context) {
	top, err := h.Store.TopRatedLocations(10)
	if err != nil {
		respondError(c, err)
		return
	}
	hotspots, err := h.Store.HotspotLocations(10)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topRated": top, "hotspots": hotspots})
}

// AnalyticsReviewTrends returns review submissions per day.
func (h *Handler) AnalyticsReviewTrends(c *gin.Context) {
	trends, err := h.Store.ReviewTrends(daysParam(c, 30))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": trends})
}

// AnalyticsSearchTrends returns keyword frequency over the window.
func (h *Handler) AnalyticsSearchTrends(c *gin.Context) {
	stats, err := h.Store.SearchKeywordStats(daysParam(c, 7), config.HotSearchLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keywords": stats})
}
