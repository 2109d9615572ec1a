package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"jitutong/backend/internal/auth"
	"jitutong/backend/internal/config"
	"jitutong/backend/internal/models"

	"github.com/gin-gonic/gin"
)

const hotKeywordsCacheKey = "search:hot_keywords"

// Search finds locations by name or address and records the keyword for the
// hot-search ranking.
func (h *Handler) Search(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		respondMessage(c, http.StatusBadRequest, "keyword is required.")
		return
	}

	locs, err := h.Store.SearchLocations(keyword, 20)
	if err != nil {
		respondError(c, err)
		return
	}

	entry := models.SearchLog{Keyword: keyword}
	if user := auth.CurrentUser(c); user != nil {
		entry.UserID = &user.ID
	}
	if err := h.Store.CreateSearchLog(&entry); err != nil {
		log.Printf("search log for %q failed: %v", keyword, err)
	}

	c.JSON(http.StatusOK, gin.H{"results": locs, "total": len(locs)})
}

// HotKeywords returns the most searched keywords of the past week, cached in
// Redis for a few minutes. Falls back to a default list when the log is
// empty or Redis is unavailable.
func (h *Handler) HotKeywords(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := h.Redis.Get(ctx, hotKeywordsCacheKey).Result(); err == nil {
		var keywords []string
		if json.Unmarshal([]byte(cached), &keywords) == nil {
			c.JSON(http.StatusOK, gin.H{"keywords": keywords, "cached": true})
			return
		}
	}

	since := time.Now().Add(-config.HotSearchWindow)
	stats, err := h.Store.SearchKeywordStats(since, config.HotSearchLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	keywords := make([]string, 0, len(stats))
	for _, s := range stats {
		keywords = append(keywords, s.Keyword)
	}
	if len(keywords) == 0 {
		keywords = config.DefaultHotKeywords
	}

	h.cacheHotKeywords(ctx, keywords)
	c.JSON(http.StatusOK, gin.H{"keywords": keywords, "cached": false})
}

func (h *Handler) cacheHotKeywords(ctx context.Context, keywords []string) {
	payload, err := json.Marshal(keywords)
	if err != nil {
		return
	}
	if err := h.Redis.Set(ctx, hotKeywordsCacheKey, payload, config.HotSearchCacheTTL).Err(); err != nil {
		log.Printf("hot keyword cache write failed: %v", err)
	}
}
