// Package handler contains the gin HTTP handlers for the Jitutong API.
package handler

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"jitutong/backend/internal/audit"
	"jitutong/backend/internal/auth"
	"jitutong/backend/internal/config"
	"jitutong/backend/internal/moderation"
	"jitutong/backend/internal/notify"
	"jitutong/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Handler wires the services behind the HTTP surface.
type Handler struct {
	Store      storage.Storage
	Tokens     *auth.TokenService
	Moderation *moderation.Service
	Notify     notify.Emitter
	Audit      *audit.Logger
	Redis      *redis.Client
	Cfg        *config.Config
}

func NewHandler(store storage.Storage, tokens *auth.TokenService, mod *moderation.Service, auditor *audit.Logger, rdb *redis.Client, cfg *config.Config) *Handler {
	return &Handler{
		Store:      store,
		Tokens:     tokens,
		Moderation: mod,
		Audit:      auditor,
		Redis:      rdb,
		Cfg:        cfg,
	}
}

func respondMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, moderation.ErrNotFound):
		respondMessage(c, http.StatusNotFound, "Resource not found.")
	case isDuplicate(err):
		respondMessage(c, http.StatusConflict, "Resource already exists.")
	default:
		respondMessage(c, http.StatusInternalServerError, "Internal server error.")
	}
}

// isDuplicate recognizes unique-constraint violations from both GORM's
// translated error and the raw pq driver error.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondMessage(c, http.StatusBadRequest, "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

func paramInt(c *gin.Context, name string) (int, error) {
	return strconv.Atoi(c.Param(name))
}

// saveUpload stores one uploaded image under the configured upload dir and
// returns its public URL path. Extension whitelist and size cap are enforced
// before anything touches disk.
func (h *Handler) saveUpload(c *gin.Context, file *multipart.FileHeader, subdir string, maxSize int64) (string, int, error) {
	if file.Size > maxSize {
		return "", http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds %d bytes", maxSize)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	if !config.AllowedImageExts[ext] {
		return "", http.StatusUnsupportedMediaType, fmt.Errorf("extension %q not allowed", ext)
	}

	name := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	dst := filepath.Join(h.Cfg.UploadDir, subdir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", http.StatusInternalServerError, err
	}
	return "/" + filepath.ToSlash(filepath.Join(h.Cfg.UploadDir, subdir, name)), 0, nil
}

// removeUploadedFile deletes a previously uploaded file by its URL path.
// Best-effort: replacing an avatar must not fail because the old file is
// already gone.
func (h *Handler) removeUploadedFile(urlPath string) {
	if urlPath == "" || !strings.HasPrefix(urlPath, "/"+filepath.ToSlash(h.Cfg.UploadDir)) {
		return
	}
	if err := os.Remove(strings.TrimPrefix(urlPath, "/")); err != nil && !os.IsNotExist(err) {
		log.Printf("remove uploaded file %s: %v", urlPath, err)
	}
}
