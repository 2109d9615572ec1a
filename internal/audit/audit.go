// Package audit writes best-effort user action logs. A failed write is
// reported to the operator console and swallowed: auditing never aborts the
// action it describes.
package audit

import (
	"log"

	"jitutong/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Store is the slice of persistence the logger needs.
type Store interface {
	CreateUserLog(l *models.UserLog) error
}

// Logger records security-relevant user actions.
type Logger struct {
	Store Store
}

func NewLogger(store Store) *Logger {
	return &Logger{Store: store}
}

// Log records one action with the request's client metadata.
func (l *Logger) Log(c *gin.Context, userID uint, action, detail string) {
	entry := &models.UserLog{
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if err := l.Store.CreateUserLog(entry); err != nil {
		log.Printf("audit: failed to record %s for user %d: %v", action, userID, err)
	}
}
