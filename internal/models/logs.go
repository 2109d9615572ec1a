package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit action tags recorded in user_logs.
const (
	ActionRegister        = "REGISTER"
	ActionLogin           = "LOGIN"
	ActionLoginFailed     = "LOGIN_FAILED"
	ActionUpdateProfile   = "UPDATE_PROFILE"
	ActionAddFavorite     = "ADD_FAVORITE"
	ActionRemoveFavorite  = "REMOVE_FAVORITE"
	ActionAddHistory      = "ADD_HISTORY"
	ActionClearHistory    = "CLEAR_HISTORY"
	ActionSubmitReview    = "SUBMIT_REVIEW"
	ActionReportReview    = "REPORT_REVIEW"
	ActionReportReply     = "REPORT_REVIEW_REPLY"
	ActionAddReply        = "ADD_REVIEW_REPLY"
	ActionToggleLike      = "TOGGLE_LIKE_REVIEW"
	ActionMarkMessageRead = "MARK_MESSAGE_READ"
	ActionMarkAllRead     = "MARK_ALL_MESSAGES_READ"
	ActionDeleteMessage   = "DELETE_MESSAGE"
	ActionClearMessages   = "CLEAR_ALL_MESSAGES"
)

// UserLog is one audit record for a security-relevant user action.
// Writing it is best-effort and must never abort the primary operation.
type UserLog struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"not null;index"`
	User      *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Action    string `gorm:"size:50;not null;index"`
	Detail    string `gorm:"type:text"`
	IP        string `gorm:"size:45"`
	UserAgent string `gorm:"type:text"`
	Timestamp time.Time `gorm:"index;autoCreateTime"`
}

// UserLoginLog feeds the active-user analytics.
type UserLoginLog struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;index"`
	User      *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	LoginTime time.Time `gorm:"index;autoCreateTime"`
	IPAddress string    `gorm:"size:45"`
}

// SearchLog records one search keyword, optionally attributed to a user.
type SearchLog struct {
	ID        uint `gorm:"primaryKey"`
	UserID    *uint
	User      *User  `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Keyword   string `gorm:"size:255;not null;index"`
	CreatedAt time.Time
}

// SystemSetting is a key/value pair of backend console configuration.
type SystemSetting struct {
	Key   string         `gorm:"primaryKey;size:50"`
	Value datatypes.JSON `gorm:"not null"`
}
