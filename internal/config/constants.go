package config

import "time"

const (
	// Token lifetimes. User sessions are long-lived; console sessions are
	// forced to re-authenticate daily. There is no refresh mechanism.
	UserTokenTTL  = 30 * 24 * time.Hour
	AdminTokenTTL = 24 * time.Hour

	TokenIssuer = "jitutong-api"

	// Notification snapshot length, in runes. The triggering review text is
	// truncated to this length when a message is emitted and never updated
	// afterwards.
	SnapshotMaxLen = 100

	// Content limits.
	ReplyMaxLen         = 500
	ReportReasonMaxLen  = 255
	SuggestionMinLen    = 10
	TagNameMaxLen       = 10
	NicknameMinLen      = 2
	NicknameMaxLen      = 16

	// Upload limits, per subfolder.
	AvatarMaxSize      = 2 * 1024 * 1024
	ReviewImageMaxSize = 5 * 1024 * 1024
	AdminAvatarMaxSize = 5 * 1024 * 1024

	// Search analytics windows.
	HotSearchWindow   = 7 * 24 * time.Hour
	HotSearchCacheTTL = 5 * time.Minute
	HotSearchLimit    = 10
)

// AllowedImageExts are the accepted upload extensions (lowercase, no dot).
var AllowedImageExts = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true,
}

// DefaultHotKeywords is returned when the search log has no recent entries.
var DefaultHotKeywords = []string{"图书馆", "食堂", "体育馆", "教学楼", "宿舍"}
