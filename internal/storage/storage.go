// Package storage is the persistence layer: a Storage interface consumed by
// the services and handlers, backed by a GORM/PostgreSQL implementation.
package storage

import (
	"time"

	"jitutong/backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DateCount is one bucket of a per-day aggregation.
type DateCount struct {
	Date  time.Time
	Count int64
}

// HourCount is one bucket of a per-hour aggregation.
type HourCount struct {
	Hour  int
	Count int64
}

// NameCount pairs an entity name with an occurrence count.
type NameCount struct {
	Name  string
	Count int64
}

// KeywordCount pairs a search keyword with its frequency.
type KeywordCount struct {
	Keyword string
	Count   int64
}

// TopLocation is one row of the rated-locations leaderboard.
type TopLocation struct {
	ID          uint
	Name        string
	AvgRating   float64
	ReviewCount int64
	Category    string
}

// LocationFilter narrows the admin location listing.
type LocationFilter struct {
	Keyword  string
	Status   string
	Category string
	Page     int
	PageSize int
}

// Storage is everything the API needs from persistence. The GORM service
// implements it; tests substitute a mock. WithTx runs fn against a
// transaction-scoped Storage and commits iff fn returns nil.
type Storage interface {
	WithTx(fn func(Storage) error) error

	// Users
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByPhone(phone string) (*models.User, error)
	SaveUser(user *models.User) error
	DeleteUser(user *models.User) error
	ListUsers(query string, page, pageSize int) ([]models.User, int64, error)
	CountUsers() (int64, error)
	CountUsersByStatus(status string) (int64, error)

	// Admins
	GetAdminByID(id uint) (*models.Admin, error)
	GetAdminByUsername(username string) (*models.Admin, error)
	CreateAdmin(admin *models.Admin) error
	SaveAdmin(admin *models.Admin) error
	DeleteAdmin(admin *models.Admin) error

	// Reviews
	CreateReview(review *models.Review) error
	GetReviewByID(id uint) (*models.Review, error)
	SaveReview(review *models.Review) error
	DeleteReview(review *models.Review) error
	ListLocationReviews(locationID uint, tag string, page, pageSize int) ([]models.Review, int64, error)
	ListReviewsForModeration(status, keyword string, page, pageSize int) ([]models.Review, int64, error)
	ListUserReviews(userID uint) ([]models.Review, error)
	CountReviewsByStatus(status string) (int64, error)
	LocationRatingStats(locationID uint) (float64, int64, error)

	// Likes
	GetReviewLike(userID, reviewID uint) (*models.ReviewLike, error)
	CreateReviewLike(like *models.ReviewLike) error
	DeleteReviewLike(like *models.ReviewLike) error
	CountReviewLikes(reviewID uint) (int64, error)

	// Replies
	GetReplyByID(id uint) (*models.ReviewReply, error)
	CreateReply(reply *models.ReviewReply) error
	ListUserReplies(userID uint) ([]models.ReviewReply, error)

	// Reports
	CreateReviewReport(report *models.ReviewReport) error
	GetReviewReportByID(id uint) (*models.ReviewReport, error)
	SaveReviewReport(report *models.ReviewReport) error
	ListReviewReports(status string, page, pageSize int) ([]models.ReviewReport, int64, error)
	CreateReplyReport(report *models.ReviewReplyReport) error

	// Wiki suggestions
	CreateSuggestion(s *models.WikiSuggestion) error
	GetSuggestionByID(id uint) (*models.WikiSuggestion, error)
	SaveSuggestion(s *models.WikiSuggestion) error
	DeleteSuggestion(s *models.WikiSuggestion) error
	ListSuggestions(status, keyword string, page, pageSize int) ([]models.WikiSuggestion, int64, error)
	CountSuggestionsByStatus(status string) (int64, error)

	// Locations
	CreateLocation(loc *models.Location) error
	GetLocationByID(id uint) (*models.Location, error)
	GetLocationByBuildingID(buildingID int) (*models.Location, error)
	SaveLocation(loc *models.Location) error
	DeleteLocation(loc *models.Location) error
	SoftDeleteLocations(ids []uint) (int64, error)
	ListLocations(filter LocationFilter) ([]models.Location, int64, error)
	ListAllLocations() ([]models.Location, error)
	ListMapLocations() ([]models.Location, error)
	SearchLocations(keyword string, limit int) ([]models.Location, error)
	ListWikiLocations(keyword, tag string) ([]models.Location, error)
	CountLocations() (int64, error)

	// Categories and tags
	GetOrCreateCategory(name string) (*models.Category, error)
	GetOrCreateTag(name string) (*models.Tag, error)
	ReplaceLocationTags(loc *models.Location, tags []models.Tag) error
	PopularReviewTags(locationID uint, limit int) ([]NameCount, error)

	// Messages
	CreateMessage(msg *models.Message) error
	GetMessage(userID, id uint) (*models.Message, error)
	SaveMessage(msg *models.Message) error
	DeleteMessage(msg *models.Message) error
	ListMessages(userID uint, msgType string, unreadOnly bool) ([]models.Message, error)
	MarkAllMessagesRead(userID uint) (int64, error)
	ClearMessages(userID uint) (int64, error)
	CountUnreadMessages(userID uint) (int64, error)

	// Favorites
	CreateFavorite(fav *models.Favorite) error
	DeleteFavorite(fav *models.Favorite) error
	GetFavoriteByBuilding(userID uint, buildingID int) (*models.Favorite, error)
	ListFavorites(userID uint) ([]models.Favorite, error)

	// Browsing history
	CreateHistory(h *models.History) error
	SaveHistory(h *models.History) error
	GetHistoryByBuilding(userID uint, buildingID int) (*models.History, error)
	ListHistory(userID uint, limit int) ([]models.History, error)
	ClearHistory(userID uint) error

	// Favorite routes
	CreateFavoriteRoute(r *models.FavoriteRoute) error
	SaveFavoriteRoute(r *models.FavoriteRoute) error
	DeleteFavoriteRoute(r *models.FavoriteRoute) error
	GetFavoriteRoute(userID, id uint) (*models.FavoriteRoute, error)
	FindFavoriteRoute(r *models.FavoriteRoute) (*models.FavoriteRoute, error)
	ListFavoriteRoutes(userID uint, page, pageSize int) ([]models.FavoriteRoute, int64, error)

	// Logs and settings
	CreateUserLog(l *models.UserLog) error
	ListUserLogs(userID uint, page, pageSize int) ([]models.UserLog, int64, error)
	CreateLoginLog(l *models.UserLoginLog) error
	CreateLocationView(v *models.LocationView) error
	CreateSearchLog(l *models.SearchLog) error
	ListSystemSettings() ([]models.SystemSetting, error)
	UpsertSystemSetting(key string, value datatypes.JSON) error

	// Analytics
	DailyActiveUsers(since time.Time) ([]DateCount, error)
	ActiveUserCount(since time.Time) (int64, error)
	HourlyActiveUsers(since time.Time) ([]HourCount, error)
	HotspotLocations(limit int) ([]NameCount, error)
	TopRatedLocations(limit int) ([]TopLocation, error)
	ReviewTrends(since time.Time) ([]DateCount, error)
	SearchKeywordStats(since time.Time, limit int) ([]KeywordCount, error)
}

// Service is the GORM-backed Storage implementation.
type Service struct {
	DB *gorm.DB
}

// NewService wraps a GORM handle.
func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// WithTx runs fn against a transaction-scoped Service. All mutations inside
// fn commit together or roll back together.
func (s *Service) WithTx(fn func(Storage) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Service{DB: tx})
	})
}

// paginate applies page/pageSize the way the listing endpoints expect.
func paginate(db *gorm.DB, page, pageSize int) *gorm.DB {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return db.Offset((page - 1) * pageSize).Limit(pageSize)
}
