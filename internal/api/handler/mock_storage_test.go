package handler_test

import (
	"time"

	"jitutong/backend/internal/models"
	"jitutong/backend/internal/storage"

	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

// MockStorage is a testify mock over the full Storage interface. WithTx runs
// the callback against the mock itself; TxErr simulates a commit failure
// after a successful callback.
type MockStorage struct {
	mock.Mock
	TxErr error
}

func (m *MockStorage) WithTx(fn func(storage.Storage) error) error {
	if err := fn(m); err != nil {
		return err
	}
	return m.TxErr
}

func (m *MockStorage) CreateUser(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockStorage) GetUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByPhone(phone string) (*models.User, error) {
	args := m.Called(phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SaveUser(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockStorage) DeleteUser(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockStorage) ListUsers(query string, page, pageSize int) ([]models.User, int64, error) {
	args := m.Called(query, page, pageSize)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) CountUsers() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CountUsersByStatus(status string) (int64, error) {
	args := m.Called(status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) GetAdminByID(id uint) (*models.Admin, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockStorage) GetAdminByUsername(username string) (*models.Admin, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockStorage) CreateAdmin(admin *models.Admin) error {
	return m.Called(admin).Error(0)
}

func (m *MockStorage) SaveAdmin(admin *models.Admin) error {
	return m.Called(admin).Error(0)
}

func (m *MockStorage) DeleteAdmin(admin *models.Admin) error {
	return m.Called(admin).Error(0)
}

func (m *MockStorage) CreateReview(review *models.Review) error {
	return m.Called(review).Error(0)
}

func (m *MockStorage) GetReviewByID(id uint) (*models.Review, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockStorage) SaveReview(review *models.Review) error {
	return m.Called(review).Error(0)
}

func (m *MockStorage) DeleteReview(review *models.Review) error {
	return m.Called(review).Error(0)
}

func (m *MockStorage) ListLocationReviews(locationID uint, tag string, page, pageSize int) ([]models.Review, int64, error) {
	args := m.Called(locationID, tag, page, pageSize)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) ListReviewsForModeration(status, keyword string, page, pageSize int) ([]models.Review, int64, error) {
	args := m.Called(status, keyword, page, pageSize)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) ListUserReviews(userID uint) ([]models.Review, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockStorage) CountReviewsByStatus(status string) (int64, error) {
	args := m.Called(status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) LocationRatingStats(locationID uint) (float64, int64, error) {
	args := m.Called(locationID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) GetReviewLike(userID, reviewID uint) (*models.ReviewLike, error) {
	args := m.Called(userID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewLike), args.Error(1)
}

func (m *MockStorage) CreateReviewLike(like *models.ReviewLike) error {
	return m.Called(like).Error(0)
}

func (m *MockStorage) DeleteReviewLike(like *models.ReviewLike) error {
	return m.Called(like).Error(0)
}

func (m *MockStorage) CountReviewLikes(reviewID uint) (int64, error) {
	args := m.Called(reviewID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) GetReplyByID(id uint) (*models.ReviewReply, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewReply), args.Error(1)
}

func (m *MockStorage) CreateReply(reply *models.ReviewReply) error {
	return m.Called(reply).Error(0)
}

func (m *MockStorage) ListUserReplies(userID uint) ([]models.ReviewReply, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.ReviewReply), args.Error(1)
}

func (m *MockStorage) CreateReviewReport(report *models.ReviewReport) error {
	return m.Called(report).Error(0)
}

func (m *MockStorage) GetReviewReportByID(id uint) (*models.ReviewReport, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewReport), args.Error(1)
}

func (m *MockStorage) SaveReviewReport(report *models.ReviewReport) error {
	return m.Called(report).Error(0)
}

func (m *MockStorage) ListReviewReports(status string, page, pageSize int) ([]models.ReviewReport, int64, error) {
	args := m.Called(status, page, pageSize)
	return args.Get(0).([]models.ReviewReport), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) CreateReplyReport(report *models.ReviewReplyReport) error {
	return m.Called(report).Error(0)
}

func (m *MockStorage) CreateSuggestion(s *models.WikiSuggestion) error {
	return m.Called(s).Error(0)
}

func (m *MockStorage) GetSuggestionByID(id uint) (*models.WikiSuggestion, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WikiSuggestion), args.Error(1)
}

func (m *MockStorage) SaveSuggestion(s *models.WikiSuggestion) error {
	return m.Called(s).Error(0)
}

func (m *MockStorage) DeleteSuggestion(s *models.WikiSuggestion) error {
	return m.Called(s).Error(0)
}

func (m *MockStorage) ListSuggestions(status, keyword string, page, pageSize int) ([]models.WikiSuggestion, int64, error) {
	args := m.Called(status, keyword, page, pageSize)
	return args.Get(0).([]models.WikiSuggestion), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) CountSuggestionsByStatus(status string) (int64, error) {
	args := m.Called(status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CreateLocation(loc *models.Location) error {
	return m.Called(loc).Error(0)
}

func (m *MockStorage) GetLocationByID(id uint) (*models.Location, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

func (m *MockStorage) GetLocationByBuildingID(buildingID int) (*models.Location, error) {
	args := m.Called(buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

func (m *MockStorage) SaveLocation(loc *models.Location) error {
	return m.Called(loc).Error(0)
}

func (m *MockStorage) DeleteLocation(loc *models.Location) error {
	return m.Called(loc).Error(0)
}

func (m *MockStorage) SoftDeleteLocations(ids []uint) (int64, error) {
	args := m.Called(ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) ListLocations(filter storage.LocationFilter) ([]models.Location, int64, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Location), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) ListAllLocations() ([]models.Location, error) {
	args := m.Called()
	return args.Get(0).([]models.Location), args.Error(1)
}

func (m *MockStorage) ListMapLocations() ([]models.Location, error) {
	args := m.Called()
	return args.Get(0).([]models.Location), args.Error(1)
}

func (m *MockStorage) SearchLocations(keyword string, limit int) ([]models.Location, error) {
	args := m.Called(keyword, limit)
	return args.Get(0).([]models.Location), args.Error(1)
}

func (m *MockStorage) ListWikiLocations(keyword, tag string) ([]models.Location, error) {
	args := m.Called(keyword, tag)
	return args.Get(0).([]models.Location), args.Error(1)
}

func (m *MockStorage) CountLocations() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) GetOrCreateCategory(name string) (*models.Category, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockStorage) GetOrCreateTag(name string) (*models.Tag, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockStorage) ReplaceLocationTags(loc *models.Location, tags []models.Tag) error {
	return m.Called(loc, tags).Error(0)
}

func (m *MockStorage) PopularReviewTags(locationID uint, limit int) ([]storage.NameCount, error) {
	args := m.Called(locationID, limit)
	return args.Get(0).([]storage.NameCount), args.Error(1)
}

func (m *MockStorage) CreateMessage(msg *models.Message) error {
	return m.Called(msg).Error(0)
}

func (m *MockStorage) GetMessage(userID, id uint) (*models.Message, error) {
	args := m.Called(userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStorage) SaveMessage(msg *models.Message) error {
	return m.Called(msg).Error(0)
}

func (m *MockStorage) DeleteMessage(msg *models.Message) error {
	return m.Called(msg).Error(0)
}

func (m *MockStorage) ListMessages(userID uint, msgType string, unreadOnly bool) ([]models.Message, error) {
	args := m.Called(userID, msgType, unreadOnly)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) MarkAllMessagesRead(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) ClearMessages(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CountUnreadMessages(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CreateFavorite(fav *models.Favorite) error {
	return m.Called(fav).Error(0)
}

func (m *MockStorage) DeleteFavorite(fav *models.Favorite) error {
	return m.Called(fav).Error(0)
}

func (m *MockStorage) GetFavoriteByBuilding(userID uint, buildingID int) (*models.Favorite, error) {
	args := m.Called(userID, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Favorite), args.Error(1)
}

func (m *MockStorage) ListFavorites(userID uint) ([]models.Favorite, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Favorite), args.Error(1)
}

func (m *MockStorage) CreateHistory(h *models.History) error {
	return m.Called(h).Error(0)
}

func (m *MockStorage) SaveHistory(h *models.History) error {
	return m.Called(h).Error(0)
}

func (m *MockStorage) GetHistoryByBuilding(userID uint, buildingID int) (*models.History, error) {
	args := m.Called(userID, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.History), args.Error(1)
}

func (m *MockStorage) ListHistory(userID uint, limit int) ([]models.History, error) {
	args := m.Called(userID, limit)
	return args.Get(0).([]models.History), args.Error(1)
}

func (m *MockStorage) ClearHistory(userID uint) error {
	return m.Called(userID).Error(0)
}

func (m *MockStorage) CreateFavoriteRoute(r *models.FavoriteRoute) error {
	return m.Called(r).Error(0)
}

func (m *MockStorage) SaveFavoriteRoute(r *models.FavoriteRoute) error {
	return m.Called(r).Error(0)
}

func (m *MockStorage) DeleteFavoriteRoute(r *models.FavoriteRoute) error {
	return m.Called(r).Error(0)
}

func (m *MockStorage) GetFavoriteRoute(userID, id uint) (*models.FavoriteRoute, error) {
	args := m.Called(userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FavoriteRoute), args.Error(1)
}

func (m *MockStorage) FindFavoriteRoute(r *models.FavoriteRoute) (*models.FavoriteRoute, error) {
	args := m.Called(r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FavoriteRoute), args.Error(1)
}

func (m *MockStorage) ListFavoriteRoutes(userID uint, page, pageSize int) ([]models.FavoriteRoute, int64, error) {
	args := m.Called(userID, page, pageSize)
	return args.Get(0).([]models.FavoriteRoute), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) CreateUserLog(l *models.UserLog) error {
	return m.Called(l).Error(0)
}

func (m *MockStorage) ListUserLogs(userID uint, page, pageSize int) ([]models.UserLog, int64, error) {
	args := m.Called(userID, page, pageSize)
	return args.Get(0).([]models.UserLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) CreateLoginLog(l *models.UserLoginLog) error {
	return m.Called(l).Error(0)
}

func (m *MockStorage) CreateLocationView(v *models.LocationView) error {
	return m.Called(v).Error(0)
}

func (m *MockStorage) CreateSearchLog(l *models.SearchLog) error {
	return m.Called(l).Error(0)
}

func (m *MockStorage) ListSystemSettings() ([]models.SystemSetting, error) {
	args := m.Called()
	return args.Get(0).([]models.SystemSetting), args.Error(1)
}

func (m *MockStorage) UpsertSystemSetting(key string, value datatypes.JSON) error {
	return m.Called(key, value).Error(0)
}

func (m *MockStorage) DailyActiveUsers(since time.Time) ([]storage.DateCount, error) {
	args := m.Called(since)
	return args.Get(0).([]storage.DateCount), args.Error(1)
}

func (m *MockStorage) ActiveUserCount(since time.Time) (int64, error) {
	args := m.Called(since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) HourlyActiveUsers(since time.Time) ([]storage.HourCount, error) {
	args := m.Called(since)
	return args.Get(0).([]storage.HourCount), args.Error(1)
}

func (m *MockStorage) HotspotLocations(limit int) ([]storage.NameCount, error) {
	args := m.Called(limit)
	return args.Get(0).([]storage.NameCount), args.Error(1)
}

func (m *MockStorage) TopRatedLocations(limit int) ([]storage.TopLocation, error) {
	args := m.Called(limit)
	return args.Get(0).([]storage.TopLocation), args.Error(1)
}

func (m *MockStorage) ReviewTrends(since time.Time) ([]storage.DateCount, error) {
	args := m.Called(since)
	return args.Get(0).([]storage.DateCount), args.Error(1)
}

func (m *MockStorage) SearchKeywordStats(since time.Time, limit int) ([]storage.KeywordCount, error) {
	args := m.Called(since, limit)
	return args.Get(0).([]storage.KeywordCount), args.Error(1)
}
