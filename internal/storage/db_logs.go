package storage

import (
	"time"

	"jitutong/backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

func (s *Service) CreateUserLog(l *models.UserLog) error {
	return s.DB.Create(l).Error
}

func (s *Service) ListUserLogs(userID uint, page, pageSize int) ([]models.UserLog, int64, error) {
	db := s.DB.Model(&models.UserLog{})
	if userID != 0 {
		db = db.Where("user_id = ?", userID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.UserLog
	if err := paginate(db.Order("timestamp DESC"), page, pageSize).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (s *Service) CreateLoginLog(l *models.UserLoginLog) error {
	return s.DB.Create(l).Error
}

func (s *Service) CreateLocationView(v *models.LocationView) error {
	return s.DB.Create(v).Error
}

func (s *Service) CreateSearchLog(l *models.SearchLog) error {
	return s.DB.Create(l).Error
}

func (s *Service) ListSystemSettings() ([]models.SystemSetting, error) {
	var settings []models.SystemSetting
	err := s.DB.Find(&settings).Error
	return settings, err
}

func (s *Service) UpsertSystemSetting(key string, value datatypes.JSON) error {
	setting := models.SystemSetting{Key: key, Value: value}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting).Error
}

// DailyActiveUsers buckets distinct login users per calendar day.
func (s *Service) DailyActiveUsers(since time.Time) ([]DateCount, error) {
	var rows []DateCount
	err := s.DB.Model(&models.UserLoginLog{}).
		Select("DATE(login_time) AS date, COUNT(DISTINCT user_id) AS count").
		Where("login_time >= ?", since).
		Group("DATE(login_time)").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

func (s *Service) ActiveUserCount(since time.Time) (int64, error) {
	var n int64
	err := s.DB.Model(&models.UserLoginLog{}).
		Where("login_time >= ?", since).
		Distinct("user_id").
		Count(&n).Error
	return n, err
}

func (s *Service) HourlyActiveUsers(since time.Time) ([]HourCount, error) {
	var rows []HourCount
	err := s.DB.Model(&models.UserLoginLog{}).
		Select("EXTRACT(HOUR FROM login_time)::int AS hour, COUNT(DISTINCT user_id) AS count").
		Where("login_time >= ?", since).
		Group("hour").
		Order("hour ASC").
		Scan(&rows).Error
	return rows, err
}

// HotspotLocations ranks locations by recorded page views.
func (s *Service) HotspotLocations(limit int) ([]NameCount, error) {
	var rows []NameCount
	err := s.DB.Model(&models.LocationView{}).
		Select("locations.name AS name, COUNT(location_views.id) AS count").
		Joins("JOIN locations ON locations.id = location_views.location_id").
		Group("locations.name").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// TopRatedLocations ranks published locations by average approved rating.
func (s *Service) TopRatedLocations(limit int) ([]TopLocation, error) {
	var rows []TopLocation
	err := s.DB.Model(&models.Review{}).
		Select(`locations.id AS id,
			locations.name AS name,
			AVG(reviews.rating) AS avg_rating,
			COUNT(reviews.id) AS review_count,
			COALESCE(categories.name, '') AS category`).
		Joins("JOIN locations ON locations.id = reviews.location_id").
		Joins("LEFT JOIN categories ON categories.id = locations.category_id").
		Where("reviews.status = ?", models.ModerationApproved).
		Group("locations.id, locations.name, categories.name").
		Having("COUNT(reviews.id) > 0").
		Order("avg_rating DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (s *Service) ReviewTrends(since time.Time) ([]DateCount, error) {
	var rows []DateCount
	err := s.DB.Model(&models.Review{}).
		Select("DATE(created_at) AS date, COUNT(id) AS count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

func (s *Service) SearchKeywordStats(since time.Time, limit int) ([]KeywordCount, error) {
	var rows []KeywordCount
	err := s.DB.Model(&models.SearchLog{}).
		Select("keyword, COUNT(id) AS count").
		Where("created_at >= ?", since).
		Group("keyword").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
