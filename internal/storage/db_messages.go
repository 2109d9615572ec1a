package storage

import (
	"jitutong/backend/internal/models"
)

func (s *Service) CreateMessage(msg *models.Message) error {
	return s.DB.Create(msg).Error
}

func (s *Service) GetMessage(userID, id uint) (*models.Message, error) {
	var msg models.Message
	if err := s.DB.Where("id = ? AND user_id = ?", id, userID).First(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *Service) SaveMessage(msg *models.Message) error {
	return s.DB.Save(msg).Error
}

func (s *Service) DeleteMessage(msg *models.Message) error {
	return s.DB.Delete(msg).Error
}

func (s *Service) ListMessages(userID uint, msgType string, unreadOnly bool) ([]models.Message, error) {
	db := s.DB.Where("user_id = ?", userID)
	if msgType != "" {
		db = db.Where("type = ?", msgType)
	}
	if unreadOnly {
		db = db.Where("is_read = ?", false)
	}

	var msgs []models.Message
	err := db.Order("created_at DESC").Find(&msgs).Error
	return msgs, err
}

func (s *Service) MarkAllMessagesRead(userID uint) (int64, error) {
	res := s.DB.Model(&models.Message{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (s *Service) ClearMessages(userID uint) (int64, error) {
	res := s.DB.Where("user_id = ?", userID).Delete(&models.Message{})
	return res.RowsAffected, res.Error
}

func (s *Service) CountUnreadMessages(userID uint) (int64, error) {
	var n int64
	err := s.DB.Model(&models.Message{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (s *Service) CreateFavorite(fav *models.Favorite) error {
	return s.DB.Create(fav).Error
}

func (s *Service) DeleteFavorite(fav *models.Favorite) error {
	return s.DB.Delete(fav).Error
}

func (s *Service) GetFavoriteByBuilding(userID uint, buildingID int) (*models.Favorite, error) {
	var fav models.Favorite
	if err := s.DB.Where("user_id = ? AND building_id = ?", userID, buildingID).First(&fav).Error; err != nil {
		return nil, err
	}
	return &fav, nil
}

func (s *Service) ListFavorites(userID uint) ([]models.Favorite, error) {
	var favs []models.Favorite
	err := s.DB.Where("user_id = ?", userID).Find(&favs).Error
	return favs, err
}

func (s *Service) CreateHistory(h *models.History) error {
	return s.DB.Create(h).Error
}

func (s *Service) SaveHistory(h *models.History) error {
	return s.DB.Save(h).Error
}

func (s *Service) GetHistoryByBuilding(userID uint, buildingID int) (*models.History, error) {
	var h models.History
	if err := s.DB.Where("user_id = ? AND building_id = ?", userID, buildingID).First(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *Service) ListHistory(userID uint, limit int) ([]models.History, error) {
	var items []models.History
	err := s.DB.Where("user_id = ?", userID).
		Order("last_visited DESC").Limit(limit).
		Find(&items).Error
	return items, err
}

func (s *Service) ClearHistory(userID uint) error {
	return s.DB.Where("user_id = ?", userID).Delete(&models.History{}).Error
}

func (s *Service) CreateFavoriteRoute(r *models.FavoriteRoute) error {
	return s.DB.Create(r).Error
}

func (s *Service) SaveFavoriteRoute(r *models.FavoriteRoute) error {
	return s.DB.Save(r).Error
}

func (s *Service) DeleteFavoriteRoute(r *models.FavoriteRoute) error {
	return s.DB.Delete(r).Error
}

func (s *Service) GetFavoriteRoute(userID, id uint) (*models.FavoriteRoute, error) {
	var route models.FavoriteRoute
	if err := s.DB.Where("id = ? AND user_id = ?", id, userID).First(&route).Error; err != nil {
		return nil, err
	}
	return &route, nil
}

// FindFavoriteRoute looks for an existing route with the same endpoints so
// saving a duplicate returns the original instead of a second row.
func (s *Service) FindFavoriteRoute(r *models.FavoriteRoute) (*models.FavoriteRoute, error) {
	var existing models.FavoriteRoute
	err := s.DB.Where(&models.FavoriteRoute{
		UserID:    r.UserID,
		StartID:   r.StartID,
		EndID:     r.EndID,
		StartName: r.StartName,
		EndName:   r.EndName,
	}).First(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *Service) ListFavoriteRoutes(userID uint, page, pageSize int) ([]models.FavoriteRoute, int64, error) {
	db := s.DB.Model(&models.FavoriteRoute{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var routes []models.FavoriteRoute
	if err := paginate(db.Order("created_at DESC"), page, pageSize).Find(&routes).Error; err != nil {
		return nil, 0, err
	}
	return routes, total, nil
}
