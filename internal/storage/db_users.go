package storage

import (
	"jitutong/backend/internal/models"
)

func (s *Service) CreateUser(user *models.User) error {
	return s.DB.Create(user).Error
}

func (s *Service) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByPhone(phone string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) DeleteUser(user *models.User) error {
	return s.DB.Delete(user).Error
}

// ListUsers searches by nickname or phone substring, newest first.
func (s *Service) ListUsers(query string, page, pageSize int) ([]models.User, int64, error) {
	db := s.DB.Model(&models.User{})
	if query != "" {
		pattern := "%" + query + "%"
		db = db.Where("nickname ILIKE ? OR phone ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := paginate(db.Order("id DESC"), page, pageSize).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *Service) CountUsers() (int64, error) {
	var n int64
	err := s.DB.Model(&models.User{}).Count(&n).Error
	return n, err
}

func (s *Service) CountUsersByStatus(status string) (int64, error) {
	var n int64
	err := s.DB.Model(&models.User{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (s *Service) GetAdminByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.First(&admin, id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (s *Service) GetAdminByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (s *Service) CreateAdmin(admin *models.Admin) error {
	return s.DB.Create(admin).Error
}

func (s *Service) SaveAdmin(admin *models.Admin) error {
	return s.DB.Save(admin).Error
}

func (s *Service) DeleteAdmin(admin *models.Admin) error {
	return s.DB.Delete(admin).Error
}
