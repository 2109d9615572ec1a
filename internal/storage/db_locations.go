package storage

import (
	"errors"

	"jitutong/backend/internal/models"

	"gorm.io/gorm"
)

func (s *Service) CreateLocation(loc *models.Location) error {
	return s.DB.Create(loc).Error
}

func (s *Service) GetLocationByID(id uint) (*models.Location, error) {
	var loc models.Location
	err := s.DB.Preload("Category").Preload("Category.Parent").Preload("Tags").
		First(&loc, id).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (s *Service) GetLocationByBuildingID(buildingID int) (*models.Location, error) {
	var loc models.Location
	if err := s.DB.Where("building_id = ?", buildingID).First(&loc).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

func (s *Service) SaveLocation(loc *models.Location) error {
	return s.DB.Save(loc).Error
}

// DeleteLocation removes the row permanently, including soft-deleted ones.
func (s *Service) DeleteLocation(loc *models.Location) error {
	return s.DB.Unscoped().Delete(loc).Error
}

// SoftDeleteLocations marks the given ids deleted and reports how many rows
// were affected.
func (s *Service) SoftDeleteLocations(ids []uint) (int64, error) {
	res := s.DB.Where("id IN ?", ids).Delete(&models.Location{})
	return res.RowsAffected, res.Error
}

func (s *Service) ListLocations(filter LocationFilter) ([]models.Location, int64, error) {
	db := s.DB.Model(&models.Location{})
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		db = db.Where("locations.name ILIKE ? OR locations.address ILIKE ?", pattern, pattern)
	}
	if filter.Status != "" {
		db = db.Where("locations.status = ?", filter.Status)
	}
	if filter.Category != "" {
		db = db.Joins("JOIN categories ON categories.id = locations.category_id").
			Where("categories.name = ?", filter.Category)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var locs []models.Location
	err := paginate(db.Order("locations.id DESC"), filter.Page, filter.PageSize).
		Preload("Category").Preload("Tags").
		Find(&locs).Error
	if err != nil {
		return nil, 0, err
	}
	return locs, total, nil
}

func (s *Service) ListAllLocations() ([]models.Location, error) {
	var locs []models.Location
	err := s.DB.Preload("Category").Preload("Tags").Find(&locs).Error
	return locs, err
}

// ListMapLocations returns published locations that carry coordinates.
func (s *Service) ListMapLocations() ([]models.Location, error) {
	var locs []models.Location
	err := s.DB.Preload("Category").
		Where("status = ? AND latitude IS NOT NULL AND longitude IS NOT NULL", models.LocationPublished).
		Find(&locs).Error
	return locs, err
}

func (s *Service) SearchLocations(keyword string, limit int) ([]models.Location, error) {
	var locs []models.Location
	pattern := "%" + keyword + "%"
	err := s.DB.Where("name ILIKE ? OR address ILIKE ?", pattern, pattern).
		Limit(limit).Find(&locs).Error
	return locs, err
}

func (s *Service) ListWikiLocations(keyword, tag string) ([]models.Location, error) {
	db := s.DB.Model(&models.Location{})
	if keyword != "" {
		db = db.Where("locations.name ILIKE ?", "%"+keyword+"%")
	}
	if tag != "" {
		db = db.Joins("JOIN location_tags ON location_tags.location_id = locations.id").
			Joins("JOIN tags ON tags.id = location_tags.tag_id").
			Where("tags.name = ?", tag)
	}

	var locs []models.Location
	err := db.Preload("Tags").Find(&locs).Error
	return locs, err
}

func (s *Service) CountLocations() (int64, error) {
	var n int64
	err := s.DB.Model(&models.Location{}).Count(&n).Error
	return n, err
}

func (s *Service) GetOrCreateCategory(name string) (*models.Category, error) {
	var cat models.Category
	err := s.DB.Where("name = ?", name).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cat = models.Category{Name: name}
		err = s.DB.Create(&cat).Error
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *Service) GetOrCreateTag(name string) (*models.Tag, error) {
	var tag models.Tag
	err := s.DB.Where("name = ?", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tag = models.Tag{Name: name}
		err = s.DB.Create(&tag).Error
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// ReplaceLocationTags swaps the location's tag set atomically with respect
// to the surrounding transaction.
func (s *Service) ReplaceLocationTags(loc *models.Location, tags []models.Tag) error {
	return s.DB.Model(loc).Association("Tags").Replace(tags)
}

// PopularReviewTags counts tag usage across a location's reviews.
func (s *Service) PopularReviewTags(locationID uint, limit int) ([]NameCount, error) {
	var rows []NameCount
	err := s.DB.Model(&models.Tag{}).
		Select("tags.name AS name, COUNT(review_tags.review_id) AS count").
		Joins("JOIN review_tags ON review_tags.tag_id = tags.id").
		Joins("JOIN reviews ON reviews.id = review_tags.review_id").
		Where("reviews.location_id = ?", locationID).
		Group("tags.name").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
