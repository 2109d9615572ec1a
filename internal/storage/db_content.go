package storage

import (
	"jitutong/backend/internal/models"

	"gorm.io/gorm"
)

func (s *Service) CreateReview(review *models.Review) error {
	return s.DB.Create(review).Error
}

// GetReviewByID loads a review with its author and location.
func (s *Service) GetReviewByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := s.DB.Preload("Author").Preload("Location").First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *Service) SaveReview(review *models.Review) error {
	return s.DB.Save(review).Error
}

// DeleteReview removes the review row; likes, replies, reports and tag links
// go with it via the ON DELETE CASCADE constraints.
func (s *Service) DeleteReview(review *models.Review) error {
	return s.DB.Delete(review).Error
}

func (s *Service) ListLocationReviews(locationID uint, tag string, page, pageSize int) ([]models.Review, int64, error) {
	db := s.DB.Model(&models.Review{}).Where("reviews.location_id = ?", locationID)
	if tag != "" {
		db = db.Joins("JOIN review_tags ON review_tags.review_id = reviews.id").
			Joins("JOIN tags ON tags.id = review_tags.tag_id").
			Where("tags.name = ?", tag)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := paginate(db.Order("reviews.created_at DESC"), page, pageSize).
		Preload("Author").
		Preload("Tags").
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Replies.Author").
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (s *Service) ListReviewsForModeration(status, keyword string, page, pageSize int) ([]models.Review, int64, error) {
	db := s.DB.Model(&models.Review{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if keyword != "" {
		db = db.Where("comment LIKE ?", "%"+keyword+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := paginate(db.Order("id DESC"), page, pageSize).
		Preload("Author").Preload("Location").
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (s *Service) ListUserReviews(userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.DB.Where("user_id = ?", userID).Preload("Location").Find(&reviews).Error
	return reviews, err
}

// LocationRatingStats returns the average rating and review count over a
// location's approved reviews.
func (s *Service) LocationRatingStats(locationID uint) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := s.DB.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(id) AS count").
		Where("location_id = ? AND status = ?", locationID, models.ModerationApproved).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Avg, row.Count, nil
}

func (s *Service) CountReviewsByStatus(status string) (int64, error) {
	var n int64
	err := s.DB.Model(&models.Review{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (s *Service) GetReviewLike(userID, reviewID uint) (*models.ReviewLike, error) {
	var like models.ReviewLike
	if err := s.DB.Where("user_id = ? AND review_id = ?", userID, reviewID).First(&like).Error; err != nil {
		return nil, err
	}
	return &like, nil
}

func (s *Service) CreateReviewLike(like *models.ReviewLike) error {
	return s.DB.Create(like).Error
}

func (s *Service) DeleteReviewLike(like *models.ReviewLike) error {
	return s.DB.Where("user_id = ? AND review_id = ?", like.UserID, like.ReviewID).
		Delete(&models.ReviewLike{}).Error
}

func (s *Service) CountReviewLikes(reviewID uint) (int64, error) {
	var n int64
	err := s.DB.Model(&models.ReviewLike{}).Where("review_id = ?", reviewID).Count(&n).Error
	return n, err
}

func (s *Service) GetReplyByID(id uint) (*models.ReviewReply, error) {
	var reply models.ReviewReply
	if err := s.DB.Preload("Review").First(&reply, id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

func (s *Service) CreateReply(reply *models.ReviewReply) error {
	return s.DB.Create(reply).Error
}

func (s *Service) ListUserReplies(userID uint) ([]models.ReviewReply, error) {
	var replies []models.ReviewReply
	err := s.DB.Where("user_id = ?", userID).
		Preload("Review").Preload("Review.Author").Preload("Review.Location").
		Find(&replies).Error
	return replies, err
}

func (s *Service) CreateReviewReport(report *models.ReviewReport) error {
	return s.DB.Create(report).Error
}

func (s *Service) GetReviewReportByID(id uint) (*models.ReviewReport, error) {
	var report models.ReviewReport
	err := s.DB.Preload("Review").Preload("Review.Author").Preload("Review.Location").
		Preload("Reporter").
		First(&report, id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *Service) SaveReviewReport(report *models.ReviewReport) error {
	return s.DB.Save(report).Error
}

func (s *Service) ListReviewReports(status string, page, pageSize int) ([]models.ReviewReport, int64, error) {
	db := s.DB.Model(&models.ReviewReport{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.ReviewReport
	err := paginate(db.Order("id DESC"), page, pageSize).
		Preload("Review").Preload("Review.Author").Preload("Reporter").
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (s *Service) CreateReplyReport(report *models.ReviewReplyReport) error {
	return s.DB.Create(report).Error
}

func (s *Service) CreateSuggestion(sg *models.WikiSuggestion) error {
	return s.DB.Create(sg).Error
}

func (s *Service) GetSuggestionByID(id uint) (*models.WikiSuggestion, error) {
	var sg models.WikiSuggestion
	if err := s.DB.Preload("Author").Preload("Location").First(&sg, id).Error; err != nil {
		return nil, err
	}
	return &sg, nil
}

func (s *Service) SaveSuggestion(sg *models.WikiSuggestion) error {
	return s.DB.Save(sg).Error
}

func (s *Service) DeleteSuggestion(sg *models.WikiSuggestion) error {
	return s.DB.Delete(sg).Error
}

func (s *Service) ListSuggestions(status, keyword string, page, pageSize int) ([]models.WikiSuggestion, int64, error) {
	db := s.DB.Model(&models.WikiSuggestion{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if keyword != "" {
		db = db.Where("content LIKE ?", "%"+keyword+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sgs []models.WikiSuggestion
	err := paginate(db.Order("id DESC"), page, pageSize).
		Preload("Author").Preload("Location").
		Find(&sgs).Error
	if err != nil {
		return nil, 0, err
	}
	return sgs, total, nil
}

func (s *Service) CountSuggestionsByStatus(status string) (int64, error) {
	var n int64
	err := s.DB.Model(&models.WikiSuggestion{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
