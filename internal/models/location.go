package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Location publication statuses.
const (
	LocationDraft     = "draft"
	LocationPublished = "published"
	LocationArchived  = "archived"
)

// Location is a campus place with an attached wiki article. RichContent is
// the published wiki body; approved WikiSuggestions overwrite it
// (last-approved-wins, no versioning).
type Location struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	BuildingID     *int `gorm:"uniqueIndex"`
	Name           string `gorm:"size:100;not null"`
	Address        string `gorm:"size:255"`
	MainImage      string `gorm:"size:255"`
	RichContent    string `gorm:"type:text"`
	StructuredInfo datatypes.JSONMap
	Description    string `gorm:"type:text"`
	Status         string `gorm:"size:20;not null;default:published"`
	Longitude      *float64
	Latitude       *float64

	CategoryID *uint
	Category   *Category `gorm:"foreignKey:CategoryID"`
	Tags       []Tag     `gorm:"many2many:location_tags"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Category is a hierarchical location category.
type Category struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:50;uniqueIndex;not null"`
	ParentID *uint
	Parent   *Category `gorm:"foreignKey:ParentID"`
}

// Tag labels locations and reviews.
type Tag struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:50;uniqueIndex;not null"`
	CreatedAt time.Time
}

// LocationView is one wiki page view, recorded best-effort for analytics.
type LocationView struct {
	ID         uint `gorm:"primaryKey"`
	LocationID uint `gorm:"not null;index"`
	Location   *Location `gorm:"constraint:OnDelete:CASCADE"`
	UserID     *uint
	User       *User     `gorm:"constraint:OnDelete:SET NULL"`
	ViewedAt   time.Time `gorm:"index;autoCreateTime"`
}
