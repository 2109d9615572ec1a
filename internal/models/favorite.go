package models

import "time"

// Favorite bookmarks a building/wiki page for a user. One favorite per
// (user, building) pair.
type Favorite struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	UserID     uint `gorm:"not null;uniqueIndex:uq_user_building"`
	User       *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	BuildingID *int `gorm:"uniqueIndex:uq_user_building"`
	WikiID     *uint
	CreatedAt  time.Time
}

// History is a browsing-history entry with a denormalized name/image so the
// list stays renderable even if the location changes later.
type History struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	UserID      uint `gorm:"not null;index"`
	User        *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	BuildingID  *int
	WikiID      *uint
	Name        string `gorm:"size:100;not null"`
	ImageURL    string `gorm:"size:255"`
	Address     string `gorm:"size:255"`
	LastVisited time.Time `gorm:"autoUpdateTime"`
}

// FavoriteRoute is a saved navigation route between two campus points.
// Positions are stored as JSON "[lng, lat]" strings.
type FavoriteRoute struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	UserID        uint `gorm:"not null;index"`
	User          *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Name          string `gorm:"size:100"`
	StartID       *int
	EndID         *int
	StartName     string `gorm:"size:100;not null"`
	EndName       string `gorm:"size:100;not null"`
	StartPosition string `gorm:"type:text"`
	EndPosition   string `gorm:"type:text"`
	Distance      string `gorm:"size:50;not null"`
	WalkTime      string `gorm:"size:50;not null"`
	BikeTime      string `gorm:"size:50;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
