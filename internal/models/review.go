package models

import (
	"time"

	"github.com/lib/pq"
)

// Moderation statuses shared by reviews and wiki suggestions. A review never
// reaches StatusRejected: rejecting a review deletes it outright.
const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
)

// Review is a user rating + comment on a location. Likes, replies and
// reports hang off it and are removed by cascade when the review is deleted.
type Review struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Rating       int            `gorm:"not null"`
	Comment      string         `gorm:"type:text;not null"`
	Images       pq.StringArray `gorm:"type:text[]"`
	Status       string         `gorm:"size:20;not null;default:pending"`
	ReviewerNote *string        `gorm:"type:text"`

	UserID     uint `gorm:"not null"`
	Author     *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	LocationID uint `gorm:"not null"`
	Location   *Location `gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE"`

	Likes   []ReviewLike   `gorm:"constraint:OnDelete:CASCADE"`
	Replies []ReviewReply  `gorm:"constraint:OnDelete:CASCADE"`
	Reports []ReviewReport `gorm:"constraint:OnDelete:CASCADE"`
	Tags    []Tag          `gorm:"many2many:review_tags"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReviewLike marks that a user liked a review. The composite primary key
// doubles as the uniqueness guarantee for the like toggle.
type ReviewLike struct {
	UserID   uint `gorm:"primaryKey"`
	ReviewID uint `gorm:"primaryKey"`
	User     *User   `gorm:"constraint:OnDelete:CASCADE"`
	Review   *Review `gorm:"constraint:OnDelete:CASCADE"`
}

// ReviewReply is a threaded reply under a review.
type ReviewReply struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"type:text;not null"`

	ReviewID uint `gorm:"not null"`
	Review   *Review `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
	UserID   uint `gorm:"not null"`
	Author   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	Reports []ReviewReplyReport `gorm:"foreignKey:ReplyID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
