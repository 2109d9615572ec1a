package models

import "time"

// Message type tags.
const (
	MessageSystem = "system"
	MessageReply  = "reply"
	MessageLike   = "like"
	MessageReport = "report"
)

// Message is an in-app notification owned by a single recipient.
// RelatedComment is a snapshot of the triggering review text captured at
// emission time; it never changes when the source is later edited or
// deleted (the review FK is nulled, the snapshot stays).
type Message struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Type    string `gorm:"size:50;not null;default:system"`
	Content string `gorm:"type:text;not null"`
	IsRead  bool   `gorm:"not null;default:false"`
	Link    string `gorm:"size:255"`

	UserID uint `gorm:"not null;index"`
	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	RelatedReviewID *uint
	RelatedReview   *Review `gorm:"foreignKey:RelatedReviewID;constraint:OnDelete:SET NULL"`
	RelatedComment  *string `gorm:"type:text"`

	CreatedAt time.Time
}
