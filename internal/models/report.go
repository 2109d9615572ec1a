package models

import "time"

// Report lifecycle statuses.
const (
	ReportPending   = "pending"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

// ReviewReport is a user report against a review. The (reporter, review)
// unique index makes a duplicate report a constraint violation, surfaced to
// the caller as a conflict.
type ReviewReport struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Reason       string  `gorm:"size:255;not null"`
	Status       string  `gorm:"size:20;not null;default:pending"`
	ReviewerNote *string `gorm:"type:text"`

	ReviewID   uint `gorm:"not null;uniqueIndex:uq_reporter_review"`
	Review     *Review `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
	ReporterID uint `gorm:"not null;uniqueIndex:uq_reporter_review"`
	Reporter   *User `gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
}

// ReviewReplyReport is a user report against a reply, unique per
// (reporter, reply) pair.
type ReviewReplyReport struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Reason string `gorm:"size:255;not null"`
	Status string `gorm:"size:20;not null;default:pending"`

	ReplyID    uint `gorm:"not null;uniqueIndex:uq_reporter_reply"`
	Reply      *ReviewReply `gorm:"foreignKey:ReplyID;constraint:OnDelete:CASCADE"`
	ReporterID uint `gorm:"not null;uniqueIndex:uq_reporter_reply"`
	Reporter   *User `gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
}
