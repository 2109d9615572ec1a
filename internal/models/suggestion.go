package models

import "time"

// WikiSuggestion kinds.
const (
	SuggestionGeneral  = "general"
	SuggestionLocation = "location"
)

// WikiSuggestion is a proposed wiki edit, possibly anonymous. Unlike a
// review, a rejected suggestion is retained in a terminal rejected state.
type WikiSuggestion struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Content      string  `gorm:"type:text;not null"`
	Type         string  `gorm:"size:20;not null;default:general"`
	Reason       string  `gorm:"type:text"`
	Status       string  `gorm:"size:20;not null;default:pending"`
	ReviewerNote *string `gorm:"type:text"`

	UserID     *uint
	Author     *User `gorm:"foreignKey:UserID"`
	LocationID *uint
	Location   *Location `gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
}
