package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User account statuses.
const (
	StatusActive  = "active"
	StatusBanned  = "banned"
	StatusDeleted = "deleted"
)

// User roles. RoleAdmin and RoleWikiAdmin are elevated: they are mirrored
// into the admins table so the holder can log into the backend console.
const (
	RoleUser       = "user"
	RoleWikiEditor = "wiki_editor"
	RoleWikiAdmin  = "wiki_admin"
	RoleAdmin      = "admin"
)

// ElevatedRoles lists the user roles that require a mirrored Admin row.
var ElevatedRoles = []string{RoleAdmin, RoleWikiAdmin}

// IsElevatedRole reports whether role grants backend console access.
func IsElevatedRole(role string) bool {
	for _, r := range ElevatedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User is a registered end user identified by phone number. Credentials and
// ban bookkeeping never marshal; endpoints that need them build their own
// payloads.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Phone        string     `gorm:"size:20;uniqueIndex;not null" json:"-"`
	PasswordHash string     `gorm:"size:1024;not null" json:"-"`
	Nickname     string     `gorm:"size:80" json:"nickname"`
	AvatarURL    string     `gorm:"size:255" json:"avatarUrl"`
	Bio          string     `gorm:"size:255" json:"bio"`
	Status       string     `gorm:"size:20;not null;default:active" json:"status"`
	Role         string     `gorm:"size:50;not null;default:user" json:"role"`
	BanReason    *string    `gorm:"size:255" json:"-"`
	BanUntil     *time.Time `json:"-"`
	LastLogin    *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// SetPassword hashes and stores the given plaintext password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
