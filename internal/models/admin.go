package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Admin console roles.
const (
	AdminRoleEditor    = "editor"
	AdminRoleAdmin     = "admin"
	AdminRoleWikiAdmin = "wiki_admin"
)

// Admin is a backend console account. When a User is promoted to an
// elevated role a mirrored Admin row is created with the same credential
// hash (username = user's phone), so the two stay login-compatible.
type Admin struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:80;uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"size:1024;not null" json:"-"`
	Role         string     `gorm:"size:50;not null;default:editor" json:"role"`
	LastLogin    *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// SetPassword hashes and stores the given plaintext password.
func (a *Admin) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (a *Admin) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}
