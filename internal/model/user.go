package model

import "time"

// Role labels assigned at account creation. Roles never change afterwards.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a platform account. CurrentSessionToken is non-empty
// exactly when LoggedIn is true; the pair is only ever mutated together.
type User struct {
	ID                  uint       `json:"id" gorm:"primaryKey"`
	Name                string     `json:"name" gorm:"size:255;not null"`
	Email               string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash        string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Roles               []string   `json:"roles" gorm:"serializer:json;type:text"`
	LoggedIn            bool       `json:"logged_in" gorm:"default:false"`
	CurrentSessionToken string     `json:"-" gorm:"size:1024;not null;default:''"`
	LastLogin           *time.Time `json:"last_login,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// HasRole reports whether the user carries the given role label.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
