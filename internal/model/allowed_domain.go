package model

// AllowedDomain is an email domain permitted to register. When no rows
// exist, registration is open to any domain.
type AllowedDomain struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Domain string `json:"domain" gorm:"uniqueIndex;size:255;not null"`
}
