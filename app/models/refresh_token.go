package models

import "time"

// RefreshToken records every issued refresh credential so each one can be used once.
type RefreshToken struct {
	ID         uint       `gorm:"primaryKey"`
	JTI        string     `gorm:"column:jti;size:36;not null;uniqueIndex"`
	UserID     uint       `gorm:"not null;index"`
	User       *User      `gorm:"constraint:OnDelete:CASCADE"`
	ExpiresAt  time.Time  `gorm:"not null;index"`
	RevokedAt  *time.Time `gorm:"index"`
	ReplacedBy string     `gorm:"size:36"`
	CreatedAt  time.Time
}

