package models

import (
	"strings"
	"time"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	FirstName   string    `gorm:"size:150" json:"first_name"`
	LastName    string    `gorm:"size:150" json:"last_name"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	IsStaff     bool      `gorm:"not null;default:false;index" json:"is_staff"`
	IsSuperuser bool      `gorm:"not null;default:false" json:"is_superuser"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	Profile     *Profile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	DateJoined  time.Time `gorm:"autoCreateTime;index" json:"date_joined"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Profile struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	PhoneNumber string `gorm:"size:20" json:"phone_number"`
	Address     string `gorm:"size:255" json:"address"`
	City        string `gorm:"size:100" json:"city"`
	State       string `gorm:"size:100" json:"state"`
	Zipcode     string `gorm:"size:20" json:"zipcode"`
	Gender      string `gorm:"size:10" json:"gender"`
}

// IsAdmin reports whether the account may use the management endpoints.
func (u *User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) DisplayName() string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Email
}
