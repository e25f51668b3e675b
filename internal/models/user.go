package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"type:varchar(255);not null;default:''" json:"name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser  bool      `gorm:"not null;default:false" json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Recipes     []Recipe     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Tags        []Tag        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Ingredients []Ingredient `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
