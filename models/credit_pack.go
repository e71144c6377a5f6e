package models

import (
	"time"

	"gorm.io/gorm"
)

// CreditPack is a purchasable bundle of credits shown on the pricing page
type CreditPack struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `json:"name" gorm:"not null"`
	Credits     int64          `json:"credits" gorm:"not null"`
	PricePaise  int64          `json:"price_paise" gorm:"not null"`
	Description string         `json:"description"`
	BgColor     string         `json:"bg_color" gorm:"default:'bg-gradient-to-r from-gray-400 to-gray-600'"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
