package model

import (
	"time"
)

// Product represents a vendor's listed item
type Product struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	VendorID        uint       `json:"vendor_id" gorm:"index;not null"`
	Vendor          *Vendor    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ImageURL        string     `json:"image_url,omitempty" gorm:"type:varchar(500)"`
	Name            string     `json:"name" gorm:"type:varchar(200);not null"`
	Description     string     `json:"description,omitempty" gorm:"type:text"`
	Category        string     `json:"category,omitempty" gorm:"type:varchar(100)"`
	Quantity        int        `json:"quantity" gorm:"default:0"`
	Price           float64    `json:"price" gorm:"not null"`
	Discount        float64    `json:"discount" gorm:"default:0"`
	IsPremium       bool       `json:"is_premium" gorm:"default:false"`
	PickupStartTime *time.Time `json:"pickup_start_time,omitempty"`
	PickupEndTime   *time.Time `json:"pickup_end_time,omitempty"`
	EnableToday     bool       `json:"enable_today" gorm:"default:false"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
