package model

import (
	"time"
)

// MysteryBox is a bundle of existing products sold as one
// contents-undisclosed offer. A box never exists without items;
// creation of the box and its items is a single transaction.
type MysteryBox struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	VendorID        uint       `json:"vendor_id" gorm:"index;not null"`
	Vendor          *Vendor    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Title           *string    `json:"title" gorm:"type:varchar(200)"`
	Price           float64    `json:"price" gorm:"not null"`
	Quantity        int        `json:"quantity" gorm:"default:0"`
	PickupStartTime *time.Time `json:"pickup_start_time,omitempty"`
	PickupEndTime   *time.Time `json:"pickup_end_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// MysteryBoxItem joins a box to one of its member products
type MysteryBoxItem struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	MysteryBoxID uint        `json:"mystery_box_id" gorm:"index;not null"`
	MysteryBox   *MysteryBox `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ProductID    uint        `json:"product_id" gorm:"index;not null"`
	Product      *Product    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Quantity     int         `json:"quantity" gorm:"default:1"`
	CreatedAt    time.Time   `json:"created_at"`
}
