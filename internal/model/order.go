package model

import (
	"time"
)

// Order status values. Any of the three may be written by the vendor;
// no forward-only transition graph is enforced.
const (
	OrderStatusInProgress = "in_progress"
	OrderStatusReady      = "ready"
	OrderStatusCompleted  = "completed"
)

// Order type discriminator
const (
	OrderTypeProduct    = "product"
	OrderTypeMysteryBox = "mystery_box"
)

// Order is a purchase of a product or a mystery box from one vendor
type Order struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	VendorID        uint        `json:"vendor_id" gorm:"index;not null"`
	Vendor          *Vendor     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	UserID          *uint       `json:"user_id,omitempty" gorm:"index"`
	User            *User       `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	MysteryBoxID    *uint       `json:"mystery_box_id,omitempty"`
	MysteryBox      *MysteryBox `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	ProductID       *uint       `json:"product_id,omitempty"`
	Product         *Product    `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	OrderType       string      `json:"order_type" gorm:"type:varchar(20);not null"`
	Price           float64     `json:"price" gorm:"not null"`
	Description     string      `json:"description,omitempty" gorm:"type:text"`
	PickupStartTime *time.Time  `json:"pickup_start_time,omitempty"`
	PickupEndTime   *time.Time  `json:"pickup_end_time,omitempty"`
	Status          string      `json:"status" gorm:"type:varchar(20);default:in_progress"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
