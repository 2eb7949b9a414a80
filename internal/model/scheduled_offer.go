package model

import (
	"time"
)

// Discount types for scheduled offers. Exactly one of NewPrice or
// DiscountPercentage is meaningful, selected by DiscountType.
const (
	DiscountTypeFixedPrice = "fixed_price"
	DiscountTypePercentage = "percentage"
)

// ScheduledOffer is a time-boxed discount on one of the vendor's own
// products. OfferDate is YYYY-MM-DD and the times are HH:MM, stored as
// strings so ordering and comparison behave the same on every driver.
type ScheduledOffer struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	VendorID           uint      `json:"vendor_id" gorm:"index;not null"`
	Vendor             *Vendor   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ProductID          uint      `json:"product_id" gorm:"index;not null"`
	Product            *Product  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	OfferDate          string    `json:"offer_date" gorm:"type:varchar(10);not null"`
	OfferStartTime     string    `json:"offer_start_time" gorm:"type:varchar(5);not null"`
	OfferEndTime       string    `json:"offer_end_time" gorm:"type:varchar(5);not null"`
	DiscountEnabled    bool      `json:"discount_enabled" gorm:"default:true"`
	DiscountType       string    `json:"discount_type" gorm:"type:varchar(20);default:fixed_price"`
	NewPrice           *float64  `json:"new_price,omitempty"`
	DiscountPercentage *float64  `json:"discount_percentage,omitempty"`
	IsRecurring        bool      `json:"is_recurring" gorm:"default:false"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
