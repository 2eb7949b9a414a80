package model

import (
	"time"
)

// PendingAccount is an identity that requested email verification but has
// not completed registration yet. The role is chosen at completion time,
// when the record is promoted into a User or Vendor row and removed.
type PendingAccount struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Token     string    `json:"-" gorm:"type:varchar(64);index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User represents a customer account
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"type:varchar(100);not null"`
	Email      string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password   string    `json:"-" gorm:"type:varchar(255);not null"`
	Street     string    `json:"street,omitempty" gorm:"type:varchar(200)"`
	City       string    `json:"city,omitempty" gorm:"type:varchar(100)"`
	Zip        string    `json:"zip,omitempty" gorm:"type:varchar(20)"`
	Phone      string    `json:"phone,omitempty" gorm:"type:varchar(20)"`
	IsVerified bool      `json:"is_verified" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Vendor represents a vendor account
type Vendor struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	BusinessName    string    `json:"business_name" gorm:"type:varchar(200);not null"`
	Email           string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password        string    `json:"-" gorm:"type:varchar(255);not null"`
	Location        string    `json:"location" gorm:"type:varchar(200)"`
	BusinessContact string    `json:"business_contact" gorm:"type:varchar(20)"`
	IsVerified      bool      `json:"is_verified" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Favorite is a customer's saved product
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index:idx_favorites_user_product,unique;not null"`
	ProductID uint      `json:"product_id" gorm:"index:idx_favorites_user_product,unique;not null"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Product   *Product  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}

// CartItem is one line of a customer's cart, referencing either a
// product or a mystery box via ItemType
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ItemType  string    `json:"item_type" gorm:"type:varchar(20);not null"` // product or mystery_box
	ItemID    uint      `json:"item_id" gorm:"not null"`
	Quantity  int       `json:"quantity" gorm:"default:1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
