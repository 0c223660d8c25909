package models

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type Product struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null"                 json:"name"`
	Description string `json:"description"`
	Price       int64  `gorm:"not null"                 json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Count       uint   `json:"count"`
}

// CartItem is one line of a user's cart. The (user_id, product_id) pair is
// unique: adding the same product again increments the existing line.
type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                   json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Quantity  uint      `gorm:"not null;default:1;check:quantity>0"        json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID"    json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}
