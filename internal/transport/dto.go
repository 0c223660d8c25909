package transport

import (
	"time"

	"github.com/pvolkov/cart_service/internal/models"
)

type AddItemRequest struct {
	UserID    uint `json:"user_id"`
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

// UpdateItemRequest carries the new absolute quantity. A nil Quantity means
// "keep as is": the line is re-saved but not changed.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity"`
}

// ProductSnapshot is the product view joined onto a cart line at read time.
// Price is in minor units and always reflects the current catalog price.
type ProductSnapshot struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
}

type CartEntry struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"user_id"`
	ProductID uint            `json:"product_id"`
	Quantity  uint            `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Product   ProductSnapshot `json:"product"`
}

type CartPayload struct {
	Items []CartEntry `json:"items"`
	Total int64       `json:"total"`
}

type AddItemResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    models.CartItem `json:"data"`
}

type CartResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    CartPayload `json:"data"`
}

type UpdateItemResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Data    CartEntry `json:"data"`
}

// StatusResponse is the envelope for outcomes without a payload: deletions,
// clear-cart and every failure.
type StatusResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    struct{} `json:"data"`
}

func OK(message string) StatusResponse {
	return StatusResponse{Success: true, Message: message}
}

func Fail(message string) StatusResponse {
	return StatusResponse{Success: false, Message: message}
}
