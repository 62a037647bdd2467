package client

import (
	"encoding/json"
	"time"
)

const (
	UserAdmin  = "ADMIN"
	UserClient = "CLIENT"
)

const (
	OrderPending   = "PENDING"
	OrderConfirmed = "CONFIRMED"
	OrderDelivered = "DELIVERED"
	OrderCanceled  = "CANCELED"
)

const (
	PaymentCash   = "CASH"
	PaymentDebit  = "DEBIT_CARD"
	PaymentCredit = "CREDIT_CARD"
	PaymentPix    = "PIX"
)

type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Type      string    `json:"type"`
	Addresses []Address `json:"addresses,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Address struct {
	ID        uint      `json:"id"`
	Street    string    `json:"street"`
	Number    string    `json:"number"`
	District  string    `json:"district"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zipCode"`
	UserID    uint      `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Category struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Item struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice"`
	ImageURL    string  `json:"imageUrl"`
	CategoryID  uint    `json:"categoryId"`
	Available   bool    `json:"available"`
}

type Order struct {
	ID              uint        `json:"id"`
	ClientID        uint        `json:"clientId"`
	Client          *User       `json:"client,omitempty"`
	CreatedByUserID uint        `json:"createdByUserId"`
	AddressID       uint        `json:"addressId"`
	PaymentMethod   string      `json:"paymentMethod"`
	Status          string      `json:"status"`
	Items           []OrderLine `json:"items"`
	TotalAmount     float64     `json:"totalAmount"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

type OrderLine struct {
	ID        uint    `json:"id"`
	OrderID   uint    `json:"orderId"`
	ItemID    uint    `json:"itemId"`
	Item      *Item   `json:"item,omitempty"`
	Quantity  uint    `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

type Notification struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"userId"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	Read      bool            `json:"read"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// PageMeta is the meta block of paginated list responses.
type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}
