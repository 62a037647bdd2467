package models

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

// StatusTransitions lists the states an order may move to from its
// current one. DELIVERED and CANCELED are terminal.
var StatusTransitions = map[string][]string{
	OrderPending:   {OrderConfirmed, OrderCanceled},
	OrderConfirmed: {OrderDelivered, OrderCanceled},
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name         string    `gorm:"not null"                   json:"name"`
	Email        string    `gorm:"unique;not null"            json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `gorm:"not null"                   json:"-"`
	Type         string    `gorm:"not null;default:CLIENT"    json:"type"`
	Addresses    []Address `gorm:"foreignKey:UserID"          json:"addresses,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Address struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Street    string    `gorm:"not null"                 json:"street"`
	Number    string    `gorm:"not null"                 json:"number"`
	District  string    `gorm:"not null"                 json:"district"`
	City      string    `gorm:"not null"                 json:"city"`
	State     string    `gorm:"not null"                 json:"state"`
	ZipCode   string    `gorm:"not null"                 json:"zipCode"`
	UserID    uint      `gorm:"index;not null"           json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"unique;not null"          json:"name"`
	Description string `json:"description"`
}

type Item struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Description string  `json:"description"`
	UnitPrice   float64 `gorm:"not null"                 json:"unitPrice"`
	ImageURL    string  `json:"imageUrl"`
	CategoryID  uint    `gorm:"index;not null"           json:"categoryId"`
	Available   bool    `gorm:"default:true"             json:"available"`
}

type Order struct {
	ID              uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID        uint        `gorm:"index;not null"           json:"clientId"`
	Client          *User       `gorm:"foreignKey:ClientID"      json:"client,omitempty"`
	CreatedByUserID uint        `gorm:"not null"                 json:"createdByUserId"`
	AddressID       uint        `gorm:"not null"                 json:"addressId"`
	PaymentMethod   string      `gorm:"not null"                 json:"paymentMethod"`
	Status          string      `gorm:"not null;default:PENDING" json:"status"`
	Items           []OrderItem `gorm:"foreignKey:OrderID"       json:"items"`
	TotalAmount     float64     `gorm:"not null"                 json:"totalAmount"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// OrderItem is a line frozen at order-creation time: later catalog price
// changes never touch it.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint    `gorm:"index;not null"           json:"orderId"`
	ItemID    uint    `gorm:"not null"                 json:"itemId"`
	Item      *Item   `gorm:"foreignKey:ItemID"        json:"item,omitempty"`
	Quantity  uint    `gorm:"not null"                 json:"quantity"`
	UnitPrice float64 `gorm:"not null"                 json:"unitPrice"`
	Subtotal  float64 `gorm:"not null"                 json:"subtotal"`
}

type Notification struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint            `gorm:"index;not null"           json:"userId"`
	Title     string          `gorm:"not null"                 json:"title"`
	Body      string          `json:"body"`
	Read      bool            `gorm:"default:false"            json:"read"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}
