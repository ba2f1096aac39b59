// Package record holds the storage-level shape of users, products and
// orders. Records carry what the database carries: decimal money, nullable
// columns as pointers and the password hash. They are never sent to clients
// directly; see package mapper.
package record

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Variant struct {
	ID         string
	ProductID  string
	SKU        string
	Name       string
	Price      decimal.Decimal
	Stock      int
	Attributes map[string]string
}

type Product struct {
	ID          string
	Name        string
	Description *string
	Category    string
	BasePrice   decimal.Decimal
	Variants    []Variant
	Tags        []string
	IsActive    bool
	Metadata    map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Address is stored as a JSON document.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type OrderItem struct {
	ID          string
	ProductID   string
	ProductName string
	VariantID   string
	VariantName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

type Order struct {
	ID              string
	OrderNumber     string
	Status          string
	Items           []OrderItem
	ShippingAddress Address
	BillingAddress  *Address
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
