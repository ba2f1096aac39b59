package types

import "time"

type OrderStatus string

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type OrderItemInput struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderInput struct {
	Items           []OrderItemInput `json:"items"`
	ShippingAddress Address          `json:"shippingAddress"`
	BillingAddress  *Address         `json:"billingAddress,omitempty"`
	UseSameAddress  bool             `json:"useSameAddress"`
	Notes           *string          `json:"notes,omitempty"`
	CouponCode      *string          `json:"couponCode,omitempty"`
}

type OrderItemResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	VariantID   string  `json:"variantId"`
	VariantName string  `json:"variantName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	Status          OrderStatus         `json:"status"`
	Items           []OrderItemResponse `json:"items"`
	ShippingAddress Address             `json:"shippingAddress"`
	BillingAddress  *Address            `json:"billingAddress"`
	Subtotal        float64             `json:"subtotal"`
	Discount        float64             `json:"discount"`
	Tax             float64             `json:"tax"`
	Total           float64             `json:"total"`
	Notes           *string             `json:"notes"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type UpdateOrderStatusInput struct {
	Status OrderStatus `json:"status"`
	Notes  *string     `json:"notes,omitempty"`
}
