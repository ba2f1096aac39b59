package types

import "time"

type ProductCategory string

type ProductVariant struct {
	SKU        string            `json:"sku"`
	Name       string            `json:"name"`
	Price      float64           `json:"price"`
	Stock      int               `json:"stock"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ProductMetadata struct {
	Brand        *string     `json:"brand,omitempty"`
	Manufacturer *string     `json:"manufacturer,omitempty"`
	Weight       *float64    `json:"weight,omitempty"`
	Dimensions   *Dimensions `json:"dimensions,omitempty"`
}

type CreateProductInput struct {
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Category    ProductCategory  `json:"category"`
	BasePrice   float64          `json:"basePrice"`
	Variants    []ProductVariant `json:"variants"`
	Tags        []string         `json:"tags,omitempty"`
	IsActive    bool             `json:"isActive"`
	Metadata    *ProductMetadata `json:"metadata,omitempty"`
}

// UpdateProductInput carries only the fields present in the request. A
// non-nil Variants replaces every variant of the product.
type UpdateProductInput struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *ProductCategory `json:"category,omitempty"`
	BasePrice   *float64         `json:"basePrice,omitempty"`
	Variants    []ProductVariant `json:"variants,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	IsActive    *bool            `json:"isActive,omitempty"`
	Metadata    *ProductMetadata `json:"metadata,omitempty"`
}

type ProductVariantResponse struct {
	ID         string            `json:"id"`
	SKU        string            `json:"sku"`
	Name       string            `json:"name"`
	Price      float64           `json:"price"`
	Stock      int               `json:"stock"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type ProductResponse struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description *string                  `json:"description"`
	Category    ProductCategory          `json:"category"`
	BasePrice   float64                  `json:"basePrice"`
	Variants    []ProductVariantResponse `json:"variants"`
	Tags        []string                 `json:"tags"`
	IsActive    bool                     `json:"isActive"`
	Metadata    map[string]any           `json:"metadata"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}
