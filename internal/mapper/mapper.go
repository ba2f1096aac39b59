// Package mapper turns storage records into response contracts. Every
// response is validated against its schema before it leaves the process, so
// a record that cannot satisfy the contract surfaces as an [IntegrityError]
// instead of reaching a client.
package mapper

import (
	"fmt"
	"strings"

	v "github.com/Gobd/apicontract"
	"github.com/Gobd/apicontract/internal/record"
	"github.com/Gobd/apicontract/internal/schemas"
	"github.com/Gobd/apicontract/internal/types"
	"github.com/shopspring/decimal"
)

// IntegrityError reports stored data that does not satisfy its response
// schema. It is a server fault and is never shown to clients in detail.
type IntegrityError struct {
	Entity     string
	ID         string
	Violations []v.Violation
}

func (e *IntegrityError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, vio := range e.Violations {
		msgs[i] = vio.String()
	}
	return fmt.Sprintf("%s %s violates its response schema: %s", e.Entity, e.ID, strings.Join(msgs, "; "))
}

// User validates rec as a UserResponse.
func User(rec record.User) v.Result {
	return v.Validate(schemas.UserResponse, userMap(rec))
}

// Variant validates rec as a ProductVariantResponse.
func Variant(rec record.Variant) v.Result {
	return v.Validate(schemas.ProductVariantResponse, variantMap(rec))
}

// Product validates rec, variants included, as a ProductResponse.
func Product(rec record.Product) v.Result {
	return v.Validate(schemas.ProductResponse, productMap(rec))
}

// Order validates rec, items included, as an OrderResponse.
func Order(rec record.Order) v.Result {
	return v.Validate(schemas.OrderResponse, orderMap(rec))
}

func UserResponse(rec record.User) (types.UserResponse, error) {
	return bind[types.UserResponse]("user", rec.ID, User(rec))
}

func ProductResponse(rec record.Product) (types.ProductResponse, error) {
	return bind[types.ProductResponse]("product", rec.ID, Product(rec))
}

func OrderResponse(rec record.Order) (types.OrderResponse, error) {
	return bind[types.OrderResponse]("order", rec.ID, Order(rec))
}

func bind[T any](entity, id string, res v.Result) (T, error) {
	if !res.OK() {
		var zero T
		return zero, &IntegrityError{Entity: entity, ID: id, Violations: res.Violations()}
	}
	out, err := v.Bind[T](res)
	if err != nil {
		return out, fmt.Errorf("map %s %s: %w", entity, id, err)
	}
	return out, nil
}

func money(d decimal.Decimal) float64 { return d.InexactFloat64() }

func userMap(rec record.User) map[string]any {
	return map[string]any{
		"id":        rec.ID,
		"email":     rec.Email,
		"name":      rec.Name,
		"createdAt": rec.CreatedAt,
		"updatedAt": rec.UpdatedAt,
	}
}

func variantMap(rec record.Variant) map[string]any {
	return map[string]any{
		"id":         rec.ID,
		"sku":        rec.SKU,
		"name":       rec.Name,
		"price":      money(rec.Price),
		"stock":      rec.Stock,
		"attributes": rec.Attributes,
	}
}

func productMap(rec record.Product) map[string]any {
	variants := make([]any, len(rec.Variants))
	for i, vr := range rec.Variants {
		variants[i] = variantMap(vr)
	}
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"id":          rec.ID,
		"name":        rec.Name,
		"description": rec.Description,
		"category":    rec.Category,
		"basePrice":   money(rec.BasePrice),
		"variants":    variants,
		"tags":        tags,
		"isActive":    rec.IsActive,
		"metadata":    rec.Metadata,
		"createdAt":   rec.CreatedAt,
		"updatedAt":   rec.UpdatedAt,
	}
}

func addressMap(a record.Address) map[string]any {
	return map[string]any{
		"street":     a.Street,
		"city":       a.City,
		"state":      a.State,
		"postalCode": a.PostalCode,
		"country":    a.Country,
	}
}

func orderMap(rec record.Order) map[string]any {
	items := make([]any, len(rec.Items))
	for i, it := range rec.Items {
		items[i] = map[string]any{
			"id":          it.ID,
			"productId":   it.ProductID,
			"productName": it.ProductName,
			"variantId":   it.VariantID,
			"variantName": it.VariantName,
			"quantity":    it.Quantity,
			"unitPrice":   money(it.UnitPrice),
			"totalPrice":  money(it.TotalPrice),
		}
	}
	var billing any
	if rec.BillingAddress != nil {
		billing = addressMap(*rec.BillingAddress)
	}
	return map[string]any{
		"id":              rec.ID,
		"orderNumber":     rec.OrderNumber,
		"status":          rec.Status,
		"items":           items,
		"shippingAddress": addressMap(rec.ShippingAddress),
		"billingAddress":  billing,
		"subtotal":        money(rec.Subtotal),
		"discount":        money(rec.Discount),
		"tax":             money(rec.Tax),
		"total":           money(rec.Total),
		"notes":           rec.Notes,
		"createdAt":       rec.CreatedAt,
		"updatedAt":       rec.UpdatedAt,
	}
}
