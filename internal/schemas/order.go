package schemas

import (
	v "github.com/Gobd/apicontract"
)

// Order statuses.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

var (
	OrderStatus = reg.Register("OrderStatus", v.Enum(
		StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled,
	))

	Address = reg.Register("Address", v.Object(
		v.Field("street", v.String(v.Message("Street is required", v.MinLength(1)))),
		v.Field("city", v.String(v.Message("City is required", v.MinLength(1)))),
		v.Field("state", v.String(v.Message("State is required", v.MinLength(1)))),
		v.Field("postalCode", v.String(v.Message("Postal code is required", v.MinLength(1)))),
		v.Field("country", v.String(v.MinLength(2), v.Message("Use 2-letter country code", v.MaxLength(2)))),
	))

	OrderItemInput = reg.Register("OrderItemInput", v.Object(
		v.Field("productId", v.String(v.Message("Invalid product ID", v.UUID))),
		v.Field("variantId", v.String(v.Message("Invalid variant ID", v.UUID))),
		v.Field("quantity", v.Integer(v.Message("Quantity must be at least 1", v.Positive), v.Max(MaxQuantity))),
	))

	CreateOrderInput = reg.Register("CreateOrderInput", v.Object(
		v.Field("items", v.Array(OrderItemInput, v.Message("Order must have at least one item", v.MinItems(1)))),
		v.Field("shippingAddress", Address),
		v.Field("billingAddress", Address).Optional(),
		v.Field("useSameAddress", v.Boolean()).Default(true),
		v.Field("notes", v.String(v.MaxLength(500), v.NonCardNumber())).Optional(),
		v.Field("couponCode", v.String()).Optional(),
	))

	OrderItemResponse = reg.Register("OrderItemResponse", v.Object(
		v.Field("id", v.String(v.UUID)),
		v.Field("productId", v.String(v.UUID)),
		v.Field("productName", v.String()),
		v.Field("variantId", v.String(v.UUID)),
		v.Field("variantName", v.String()),
		v.Field("quantity", v.Number()),
		v.Field("unitPrice", v.Number()),
		v.Field("totalPrice", v.Number()),
	))

	OrderResponse = reg.Register("OrderResponse", v.Object(
		v.Field("id", v.String(v.UUID)),
		v.Field("orderNumber", v.String()),
		v.Field("status", OrderStatus),
		v.Field("items", v.Array(OrderItemResponse)),
		v.Field("shippingAddress", Address),
		v.Field("billingAddress", Address.Nullable()),
		v.Field("subtotal", v.Number()),
		v.Field("discount", v.Number()),
		v.Field("tax", v.Number()),
		v.Field("total", v.Number()),
		v.Field("notes", v.String().Nullable()),
		v.Field("createdAt", v.Date()),
		v.Field("updatedAt", v.Date()),
	))

	UpdateOrderStatusInput = reg.Register("UpdateOrderStatusInput", v.Object(
		v.Field("status", OrderStatus),
		v.Field("notes", v.String(v.MaxLength(500), v.NonCardNumber())).Optional(),
	))

	PaginatedOrders = reg.Register("PaginatedOrders", Paginated(OrderResponse))
)
