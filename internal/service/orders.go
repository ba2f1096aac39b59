package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Gobd/apicontract/internal/mapper"
	"github.com/Gobd/apicontract/internal/pricing"
	"github.com/Gobd/apicontract/internal/record"
	"github.com/Gobd/apicontract/internal/schemas"
	"github.com/Gobd/apicontract/internal/store"
	"github.com/Gobd/apicontract/internal/types"
	"github.com/google/uuid"
)

// notesSeparator joins notes appended by successive status updates.
const notesSeparator = "\n---\n"

const orderNumberAttempts = 3

// Orders places orders and tracks their status.
type Orders struct {
	repo   store.Orders
	policy pricing.Policy
	clock  Clock
}

func NewOrders(repo store.Orders, policy pricing.Policy, clock Clock) *Orders {
	return &Orders{repo: repo, policy: policy, clock: clock}
}

// orderNumber is ORD-<unix millis in base 36>-<6 random characters>, upper
// case.
func (s *Orders) orderNumber() string {
	millis := strconv.FormatInt(s.clock().UnixMilli(), 36)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return strings.ToUpper("ORD-" + millis + "-" + suffix)
}

func toRecordAddress(a types.Address) record.Address {
	return record.Address(a)
}

// Create prices the items against the catalog and stores a pending order.
// The billing address is dropped when the shipping address is reused.
func (s *Orders) Create(ctx context.Context, in types.CreateOrderInput) (types.OrderResponse, error) {
	lines := make([]pricing.Line, len(in.Items))
	for i, it := range in.Items {
		lines[i] = pricing.Line{ProductID: it.ProductID, VariantID: it.VariantID, Quantity: it.Quantity}
	}
	var coupon string
	if in.CouponCode != nil {
		coupon = *in.CouponCode
	}
	quote, err := s.policy.Quote(ctx, lines, coupon)
	if errors.Is(err, pricing.ErrUnknownItem) {
		return types.OrderResponse{}, &Error{Kind: ErrNotFound, Message: "Order references an unknown product or variant"}
	}
	if err != nil {
		return types.OrderResponse{}, fmt.Errorf("create order: %w", err)
	}

	now := s.clock()
	rec := record.Order{
		ID:              uuid.NewString(),
		Status:          schemas.StatusPending,
		ShippingAddress: toRecordAddress(in.ShippingAddress),
		Subtotal:        quote.Subtotal,
		Discount:        quote.Discount,
		Tax:             quote.Tax,
		Total:           quote.Total,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if !in.UseSameAddress && in.BillingAddress != nil {
		b := toRecordAddress(*in.BillingAddress)
		rec.BillingAddress = &b
	}
	if in.Notes != nil && *in.Notes != "" {
		rec.Notes = in.Notes
	}
	rec.Items = make([]record.OrderItem, len(quote.Lines))
	for i, l := range quote.Lines {
		rec.Items[i] = record.OrderItem{
			ID:          uuid.NewString(),
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			VariantID:   l.VariantID,
			VariantName: l.VariantName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TotalPrice:  l.Total,
		}
	}

	for attempt := 1; ; attempt++ {
		rec.OrderNumber = s.orderNumber()
		err = s.repo.Create(ctx, rec)
		if !errors.Is(err, store.ErrDuplicate) || attempt == orderNumberAttempts {
			break
		}
	}
	if err != nil {
		return types.OrderResponse{}, fmt.Errorf("create order: %w", err)
	}
	return mapper.OrderResponse(rec)
}

// List returns one page of orders, newest first.
func (s *Orders) List(ctx context.Context, q types.PaginationQuery) (types.Paginated[types.OrderResponse], error) {
	recs, total, err := s.repo.List(ctx, q.Offset(), q.PageSize)
	if err != nil {
		return types.Paginated[types.OrderResponse]{}, fmt.Errorf("list orders: %w", err)
	}
	return page(recs, total, q, mapper.OrderResponse)
}

func (s *Orders) Get(ctx context.Context, id string) (types.OrderResponse, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.OrderResponse{}, lookup(err, "Order", id)
	}
	return mapper.OrderResponse(rec)
}

// UpdateStatus sets the status and appends in.Notes to the existing notes.
func (s *Orders) UpdateStatus(ctx context.Context, id string, in types.UpdateOrderStatusInput) (types.OrderResponse, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.OrderResponse{}, lookup(err, "Order", id)
	}
	rec.Status = string(in.Status)
	if in.Notes != nil && *in.Notes != "" {
		notes := *in.Notes
		if rec.Notes != nil && *rec.Notes != "" {
			notes = *rec.Notes + notesSeparator + notes
		}
		rec.Notes = &notes
	}
	rec.UpdatedAt = s.clock()
	if err := s.repo.UpdateStatus(ctx, rec); err != nil {
		return types.OrderResponse{}, lookup(err, "Order", id)
	}
	return mapper.OrderResponse(rec)
}
