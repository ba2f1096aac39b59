package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Gobd/apicontract/internal/mapper"
	"github.com/Gobd/apicontract/internal/pricing"
	"github.com/Gobd/apicontract/internal/record"
	"github.com/Gobd/apicontract/internal/store"
	"github.com/Gobd/apicontract/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Products manages the catalog.
type Products struct {
	repo  store.Products
	clock Clock
}

func NewProducts(repo store.Products, clock Clock) *Products {
	return &Products{repo: repo, clock: clock}
}

func variants(productID string, in []types.ProductVariant) []record.Variant {
	out := make([]record.Variant, len(in))
	for i, vr := range in {
		out[i] = record.Variant{
			ID:         uuid.NewString(),
			ProductID:  productID,
			SKU:        vr.SKU,
			Name:       vr.Name,
			Price:      decimal.NewFromFloat(vr.Price),
			Stock:      vr.Stock,
			Attributes: vr.Attributes,
		}
	}
	return out
}

// metadata stores the typed metadata as a free-form document.
func metadata(m *types.ProductMetadata) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func description(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func (s *Products) Create(ctx context.Context, in types.CreateProductInput) (types.ProductResponse, error) {
	meta, err := metadata(in.Metadata)
	if err != nil {
		return types.ProductResponse{}, fmt.Errorf("create product: metadata: %w", err)
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	now := s.clock()
	rec := record.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: description(in.Description),
		Category:    string(in.Category),
		BasePrice:   decimal.NewFromFloat(in.BasePrice),
		Tags:        tags,
		IsActive:    in.IsActive,
		Metadata:    meta,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	rec.Variants = variants(rec.ID, in.Variants)
	if err := s.repo.Create(ctx, rec); err != nil {
		return types.ProductResponse{}, fmt.Errorf("create product: %w", err)
	}
	return mapper.ProductResponse(rec)
}

// List returns one page of products, newest first.
func (s *Products) List(ctx context.Context, q types.PaginationQuery) (types.Paginated[types.ProductResponse], error) {
	recs, total, err := s.repo.List(ctx, q.Offset(), q.PageSize)
	if err != nil {
		return types.Paginated[types.ProductResponse]{}, fmt.Errorf("list products: %w", err)
	}
	return page(recs, total, q, mapper.ProductResponse)
}

func (s *Products) Get(ctx context.Context, id string) (types.ProductResponse, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.ProductResponse{}, lookup(err, "Product", id)
	}
	return mapper.ProductResponse(rec)
}

// Update applies the fields present in in. Variants, when given, replace
// the existing ones and get new ids.
func (s *Products) Update(ctx context.Context, id string, in types.UpdateProductInput) (types.ProductResponse, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.ProductResponse{}, lookup(err, "Product", id)
	}
	if in.Name != nil {
		rec.Name = *in.Name
	}
	if in.Description != nil {
		rec.Description = description(in.Description)
	}
	if in.Category != nil {
		rec.Category = string(*in.Category)
	}
	if in.BasePrice != nil {
		rec.BasePrice = decimal.NewFromFloat(*in.BasePrice)
	}
	if in.Tags != nil {
		rec.Tags = in.Tags
	}
	if in.IsActive != nil {
		rec.IsActive = *in.IsActive
	}
	if in.Metadata != nil {
		if rec.Metadata, err = metadata(in.Metadata); err != nil {
			return types.ProductResponse{}, fmt.Errorf("update product: metadata: %w", err)
		}
	}
	if in.Variants != nil {
		rec.Variants = variants(rec.ID, in.Variants)
	}
	rec.UpdatedAt = s.clock()
	if err := s.repo.Update(ctx, rec); err != nil {
		return types.ProductResponse{}, lookup(err, "Product", id)
	}
	return mapper.ProductResponse(rec)
}

func (s *Products) Delete(ctx context.Context, id string) error {
	return lookup(s.repo.Delete(ctx, id), "Product", id)
}

// Catalog prices order lines from the stored products.
type Catalog struct {
	repo store.Products
}

func NewCatalog(repo store.Products) Catalog { return Catalog{repo: repo} }

func (c Catalog) Price(ctx context.Context, productID, variantID string) (pricing.Item, error) {
	p, err := c.repo.Get(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return pricing.Item{}, pricing.ErrUnknownItem
	}
	if err != nil {
		return pricing.Item{}, err
	}
	for _, vr := range p.Variants {
		if vr.ID == variantID {
			return pricing.Item{ProductName: p.Name, VariantName: vr.Name, UnitPrice: vr.Price}, nil
		}
	}
	return pricing.Item{}, pricing.ErrUnknownItem
}
