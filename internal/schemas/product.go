package schemas

import (
	v "github.com/Gobd/apicontract"
)

// Product categories.
const (
	CategoryElectronics = "electronics"
	CategoryClothing    = "clothing"
	CategoryBooks       = "books"
	CategoryHome        = "home"
	CategorySports      = "sports"
	CategoryOther       = "other"
)

var (
	ProductCategory = reg.Register("ProductCategory", v.Enum(
		CategoryElectronics, CategoryClothing, CategoryBooks, CategoryHome, CategorySports, CategoryOther,
	))

	ProductVariant = reg.Register("ProductVariant", v.Object(
		v.Field("sku", v.String(v.Message("SKU is required", v.MinLength(1)))),
		v.Field("name", v.String(v.Message("Variant name is required", v.MinLength(1)))),
		v.Field("price", v.Number(v.Message("Price must be positive", v.Positive))),
		v.Field("stock", v.Integer(v.Message("Stock cannot be negative", v.Min(0)))),
		v.Field("attributes", v.Record(v.String())).Optional(),
	))

	dimensions = v.Object(
		v.Field("length", v.Number(v.Positive)),
		v.Field("width", v.Number(v.Positive)),
		v.Field("height", v.Number(v.Positive)),
	)

	productMetadata = v.Object(
		v.Field("brand", v.String()).Optional(),
		v.Field("manufacturer", v.String()).Optional(),
		v.Field("weight", v.Number(v.Positive)).Optional(),
		v.Field("dimensions", dimensions).Optional(),
	)

	CreateProductInput = reg.Register("CreateProductInput", v.Object(
		v.Field("name", v.String(
			v.Message("Name must be at least 2 characters", v.MinLength(2)),
			v.MaxLength(200),
		)),
		v.Field("description", v.String(v.MaxLength(2000))).Optional(),
		v.Field("category", ProductCategory),
		v.Field("basePrice", v.Number(v.Message("Price must be positive", v.Positive))),
		v.Field("variants", v.Array(ProductVariant,
			v.Message("At least one variant is required", v.MinItems(1)),
			v.Message("Maximum 50 variants allowed", v.MaxItems(50)),
			v.UniqueBy("sku"),
		)),
		v.Field("tags", v.Array(v.String(), v.MaxItems(20))).Optional(),
		v.Field("isActive", v.Boolean()).Default(true),
		v.Field("metadata", productMetadata).Optional(),
	))

	UpdateProductInput = reg.Register("UpdateProductInput", v.Partial(CreateProductInput))

	ProductVariantResponse = reg.Register("ProductVariantResponse", v.Object(
		v.Field("id", v.String(v.UUID)),
		v.Field("sku", v.String()),
		v.Field("name", v.String()),
		v.Field("price", v.Number()),
		v.Field("stock", v.Number()),
		v.Field("attributes", v.Record(v.String()).Nullable()).Optional(),
	))

	ProductResponse = reg.Register("ProductResponse", v.Object(
		v.Field("id", v.String(v.UUID)),
		v.Field("name", v.String()),
		v.Field("description", v.String().Nullable()),
		v.Field("category", ProductCategory),
		v.Field("basePrice", v.Number()),
		v.Field("variants", v.Array(ProductVariantResponse)),
		v.Field("tags", v.Array(v.String())),
		v.Field("isActive", v.Boolean()),
		v.Field("metadata", v.Record(v.Any()).Nullable()),
		v.Field("createdAt", v.Date()),
		v.Field("updatedAt", v.Date()),
	))

	PaginatedProducts = reg.Register("PaginatedProducts", Paginated(ProductResponse))
)
