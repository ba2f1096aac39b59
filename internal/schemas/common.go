package schemas

import (
	v "github.com/Gobd/apicontract"
)

// Upper bounds that keep client numbers inside the Go int range.
const (
	MaxPage     = 100_000
	MaxQuantity = 10_000
)

var (
	PaginationQuery = reg.Register("PaginationQuery", v.Object(
		v.Field("page", v.Integer(v.Positive, v.Max(MaxPage)).Coerce()).Default(1),
		v.Field("pageSize", v.Integer(v.Min(1), v.Max(100)).Coerce()).Default(20),
	))

	IDParam = reg.Register("IdParam", v.Object(
		v.Field("id", v.String(v.Message("Invalid ID format", v.UUID))),
	))

	SearchQuery = reg.Register("SearchQuery", v.Object(
		v.Field("q", v.String(v.Length(1, 100))).Optional(),
		v.Field("sortBy", v.String()).Optional(),
		v.Field("sortOrder", v.Enum("asc", "desc")).Default("asc"),
	))

	ErrorDetail = reg.Register("ErrorDetail", v.Object(
		v.Field("field", v.String()),
		v.Field("message", v.String()),
	))

	APIErrorResponse = reg.Register("ApiErrorResponse", v.Object(
		v.Field("statusCode", v.Number()),
		v.Field("message", v.String()),
		v.Field("error", v.String()).Optional(),
		v.Field("details", v.Array(ErrorDetail)).Optional(),
	))
)

// Paginated wraps item in the page envelope shared by every list endpoint.
func Paginated(item *v.Node) *v.Node {
	return v.Object(
		v.Field("items", v.Array(item)),
		v.Field("total", v.Number()),
		v.Field("page", v.Number()),
		v.Field("pageSize", v.Number()),
		v.Field("totalPages", v.Number()),
	)
}
