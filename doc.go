// Package apicontract describes request and response shapes once and derives
// validation, documentation and OpenAPI schemas from that single description.
//
// Build a schema from nodes and rules:
//
//	var CreateUser = apicontract.Object(
//	    apicontract.Field("email", apicontract.String(apicontract.Email)),
//	    apicontract.Field("name", apicontract.String(apicontract.Length(2, 100))),
//	    apicontract.Field("admin", apicontract.Boolean()).Default(false),
//	)
//
// Then validate untyped input with a single call:
//
//	res := apicontract.Validate(CreateUser, input)
//	if !res.OK() {
//	    return res.Err()
//	}
//	user, err := apicontract.Bind[CreateUserInput](res)
//
// Every rule both validates a value and describes itself into an OpenAPI
// schema, so [ContractOf] and [NewSchemaRefForNode] never drift from what
// [Validate] enforces.
//
// Sub-packages:
//   - openapi – OpenAPI document assembly, Swagger UI serving, and endpoint helpers
//   - transform – string transformation over untyped values
package apicontract
