// Package openapi assembles OpenAPI 3 documents from [apicontract.Node]
// schemas. It also provides helpers for registering endpoints, writing the
// document to disk and serving Swagger UI.
//
// Use [DocBase] to create a base document, add the named schemas of a
// registry with [AddComponents], register endpoints with [Get], [Post],
// [Put], [Patch], or [Delete], and serve the Swagger UI with
// [SwaggerHandlerMust]:
//
//	doc := openapi.DocBase("my-api", "My API", "1.0")
//	openapi.AddComponents(doc, reg)
//	openapi.Post(doc, "/orders", "createOrder", openapi.Endpoint{
//	    Request:  reg.MustGet("CreateOrderInput"),
//	    Response: reg.MustGet("OrderResponse"),
//	})
//	http.Handle("/api/", openapi.SwaggerHandlerMust("/api", doc))
package openapi
