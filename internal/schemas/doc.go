// Package schemas is the shop's schema catalog: every request and response
// shape of the users, products and orders API, registered under the names
// used in OpenAPI components and contracts.
package schemas
