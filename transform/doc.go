// Package transform normalizes strings inside untyped JSON values before
// they are validated, for example trimming whitespace from every field or
// lower-casing an email address.
package transform
