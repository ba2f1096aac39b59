// Package types holds the static Go projection of every schema in the
// catalog. The structs are hand-maintained; a drift test compares each one
// with its schema, and `shopd gen-types` prints a starting point for new ones.
package types
