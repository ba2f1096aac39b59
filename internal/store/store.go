// Package store persists users, products and orders. Two backends share
// the repository interfaces: an in-memory one for tests and demos and a
// SQLite one built on the pure Go modernc driver.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gobd/apicontract/internal/record"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique column already holds the value.
	ErrDuplicate = errors.New("duplicate")
)

// Users stores user accounts. Emails are unique.
type Users interface {
	Create(ctx context.Context, u record.User) error
	Get(ctx context.Context, id string) (record.User, error)
	GetByEmail(ctx context.Context, email string) (record.User, error)
	// List returns one page, newest first, and the total count.
	List(ctx context.Context, offset, limit int) ([]record.User, int, error)
	Update(ctx context.Context, u record.User) error
	Delete(ctx context.Context, id string) error
}

// Products stores products together with their variants. Update replaces
// every variant of the product.
type Products interface {
	Create(ctx context.Context, p record.Product) error
	Get(ctx context.Context, id string) (record.Product, error)
	List(ctx context.Context, offset, limit int) ([]record.Product, int, error)
	Update(ctx context.Context, p record.Product) error
	Delete(ctx context.Context, id string) error
}

// Orders stores orders with their items. Order numbers are unique and
// items are immutable once written.
type Orders interface {
	Create(ctx context.Context, o record.Order) error
	Get(ctx context.Context, id string) (record.Order, error)
	List(ctx context.Context, offset, limit int) ([]record.Order, int, error)
	// UpdateStatus writes status, notes and updatedAt of an existing order.
	UpdateStatus(ctx context.Context, o record.Order) error
}

// Store bundles the repositories of one backend.
type Store interface {
	Users() Users
	Products() Products
	Orders() Orders
	Close() error
}

// Open returns the backend named by driver: "memory" or "sqlite".
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		return OpenSQLite(ctx, dsn)
	}
	return nil, fmt.Errorf("open store: unknown driver %q", driver)
}

// page clamps offset and limit to n items.
func page(n, offset, limit int) (lo, hi int) {
	lo = min(max(offset, 0), n)
	hi = n
	if limit > 0 {
		hi = min(lo+limit, n)
	}
	return lo, hi
}
