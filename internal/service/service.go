// Package service implements the user, product and order use cases on top
// of the repositories. Inputs arrive already validated and bound to their
// static types; outputs leave through package mapper, so every response is
// checked against its contract.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Gobd/apicontract/internal/store"
	"github.com/Gobd/apicontract/internal/types"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a classified failure whose message is safe to show a client.
// Kind is one of ErrNotFound, ErrConflict or ErrUnauthorized.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func notFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }

// lookup turns a repository miss into a client facing not found error.
func lookup(err error, entity, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound("%s with ID %s not found", entity, id)
	}
	return err
}

// page maps every record of a listing and wraps it in the page envelope.
func page[R, T any](recs []R, total int, q types.PaginationQuery, toResponse func(R) (T, error)) (types.Paginated[T], error) {
	items := make([]T, 0, len(recs))
	for _, r := range recs {
		item, err := toResponse(r)
		if err != nil {
			return types.Paginated[T]{}, err
		}
		items = append(items, item)
	}
	return types.NewPaginated(items, total, q), nil
}

