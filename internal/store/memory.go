package store

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/Gobd/apicontract/internal/record"
)

// Memory keeps every record in maps guarded by one RWMutex. Records are
// copied on the way in and out so callers never share state with the store.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]record.User
	products map[string]record.Product
	orders   map[string]record.Order
}

func NewMemory() *Memory {
	return &Memory{
		users:    map[string]record.User{},
		products: map[string]record.Product{},
		orders:   map[string]record.Order{},
	}
}

func (m *Memory) Users() Users       { return memUsers{m} }
func (m *Memory) Products() Products { return memProducts{m} }
func (m *Memory) Orders() Orders     { return memOrders{m} }
func (m *Memory) Close() error       { return nil }

// newest sorts by creation time, newest first, with id as tie breaker.
func newest[T any](items []T, created func(T) int64, id func(T) string) {
	slices.SortFunc(items, func(a, b T) int {
		if ca, cb := created(a), created(b); ca != cb {
			if ca > cb {
				return -1
			}
			return 1
		}
		if id(a) < id(b) {
			return -1
		}
		if id(a) > id(b) {
			return 1
		}
		return 0
	})
}

type memUsers struct{ m *Memory }

func (s memUsers) Create(_ context.Context, u record.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[u.ID]; ok {
		return ErrDuplicate
	}
	if s.emailTaken(u.Email, "") {
		return ErrDuplicate
	}
	s.m.users[u.ID] = u
	return nil
}

func (s memUsers) emailTaken(email, except string) bool {
	for id, u := range s.m.users {
		if u.Email == email && id != except {
			return true
		}
	}
	return false
}

func (s memUsers) Get(_ context.Context, id string) (record.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	u, ok := s.m.users[id]
	if !ok {
		return record.User{}, ErrNotFound
	}
	return u, nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (record.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	for _, u := range s.m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return record.User{}, ErrNotFound
}

func (s memUsers) List(_ context.Context, offset, limit int) ([]record.User, int, error) {
	s.m.mu.RLock()
	all := slices.Collect(maps.Values(s.m.users))
	s.m.mu.RUnlock()

	newest(all, func(u record.User) int64 { return u.CreatedAt.UnixNano() }, func(u record.User) string { return u.ID })
	lo, hi := page(len(all), offset, limit)
	return all[lo:hi], len(all), nil
}

func (s memUsers) Update(_ context.Context, u record.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[u.ID]; !ok {
		return ErrNotFound
	}
	if s.emailTaken(u.Email, u.ID) {
		return ErrDuplicate
	}
	s.m.users[u.ID] = u
	return nil
}

func (s memUsers) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.users, id)
	return nil
}

type memProducts struct{ m *Memory }

func copyProduct(p record.Product) record.Product {
	p.Variants = slices.Clone(p.Variants)
	for i := range p.Variants {
		p.Variants[i].Attributes = maps.Clone(p.Variants[i].Attributes)
	}
	p.Tags = slices.Clone(p.Tags)
	p.Metadata = maps.Clone(p.Metadata)
	return p
}

func (s memProducts) Create(_ context.Context, p record.Product) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.products[p.ID]; ok {
		return ErrDuplicate
	}
	s.m.products[p.ID] = copyProduct(p)
	return nil
}

func (s memProducts) Get(_ context.Context, id string) (record.Product, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	p, ok := s.m.products[id]
	if !ok {
		return record.Product{}, ErrNotFound
	}
	return copyProduct(p), nil
}

func (s memProducts) List(_ context.Context, offset, limit int) ([]record.Product, int, error) {
	s.m.mu.RLock()
	all := make([]record.Product, 0, len(s.m.products))
	for _, p := range s.m.products {
		all = append(all, copyProduct(p))
	}
	s.m.mu.RUnlock()

	newest(all, func(p record.Product) int64 { return p.CreatedAt.UnixNano() }, func(p record.Product) string { return p.ID })
	lo, hi := page(len(all), offset, limit)
	return all[lo:hi], len(all), nil
}

func (s memProducts) Update(_ context.Context, p record.Product) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.products[p.ID]; !ok {
		return ErrNotFound
	}
	s.m.products[p.ID] = copyProduct(p)
	return nil
}

func (s memProducts) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.products, id)
	return nil
}

type memOrders struct{ m *Memory }

func copyOrder(o record.Order) record.Order {
	o.Items = slices.Clone(o.Items)
	if o.BillingAddress != nil {
		b := *o.BillingAddress
		o.BillingAddress = &b
	}
	if o.Notes != nil {
		n := *o.Notes
		o.Notes = &n
	}
	return o
}

func (s memOrders) Create(_ context.Context, o record.Order) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.orders[o.ID]; ok {
		return ErrDuplicate
	}
	for _, existing := range s.m.orders {
		if existing.OrderNumber == o.OrderNumber {
			return ErrDuplicate
		}
	}
	s.m.orders[o.ID] = copyOrder(o)
	return nil
}

func (s memOrders) Get(_ context.Context, id string) (record.Order, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	o, ok := s.m.orders[id]
	if !ok {
		return record.Order{}, ErrNotFound
	}
	return copyOrder(o), nil
}

func (s memOrders) List(_ context.Context, offset, limit int) ([]record.Order, int, error) {
	s.m.mu.RLock()
	all := make([]record.Order, 0, len(s.m.orders))
	for _, o := range s.m.orders {
		all = append(all, copyOrder(o))
	}
	s.m.mu.RUnlock()

	newest(all, func(o record.Order) int64 { return o.CreatedAt.UnixNano() }, func(o record.Order) string { return o.ID })
	lo, hi := page(len(all), offset, limit)
	return all[lo:hi], len(all), nil
}

func (s memOrders) UpdateStatus(_ context.Context, o record.Order) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	cur, ok := s.m.orders[o.ID]
	if !ok {
		return ErrNotFound
	}
	cur.Status = o.Status
	cur.Notes = o.Notes
	cur.UpdatedAt = o.UpdatedAt
	s.m.orders[o.ID] = copyOrder(cur)
	return nil
}
