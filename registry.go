package apicontract

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrUndefinedSchema is returned by [Registry.Get] for unknown names.
var ErrUndefinedSchema = errors.New("undefined schema")

// Registry holds named schemas. It is filled once at start-up and then
// sealed; a sealed registry is safe for concurrent reads.
type Registry struct {
	mu     sync.RWMutex
	sealed bool
	names  []string
	nodes  map[string]*Node
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{nodes: map[string]*Node{}}
}

// Register stores a copy of n under name and returns that copy, which
// carries the name into contracts and OpenAPI component references.
// Registering a duplicate name or registering after Seal panics.
func (r *Registry) Register(name string, n *Node) *Node {
	if name == "" || n == nil {
		panic("apicontract: Register needs a name and a schema")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		panic("apicontract: Register " + name + " on sealed registry")
	}
	if _, dup := r.nodes[name]; dup {
		panic("apicontract: schema " + name + " registered twice")
	}
	named := n.named(name)
	r.nodes[name] = named
	r.names = append(r.names, name)
	return named
}

// Seal forbids further registration.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Get returns the schema registered under name.
func (r *Registry) Get(name string) (*Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUndefinedSchema, name)
	}
	return n, nil
}

// MustGet is like Get but panics for unknown names. Referencing a schema
// that was never registered is a programming error.
func (r *Registry) MustGet(name string) *Node {
	n, err := r.Get(name)
	if err != nil {
		panic("apicontract: " + err.Error())
	}
	return n
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.names)
}

// Validate validates input against the schema registered under name.
func (r *Registry) Validate(name string, input any, opts ...Option) Result {
	return Validate(r.MustGet(name), input, opts...)
}

// Contract describes the schema registered under name.
func (r *Registry) Contract(name string) (Contract, error) {
	n, err := r.Get(name)
	if err != nil {
		return Contract{}, err
	}
	return ContractOf(n), nil
}
