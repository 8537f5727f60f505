package core

import (
	"context"
	"fmt"
)

// Request is the per-request evaluation scope: the transport Source, the
// Registry in effect for the request, a cache of evaluated variables and the
// Arena that owns their data. A Request is used by one goroutine and must be
// released when the request ends.
type Request struct {
	ctx      context.Context
	registry *Registry
	source   Source
	arena    Arena

	cache    map[string]Value
	active   map[string]bool
	released bool
}

// NewRequest creates the evaluation scope for one request.
func NewRequest(ctx context.Context, registry *Registry, source Source) *Request {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Request{
		ctx:      ctx,
		registry: registry,
		source:   source,
		cache:    make(map[string]Value),
		active:   make(map[string]bool),
	}
}

// Context returns the request context.
func (r *Request) Context() context.Context { return r.ctx }

// Source returns the transport data of the request.
func (r *Request) Source() Source { return r.source }

// Arena returns the request allocator.
func (r *Request) Arena() *Arena { return &r.arena }

// Registry returns the registry the request resolves names against.
func (r *Request) Registry() *Registry { return r.registry }

// Get evaluates the named variable once per request and caches the result.
// Lookup and evaluation errors are fatal and are not cached.
func (r *Request) Get(name string) (Value, error) {
	if r.released {
		return NotFound, ErrRequestReleased
	}
	if v, ok := r.cache[name]; ok {
		return v, nil
	}

	var (
		e  Evaluator
		ok bool
	)
	if r.registry != nil {
		e, ok = r.registry.Lookup(name)
	}
	if !ok {
		return NotFound, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}

	if r.active[name] {
		return NotFound, fmt.Errorf("%w: %q", ErrVariableCycle, name)
	}
	r.active[name] = true
	v, err := e.Evaluate(r)
	delete(r.active, name)
	if err != nil {
		return NotFound, fmt.Errorf("evaluating %q: %w", name, err)
	}

	r.cache[name] = v
	return v, nil
}

// Release frees everything allocated for the request. Values obtained from
// the request must not be used afterwards.
func (r *Request) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cache = nil
	r.active = nil
	r.arena.Release()
}
