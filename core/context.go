package core

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	requestKey contextKey = iota
)

// WithRequest stores the evaluation scope in ctx so handlers further down
// the chain can resolve variables.
func WithRequest(ctx context.Context, r *Request) context.Context {
	return context.WithValue(ctx, requestKey, r)
}

// RequestFromContext returns the evaluation scope stored by WithRequest.
func RequestFromContext(ctx context.Context) (*Request, bool) {
	r, ok := ctx.Value(requestKey).(*Request)
	return r, ok && r != nil
}

// Get resolves a variable through the scope stored in ctx.
func Get(ctx context.Context, name string) (Value, error) {
	r, ok := RequestFromContext(ctx)
	if !ok {
		return NotFound, ErrNoRequest
	}
	return r.Get(name)
}
