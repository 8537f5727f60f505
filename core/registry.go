package core

import (
	"fmt"
	"sort"
	"strings"
)

// Evaluator computes a variable for one request.
//
// A returned error is fatal for the lookup and is propagated to the caller;
// an undefined variable is reported as NotFound with a nil error.
type Evaluator interface {
	Evaluate(r *Request) (Value, error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(r *Request) (Value, error)

// Evaluate calls f(r).
func (f EvaluatorFunc) Evaluate(r *Request) (Value, error) {
	return f(r)
}

// PrefixEvaluator computes a family of variables sharing a prefix, such as
// cookie_<name>. It receives the part of the name after the prefix.
type PrefixEvaluator func(r *Request, suffix string) (Value, error)

// Registry maps variable names to evaluators. It is populated while the
// configuration is built and must not be modified once requests use it.
type Registry struct {
	vars     map[string]Evaluator
	prefixes map[string]PrefixEvaluator
}

// NewRegistry returns a Registry holding the built-in host variables.
func NewRegistry() *Registry {
	g := &Registry{
		vars:     make(map[string]Evaluator),
		prefixes: make(map[string]PrefixEvaluator),
	}
	registerBuiltins(g)
	return g
}

// Register binds name to e.
func (g *Registry) Register(name string, e Evaluator) error {
	if name == "" || e == nil {
		return fmt.Errorf("%w: empty name or nil evaluator", ErrUnknownVariable)
	}
	if _, ok := g.vars[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateVariable, name)
	}
	g.vars[name] = e
	return nil
}

// RegisterPrefix binds every name starting with prefix to fn.
func (g *Registry) RegisterPrefix(prefix string, fn PrefixEvaluator) error {
	if prefix == "" || fn == nil {
		return fmt.Errorf("%w: empty prefix or nil evaluator", ErrUnknownVariable)
	}
	if _, ok := g.prefixes[prefix]; ok {
		return fmt.Errorf("%w: prefix %q", ErrDuplicateVariable, prefix)
	}
	g.prefixes[prefix] = fn
	return nil
}

// Lookup returns the evaluator for name. Exact names win over prefixes and
// longer prefixes win over shorter ones.
func (g *Registry) Lookup(name string) (Evaluator, bool) {
	if e, ok := g.vars[name]; ok {
		return e, true
	}

	var (
		best   string
		bestFn PrefixEvaluator
	)
	for prefix, fn := range g.prefixes {
		if len(prefix) > len(best) && len(name) > len(prefix) && strings.HasPrefix(name, prefix) {
			best, bestFn = prefix, fn
		}
	}
	if bestFn == nil {
		return nil, false
	}

	suffix := name[len(best):]
	return EvaluatorFunc(func(r *Request) (Value, error) {
		return bestFn(r, suffix)
	}), true
}

// Ref returns an Evaluator that resolves name through the request, sharing
// the request's per-variable cache. The name must already be registered.
func (g *Registry) Ref(name string) (Evaluator, error) {
	if _, ok := g.Lookup(name); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	return EvaluatorFunc(func(r *Request) (Value, error) {
		return r.Get(name)
	}), nil
}

// Names returns the exact variable names, sorted.
func (g *Registry) Names() []string {
	names := make([]string, 0, len(g.vars))
	for name := range g.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
