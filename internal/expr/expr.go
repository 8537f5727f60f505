// Package expr compiles configuration expressions such as
// "$remote_addr${cookie_uid}seed" into evaluators.
//
// A variable reference is '$' followed by a name made of letters, digits and
// underscores, or the same name wrapped in braces. Missing variables render
// as the empty string, so a compiled expression always produces a value.
package expr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/auth0/go-cookie-middleware/core"
)

// ErrSyntax is returned for malformed expressions.
var ErrSyntax = errors.New("invalid expression")

// Lookup resolves a variable name at compile time.
type Lookup interface {
	Ref(name string) (core.Evaluator, error)
}

type part struct {
	literal string
	name    string
	eval    core.Evaluator
}

// Expression is a compiled template. It is immutable and safe for
// concurrent use; each evaluation allocates from the request arena.
type Expression struct {
	src   string
	parts []part
}

// Compile parses src and binds every variable through lookup.
func Compile(src string, lookup Lookup) (*Expression, error) {
	x := &Expression{src: src}

	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			x.parts = append(x.parts, part{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(src); {
		c := src[i]
		if c != '$' {
			lit.WriteByte(c)
			i++
			continue
		}

		name, n, err := scanName(src[i+1:])
		if err != nil {
			return nil, fmt.Errorf("%w %q at offset %d: %w", ErrSyntax, src, i, err)
		}

		eval, err := lookup.Ref(name)
		if err != nil {
			return nil, fmt.Errorf("expression %q: %w", src, err)
		}

		flush()
		x.parts = append(x.parts, part{name: name, eval: eval})
		i += 1 + n
	}
	flush()

	return x, nil
}

// scanName reads a variable name after '$' and returns it together with the
// number of bytes consumed.
func scanName(s string) (string, int, error) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return "", 0, errors.New("missing closing brace")
		}
		name := s[1:end]
		if name == "" || nameLen(name) != len(name) {
			return "", 0, fmt.Errorf("invalid variable name %q", name)
		}
		return name, end + 1, nil
	}

	n := nameLen(s)
	if n == 0 {
		return "", 0, errors.New("invalid variable name")
	}
	return s[:n], n, nil
}

func nameLen(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return i
		}
	}
	return len(s)
}

// Evaluate renders the expression for r.
func (x *Expression) Evaluate(r *core.Request) (core.Value, error) {
	if len(x.parts) == 1 && x.parts[0].eval == nil {
		return core.ValueOf([]byte(x.parts[0].literal)), nil
	}

	values := make([]core.Value, len(x.parts))
	size := 0
	for i, p := range x.parts {
		if p.eval == nil {
			size += len(p.literal)
			continue
		}

		v, err := p.eval.Evaluate(r)
		if err != nil {
			return core.NotFound, err
		}
		values[i] = v
		size += len(v.Data)
	}

	buf := r.Arena().Alloc(size)
	for i, p := range x.parts {
		if p.eval == nil {
			buf = append(buf, p.literal...)
		} else {
			buf = append(buf, values[i].Data...)
		}
	}

	return core.ValueOf(buf), nil
}

// Variables returns the referenced variable names in order of appearance.
func (x *Expression) Variables() []string {
	var names []string
	for _, p := range x.parts {
		if p.eval != nil {
			names = append(names, p.name)
		}
	}
	return names
}

// String returns the source text.
func (x *Expression) String() string {
	return x.src
}
