package core

import "strings"

// Source exposes the transport-level request data the built-in variables
// read. Transport adapters (net/http, gRPC) implement it.
type Source interface {
	// Body returns the fully buffered request body, or false if the body
	// was not buffered or the request has none.
	Body() ([]byte, bool)
	Cookie(name string) (string, bool)
	Header(name string) (string, bool)
	Arg(name string) (string, bool)
	RemoteAddr() string
	Method() string
	URI() string
	Host() string
}

// Names of the built-in variables.
const (
	VarRequestBody   = "request_body"
	VarRemoteAddr    = "remote_addr"
	VarRequestMethod = "request_method"
	VarURI           = "uri"
	VarHost          = "host"

	PrefixCookie = "cookie_"
	PrefixHeader = "http_"
	PrefixArg    = "arg_"
)

func registerBuiltins(g *Registry) {
	g.vars[VarRequestBody] = EvaluatorFunc(func(r *Request) (Value, error) {
		body, ok := r.Source().Body()
		if !ok {
			return NotFound, nil
		}
		return ValueOf(body), nil
	})
	g.vars[VarRemoteAddr] = stringVar(Source.RemoteAddr)
	g.vars[VarRequestMethod] = stringVar(Source.Method)
	g.vars[VarURI] = stringVar(Source.URI)
	g.vars[VarHost] = stringVar(Source.Host)

	g.prefixes[PrefixCookie] = func(r *Request, name string) (Value, error) {
		return lookupVar(r, name, Source.Cookie)
	}
	g.prefixes[PrefixHeader] = func(r *Request, name string) (Value, error) {
		return lookupVar(r, strings.ReplaceAll(name, "_", "-"), Source.Header)
	}
	g.prefixes[PrefixArg] = func(r *Request, name string) (Value, error) {
		return lookupVar(r, name, Source.Arg)
	}
}

func stringVar(get func(Source) string) Evaluator {
	return EvaluatorFunc(func(r *Request) (Value, error) {
		return ValueOf(r.Arena().CopyString(get(r.Source()))), nil
	})
}

func lookupVar(r *Request, name string, get func(Source, string) (string, bool)) (Value, error) {
	s, ok := get(r.Source(), name)
	if !ok {
		return NotFound, nil
	}
	return ValueOf(r.Arena().CopyString(s)), nil
}
