/*
Package core provides framework-agnostic request variables that can be used
across different transport layers (HTTP, gRPC, etc.).

Two evaluators live here:

  - the signed-cookie verifier (Core), which checks a "digest[,expiry]" token
    against the MD5 of a configured base string and issues fresh tokens;
  - the form-field extractor (ExtractFormField), which finds name=value in a
    raw URL-encoded body.

# Architecture

	┌─────────────────────────────────────────────┐
	│         Transport Adapters                  │
	│  (HTTP, gRPC, Gin, Echo - Framework Specific)│
	└────────────────┬────────────────────────────┘
	                 │ Source
	                 ▼
	┌─────────────────────────────────────────────┐
	│     Request (per-request scope + Arena)     │
	│  • variable cache                           │
	│  • bulk release at request end              │
	└────────────────┬────────────────────────────┘
	                 │ Registry lookup by name
	                 ▼
	┌─────────────────────────────────────────────┐
	│          Evaluators (THIS PACKAGE)          │
	│  • secure cookie verify / issue             │
	│  • form field extraction                    │
	│  • built-ins: cookie_*, http_*, arg_*, ...  │
	└─────────────────────────────────────────────┘

# Basic Usage

	c, err := core.New(core.WithExpires(12 * time.Hour))
	if err != nil {
	    log.Fatal(err)
	}

	reg := core.NewRegistry()
	token, _ := reg.Ref("cookie_auth")
	base, _ := reg.Ref("remote_addr")
	_ = reg.Register("secure_cookie", c.ValidEvaluator(token, base))

	r := core.NewRequest(ctx, reg, source)
	defer r.Release()

	v, err := r.Get("secure_cookie")
	switch {
	case err != nil:
	    // fatal: configuration or host failure
	case !v.Found:
	    // no usable token
	case v.Bool():
	    // valid
	default:
	    // wrong digest or expired
	}

# Values

A Value is either not found (the zero Value) or found with possibly empty
Data. Data points into the request body or the request Arena and is only
valid until Request.Release.

# Security

The digest is an unkeyed MD5. Its only secret is whatever the base-string
expression embeds, typically a server-side seed. The construction is kept as
is so previously issued cookies remain valid; do not rely on it where a real
MAC is required.
*/
package core
