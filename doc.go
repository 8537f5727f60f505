/*
Package cookiemiddleware provides HTTP middleware that verifies signed
cookies and extracts fields from urlencoded form bodies.

A signed cookie carries a token of the form "digest[,expiry]" where digest is
the padded base64 MD5 of a configured base string and expiry is a Unix time.
The middleware compiles the configured expressions into per-location variable
registries and, for every request, exposes the results through the request
context:

  - secure_cookie: "1" for a valid token, "0" for a wrong or expired one, not
    found when the token is missing or malformed
  - secure_cookie_set_md5: the digest to put in a newly issued cookie
  - secure_cookie_set_expires: the expiry to put in a newly issued cookie
  - recaptcha_challenge, recaptcha_response and any configured form_fields:
    the raw value of a form field in the buffered request body

# Quick Start

	scope, err := config.LoadFile("/etc/cookies.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	middleware, err := cookiemiddleware.New(
	    cookiemiddleware.WithConfig(scope),
	)
	if err != nil {
	    log.Fatal(err)
	}

	http.Handle("/", middleware.Handler(appHandler))

With a configuration such as:

	secure_cookie: "$cookie_auth"
	secure_cookie_md5: "$remote_addr s3cr3t"
	secure_cookie_expires: 1h
	locations:
	  /download:
	    secure_cookie_md5: "$uri$remote_addr s3cr3t"

# Reading Variables

	func appHandler(w http.ResponseWriter, r *http.Request) {
	    if !cookiemiddleware.Valid(r) {
	        http.Error(w, "Forbidden", http.StatusForbidden)
	        return
	    }

	    v, err := cookiemiddleware.Get(r, "recaptcha_response")
	    if err != nil {
	        http.Error(w, "Internal error", http.StatusInternalServerError)
	        return
	    }
	    if v.Found {
	        fmt.Fprintf(w, "response: %s", v)
	    }
	}

Values are only valid until the handler returns. Copy them to keep them.

# Enforcing

WithRequireValid(true) rejects requests through the ErrorHandler:

  - 401 {"message":"Signed cookie is missing."} when secure_cookie is not found
  - 403 {"message":"Signed cookie is invalid."} when it is "0"

# Issuing

IssueCookie writes a cookie whose value verifies against the same location:

	err := cookiemiddleware.IssueCookie(w, r, http.Cookie{Name: "auth", Path: "/"})

# Reverse proxies

Behind a proxy, remote_addr is the proxy's address unless its headers are
trusted:

	cookiemiddleware.New(cookiemiddleware.WithConfig(scope), cookiemiddleware.WithStandardProxy())

# Security

The digest is an unkeyed MD5. The secret must be part of the base string, and
the scheme only protects against clients that do not know it.
*/
package cookiemiddleware
