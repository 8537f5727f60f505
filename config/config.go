// Package config loads the scope tree of cookie and form variable settings.
//
// A Scope holds Settings plus nested locations keyed by path prefix. Every
// location inherits the options it does not set from its parent, the way
// server and location blocks inherit in a web server configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied to options no scope sets.
const (
	DefaultExpires        = 86400 * time.Second
	DefaultChallengeField = "recaptcha_challenge_field"
	DefaultResponseField  = "recaptcha_response_field"
)

// ErrInvalid is wrapped by every configuration validation error.
var ErrInvalid = errors.New("invalid configuration")

// Settings are the options of one scope. Nil pointers mean "unset" and are
// inherited from the parent scope.
type Settings struct {
	// SecureCookie is the expression producing the token to verify.
	SecureCookie *string `yaml:"secure_cookie"`

	// SecureCookieMD5 is the expression producing the hashed base string.
	SecureCookieMD5 *string `yaml:"secure_cookie_md5"`

	// SecureCookieExpires is the window used when issuing expiries.
	SecureCookieExpires *Seconds `yaml:"secure_cookie_expires"`

	ChallengeName *string `yaml:"recaptcha_challenge_name"`
	ResponseName  *string `yaml:"recaptcha_response_name"`

	// FormFields binds extra variables to body fields, variable -> field.
	FormFields map[string]string `yaml:"form_fields"`
}

// Merge returns child with every unset option taken from parent.
// FormFields are merged key by key, child entries winning.
func Merge(parent, child Settings) Settings {
	merged := child
	if merged.SecureCookie == nil {
		merged.SecureCookie = parent.SecureCookie
	}
	if merged.SecureCookieMD5 == nil {
		merged.SecureCookieMD5 = parent.SecureCookieMD5
	}
	if merged.SecureCookieExpires == nil {
		merged.SecureCookieExpires = parent.SecureCookieExpires
	}
	if merged.ChallengeName == nil {
		merged.ChallengeName = parent.ChallengeName
	}
	if merged.ResponseName == nil {
		merged.ResponseName = parent.ResponseName
	}

	if len(parent.FormFields) > 0 || len(child.FormFields) > 0 {
		merged.FormFields = make(map[string]string, len(parent.FormFields)+len(child.FormFields))
		for k, v := range parent.FormFields {
			merged.FormFields[k] = v
		}
		for k, v := range child.FormFields {
			merged.FormFields[k] = v
		}
	}

	return merged
}

// Expires returns the issuance window, DefaultExpires when unset.
func (s Settings) Expires() time.Duration {
	if s.SecureCookieExpires == nil {
		return DefaultExpires
	}
	return s.SecureCookieExpires.Duration()
}

// ChallengeField returns the body field of the challenge variable.
func (s Settings) ChallengeField() string {
	if s.ChallengeName == nil {
		return DefaultChallengeField
	}
	return StripSigil(*s.ChallengeName)
}

// ResponseField returns the body field of the response variable.
func (s Settings) ResponseField() string {
	if s.ResponseName == nil {
		return DefaultResponseField
	}
	return StripSigil(*s.ResponseName)
}

// Fields returns the extra form bindings with sigils stripped from both the
// variable and the field name, sorted by variable name.
func (s Settings) Fields() []Field {
	fields := make([]Field, 0, len(s.FormFields))
	for variable, name := range s.FormFields {
		fields = append(fields, Field{Variable: StripSigil(variable), Name: StripSigil(name)})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Variable < fields[j].Variable })
	return fields
}

// Field binds a variable to a body field.
type Field struct {
	Variable string
	Name     string
}

// StripSigil removes one leading '$'.
func StripSigil(s string) string {
	return strings.TrimPrefix(s, "$")
}

// String returns a pointer to s, for building Settings in code.
func String(s string) *string {
	return &s
}

// Seconds is a duration configured as whole seconds or a Go duration string.
type Seconds time.Duration

// Duration converts s.
func (s Seconds) Duration() time.Duration {
	return time.Duration(s)
}

// UnmarshalYAML accepts 86400, "86400" or "24h".
func (s *Seconds) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expires must be a scalar", ErrInvalid, node.Line)
	}
	d, err := ParseSeconds(node.Value)
	if err != nil {
		return fmt.Errorf("%w: line %d: %w", ErrInvalid, node.Line, err)
	}
	*s = Seconds(d)
	return nil
}

// ParseSeconds parses whole seconds or a Go duration string.
func ParseSeconds(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)

	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative expires %q", v)
		}
		return time.Duration(n) * time.Second, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid expires %q", v)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative expires %q", v)
	}
	return d.Truncate(time.Second), nil
}

// Scope is one configuration block with its nested locations.
type Scope struct {
	Settings  `yaml:",inline"`
	Locations map[string]*Scope `yaml:"locations"`
}

// Location is a flattened scope: its path prefix and merged settings.
type Location struct {
	Prefix   string
	Settings Settings
}

// Load decodes a scope tree from YAML and validates it.
func Load(r io.Reader) (*Scope, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scope
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if err := s.validate("/"); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile loads a scope tree from a YAML file.
func LoadFile(path string) (*Scope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Scope) validate(prefix string) error {
	for p, child := range s.Locations {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("%w: location %q must start with /", ErrInvalid, p)
		}
		if !strings.HasPrefix(p, prefix) {
			return fmt.Errorf("%w: location %q is not nested under %q", ErrInvalid, p, prefix)
		}
		if child == nil {
			continue
		}
		if err := child.validate(p); err != nil {
			return err
		}
	}

	for _, f := range s.Fields() {
		if f.Variable == "" || f.Name == "" {
			return fmt.Errorf("%w: form field binding %q -> %q", ErrInvalid, f.Variable, f.Name)
		}
	}
	return nil
}

// Flatten returns every scope as a Location with inherited settings applied,
// the root first under prefix "/", the rest sorted by prefix.
func (s *Scope) Flatten() []Location {
	locations := []Location{{Prefix: "/", Settings: s.Settings}}
	s.flatten(s.Settings, &locations)

	sort.SliceStable(locations[1:], func(i, j int) bool {
		return locations[1+i].Prefix < locations[1+j].Prefix
	})
	return locations
}

func (s *Scope) flatten(inherited Settings, out *[]Location) {
	for prefix, child := range s.Locations {
		if child == nil {
			child = &Scope{}
		}
		merged := Merge(inherited, child.Settings)
		if prefix == "/" {
			(*out)[0].Settings = merged
		} else {
			*out = append(*out, Location{Prefix: prefix, Settings: merged})
		}
		child.flatten(merged, out)
	}
}
