// Package format holds the named validators and converters that give JADN
// primitive types (and the Array network types) a specialized grammar or
// serialization. A Registry is immutable once built and safe for concurrent
// use.
package format

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Base names the JADN base type a format applies to.
type Base string

const (
	Binary  Base = "Binary"
	Integer Base = "Integer"
	Number  Base = "Number"
	String  Base = "String"
	Array   Base = "Array"
)

// Sentinel errors wrapped by every format failure.
var (
	ErrInvalid = errors.New("format: invalid value")
	ErrRange   = errors.New("format: value out of range")
	ErrUnknown = errors.New("format: unknown format")
)

// Format is the capability set of one named format.
//
// API values are []byte for Binary formats, int64 for Integer formats,
// string for String formats and []any{[]byte, int64} for the Array network
// formats. Encode turns an API value into its wire value; Decode does the
// reverse. Both fail when the value does not satisfy Validate.
type Format struct {
	Name     string
	Base     Base
	Validate func(v any) error
	Encode   func(v any) (any, error)
	Decode   func(w any) (any, error)
}

// Registry maps format names to formats.
type Registry struct {
	formats map[string]Format
}

// NewRegistry builds a registry from the given formats. Later entries replace
// earlier ones with the same name.
func NewRegistry(fs ...Format) *Registry {
	r := &Registry{formats: make(map[string]Format, len(fs))}
	for _, f := range fs {
		r.formats[f.Name] = f
	}
	return r
}

var defaultRegistry = NewRegistry(builtins()...)

// Default returns the registry of built-in formats.
func Default() *Registry { return defaultRegistry }

// With returns a copy of r extended with fs.
func (r *Registry) With(fs ...Format) *Registry {
	out := &Registry{formats: make(map[string]Format, len(r.formats)+len(fs))}
	for k, v := range r.formats {
		out.formats[k] = v
	}
	for _, f := range fs {
		out.formats[f.Name] = f
	}
	return out
}

// Lookup returns the named format. Unsigned formats "u<N>" (1 <= N <= 64)
// are synthesized on demand.
func (r *Registry) Lookup(name string) (Format, bool) {
	if f, ok := r.formats[name]; ok {
		return f, true
	}
	if strings.HasPrefix(name, "u") {
		if n, err := strconv.Atoi(name[1:]); err == nil && n >= 1 && n <= 64 && name[1] != '0' {
			return Unsigned(n), true
		}
	}
	return Format{}, false
}

// Names lists the registered names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.formats))
	for k := range r.formats {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func builtins() []Format {
	return []Format{
		IPv4Addr(), IPv6Addr(), IPv4Net(), IPv6Net(), EUI(), Hex(),
		Signed(8), Signed(16), Signed(32), Signed(64),
		Email(), IDNEmail(), Hostname(), IDNHostname(),
		URI(), URIReference(), JSONPointer(), RelativeJSONPointer(), Regex(),
		DateTime(), Date(), Time(),
	}
}

func invalidf(name, msg string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalid, name, fmt.Sprintf(msg, args...))
}

func rangef(name, msg string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrRange, name, fmt.Sprintf(msg, args...))
}

// stringFormat builds a String format whose wire value equals its API value.
func stringFormat(name string, check func(string) error) Format {
	validate := func(v any) error {
		s, ok := v.(string)
		if !ok {
			return invalidf(name, "expected string, got %T", v)
		}
		return check(s)
	}
	same := func(v any) (any, error) {
		if err := validate(v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return Format{Name: name, Base: String, Validate: validate, Encode: same, Decode: same}
}

// binaryFormat builds a Binary format from a byte check and a text codec.
func binaryFormat(name string, check func([]byte) error, enc func([]byte) string, dec func(string) ([]byte, error)) Format {
	validate := func(v any) error {
		b, ok := v.([]byte)
		if !ok {
			return invalidf(name, "expected bytes, got %T", v)
		}
		return check(b)
	}
	return Format{
		Name:     name,
		Base:     Binary,
		Validate: validate,
		Encode: func(v any) (any, error) {
			if err := validate(v); err != nil {
				return nil, err
			}
			return enc(v.([]byte)), nil
		},
		Decode: func(w any) (any, error) {
			s, ok := w.(string)
			if !ok {
				return nil, invalidf(name, "expected string, got %T", w)
			}
			b, err := dec(s)
			if err != nil {
				return nil, err
			}
			if err := check(b); err != nil {
				return nil, err
			}
			return b, nil
		},
	}
}
