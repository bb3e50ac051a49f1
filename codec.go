package jadn

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/reoring/jadn/format"
	"github.com/reoring/jadn/wire"
)

// Codec encodes API values to wire values and decodes them back, enforcing
// every constraint of the schema. A Codec is safe for concurrent use once
// its Mode is set.
type Codec struct {
	table    *TypeTable
	registry *format.Registry
	mode     Mode
	logger   zerolog.Logger
	formats  map[*ResolvedType]format.Format
	binary   format.Format
}

// CodecOption configures NewCodec.
type CodecOption func(*Codec)

// WithMode sets the initial Mode (default ModeVerbose).
func WithMode(m Mode) CodecOption { return func(c *Codec) { c.mode = m } }

// WithRegistry replaces the format registry (default format.Default()).
func WithRegistry(r *format.Registry) CodecOption {
	return func(c *Codec) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithLogger sets the logger. Failures are logged at debug level.
func WithLogger(l zerolog.Logger) CodecOption { return func(c *Codec) { c.logger = l } }

// NewCodec resolves s into a TypeTable and binds every format option to the
// registry. Unknown formats and formats applied to the wrong base type are
// schema errors.
func NewCodec(s Schema, opts ...CodecOption) (*Codec, error) {
	c := &Codec{registry: format.Default(), mode: ModeVerbose, logger: zerolog.Nop(), binary: format.Base64URL()}
	for _, o := range opts {
		o(c)
	}
	t, err := NewTypeTable(s, WithTableLogger(c.logger))
	if err != nil {
		return nil, err
	}
	c.table = t
	c.formats = make(map[*ResolvedType]format.Format)
	for _, rt := range t.all {
		name := rt.Opts.Format
		if name == "" {
			continue
		}
		f, ok := c.registry.Lookup(name)
		if !ok {
			return nil, schemaIssue(rt.Name, CodeBadOption, fmt.Sprintf("unknown format %q", name))
		}
		if string(f.Base) != rt.Base().String() {
			return nil, schemaIssue(rt.Name, CodeBadOption, fmt.Sprintf("format %q applies to %s, not %v", name, f.Base, rt.Base()))
		}
		c.formats[rt] = f
	}
	c.logger.Debug().Int("types", len(t.order)).Int("anonymous", len(t.all)-len(t.order)).Str("mode", c.mode.String()).Msg("codec ready")
	return c, nil
}

// SetMode fixes both verbosity flags for subsequent calls. It must not race
// with Encode or Decode.
func (c *Codec) SetMode(m Mode) { c.mode = m }

// Mode returns the current Mode.
func (c *Codec) Mode() Mode { return c.mode }

// Table returns the resolved type table.
func (c *Codec) Table() *TypeTable { return c.table }

// Encode converts the API value v of the named type to its wire value.
func (c *Codec) Encode(typeName string, v any) (any, error) {
	return c.run(typeName, v, true)
}

// Decode converts the wire value w of the named type to its API value.
func (c *Codec) Decode(typeName string, w any) (any, error) {
	return c.run(typeName, w, false)
}

func (c *Codec) run(typeName string, v any, encode bool) (any, error) {
	rt, ok := c.table.Lookup(typeName)
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeUnknownSchema, Message: fmt.Sprintf("type %q not defined", typeName), Type: typeName, Offset: -1}}
	}
	w := &walker{c: c, mode: c.mode, encode: encode}
	out, err := w.value(rt, v, RootPath())
	if err != nil {
		c.logger.Debug().Err(err).Str("type", typeName).Bool("encode", encode).Str("mode", w.mode.String()).Msg("codec failure")
		return nil, err
	}
	return out, nil
}

// EncodeJSON encodes v and serializes the wire value as JSON.
func (c *Codec) EncodeJSON(typeName string, v any) ([]byte, error) {
	w, err := c.Encode(typeName, v)
	if err != nil {
		return nil, err
	}
	return wire.MarshalJSON(w)
}

// DecodeJSON parses JSON input (rejecting duplicate object keys unless opts
// say otherwise) and decodes the result.
func (c *Codec) DecodeJSON(typeName string, data []byte, opts ...ParseOpt) (any, error) {
	opt := DefaultParseOpt()
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	w, err := ParseWire(JSONBytes(data), opt)
	if err != nil {
		return nil, err
	}
	return c.Decode(typeName, w)
}

// EncodeCBOR encodes v and serializes the wire value as deterministic CBOR.
func (c *Codec) EncodeCBOR(typeName string, v any) ([]byte, error) {
	w, err := c.Encode(typeName, v)
	if err != nil {
		return nil, err
	}
	return wire.MarshalCBOR(w)
}

// DecodeCBOR parses one CBOR data item and decodes it.
func (c *Codec) DecodeCBOR(typeName string, data []byte) (any, error) {
	w, err := wire.UnmarshalCBOR(data)
	if err != nil {
		return nil, toIssues(err)
	}
	return c.Decode(typeName, w)
}

// walker carries the per-call state of one Encode or Decode.
type walker struct {
	c      *Codec
	mode   Mode
	encode bool
}

func (w *walker) value(rt *ResolvedType, v any, p PathRef) (any, error) {
	switch rt.Base() {
	case BaseBinary:
		return w.binary(rt, v, p)
	case BaseBoolean:
		if _, ok := v.(bool); !ok {
			return nil, typeIssue(p, rt.Name, CodeInvalidType, "expected boolean", v)
		}
		return v, nil
	case BaseInteger:
		return w.integer(rt, v, p)
	case BaseNumber:
		return w.number(rt, v, p)
	case BaseString:
		return w.string(rt, v, p)
	case BaseEnumerated:
		return w.enumerated(rt, v, p)
	case BaseChoice:
		return w.choice(rt, v, p)
	case BaseArray:
		return w.array(rt, v, p)
	case BaseArrayOf:
		return w.arrayOf(rt, v, p)
	case BaseMap, BaseRecord:
		return w.mapRecord(rt, v, p)
	case BaseMapOf:
		if rt.asMap != nil {
			return w.mapRecord(rt.asMap, v, p)
		}
		return w.mapOf(rt, v, p)
	default:
		return nil, schemaIssue(rt.Name, CodeSchema, fmt.Sprintf("unsupported base type %v", rt.Base()))
	}
}

// formatIssue maps a format error to an Issue: range failures are
// constraint violations, everything else a format mismatch.
func formatIssue(p PathRef, rt *ResolvedType, err error, v any) Issues {
	code := CodeInvalidFormat
	if errors.Is(err, format.ErrRange) {
		code = CodeOverflow
	}
	iss := typeIssue(p, rt.Name, code, err.Error(), v)
	iss[0].Hint = rt.Opts.Format
	iss[0].Cause = err
	return iss
}
