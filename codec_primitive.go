package jadn

import (
	"fmt"
	"unicode/utf8"

	"github.com/reoring/jadn/format"
)

func (w *walker) binary(rt *ResolvedType, v any, p PathRef) (any, error) {
	f, ok := w.c.formats[rt]
	if !ok {
		f = w.c.binary
	}
	if w.encode {
		b, ok := v.([]byte)
		if !ok {
			return nil, typeIssue(p, rt.Name, CodeInvalidType, fmt.Sprintf("expected bytes, got %T", v), v)
		}
		if err := w.sizeCheck(rt, int64(len(b)), w.c.table.config.MaxBinary, p, v); err != nil {
			return nil, err
		}
		out, err := f.Encode(b)
		if err != nil {
			return nil, formatIssue(p, rt, err, v)
		}
		return out, nil
	}
	if _, ok := v.(string); !ok {
		return nil, typeIssue(p, rt.Name, CodeInvalidType, fmt.Sprintf("expected string, got %T", v), v)
	}
	out, err := f.Decode(v)
	if err != nil {
		return nil, formatIssue(p, rt, err, v)
	}
	b, ok := out.([]byte)
	if !ok {
		return nil, typeIssue(p, rt.Name, CodeInvalidFormat, fmt.Sprintf("format %q decoded to %T, not bytes", f.Name, out), v)
	}
	if err := w.sizeCheck(rt, int64(len(b)), w.c.table.config.MaxBinary, p, v); err != nil {
		return nil, err
	}
	return b, nil
}

func (w *walker) integer(rt *ResolvedType, v any, p PathRef) (any, error) {
	i, ok := format.ToInt64(v)
	if !ok {
		return nil, typeIssue(p, rt.Name, CodeInvalidType, fmt.Sprintf("expected integer, got %T", v), v)
	}
	if rt.Opts.Min != nil && i < *rt.Opts.Min {
		return nil, typeIssue(p, rt.Name, CodeTooSmall, fmt.Sprintf("%d is less than minimum %d", i, *rt.Opts.Min), v)
	}
	if rt.Opts.Max != nil && i > *rt.Opts.Max {
		return nil, typeIssue(p, rt.Name, CodeTooBig, fmt.Sprintf("%d is greater than maximum %d", i, *rt.Opts.Max), v)
	}
	if f, ok := w.c.formats[rt]; ok {
		conv := f.Decode
		if w.encode {
			conv = f.Encode
		}
		if _, err := conv(i); err != nil {
			return nil, formatIssue(p, rt, err, v)
		}
	}
	return i, nil
}

func (w *walker) number(rt *ResolvedType, v any, p PathRef) (any, error) {
	n, ok := toFloat64(v)
	if !ok {
		return nil, typeIssue(p, rt.Name, CodeInvalidType, fmt.Sprintf("expected number, got %T", v), v)
	}
	lo, hi := rt.Opts.MinF, rt.Opts.MaxF
	if lo == nil && rt.Opts.Min != nil {
		f := float64(*rt.Opts.Min)
		lo = &f
	}
	if hi == nil && rt.Opts.Max != nil {
		f := float64(*rt.Opts.Max)
		hi = &f
	}
	if lo != nil && n < *lo {
		return nil, typeIssue(p, rt.Name, CodeTooSmall, fmt.Sprintf("%g is less than minimum %g", n, *lo), v)
	}
	if hi != nil && n > *hi {
		return nil, typeIssue(p, rt.Name, CodeTooBig, fmt.Sprintf("%g is greater than maximum %g", n, *hi), v)
	}
	if f, ok := w.c.formats[rt]; ok {
		conv := f.Decode
		if w.encode {
			conv = f.Encode
		}
		if _, err := conv(n); err != nil {
			return nil, formatIssue(p, rt, err, v)
		}
	}
	return n, nil
}

func (w *walker) string(rt *ResolvedType, v any, p PathRef) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, typeIssue(p, rt.Name, CodeInvalidType, fmt.Sprintf("expected string, got %T", v), v)
	}
	if err := w.sizeCheck(rt, int64(utf8.RuneCountInString(s)), w.c.table.config.MaxString, p, v); err != nil {
		return nil, err
	}
	if rt.pattern != nil && !rt.pattern.MatchString(s) {
		iss := typeIssue(p, rt.Name, CodePattern, fmt.Sprintf("does not match %q", rt.Opts.Pattern), v)
		iss[0].Hint = rt.Opts.Pattern
		return nil, iss
	}
	if f, ok := w.c.formats[rt]; ok {
		conv := f.Decode
		if w.encode {
			conv = f.Encode
		}
		if _, err := conv(s); err != nil {
			return nil, formatIssue(p, rt, err, v)
		}
	}
	return s, nil
}

// sizeCheck applies "{N" / "}N" to a byte, character or element count. def
// is the schema-wide maximum used when the type declares none.
func (w *walker) sizeCheck(rt *ResolvedType, n, def int64, p PathRef, v any) error {
	if rt.Opts.Min != nil && n < *rt.Opts.Min {
		iss := typeIssue(p, rt.Name, CodeTooShort, fmt.Sprintf("size %d is less than minimum %d", n, *rt.Opts.Min), v)
		iss[0].Params = map[string]any{"min": *rt.Opts.Min, "got": n}
		return iss
	}
	limit := def
	if rt.Opts.Max != nil {
		limit = *rt.Opts.Max
	}
	if (rt.Opts.Max != nil || def > 0) && n > limit {
		iss := typeIssue(p, rt.Name, CodeTooLong, fmt.Sprintf("size %d is greater than maximum %d", n, limit), v)
		iss[0].Params = map[string]any{"max": limit, "got": n}
		return iss
	}
	return nil
}

type jsonNumber interface {
	Float64() (float64, error)
	String() string
}

func toFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case jsonNumber:
		f, err := t.Float64()
		return f, err == nil
	}
	if i, ok := format.ToInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}
