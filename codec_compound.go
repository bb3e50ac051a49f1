package jadn

import (
	"fmt"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/reoring/jadn/format"
)

// Member addressing. API values use ids only with the "=" option; wire
// values also use ids when VerboseRecords is off.

func (w *walker) apiByID(rt *ResolvedType) bool  { return rt.Opts.ID }
func (w *walker) wireByID(rt *ResolvedType) bool { return rt.Opts.ID || !w.mode.VerboseRecords }

func (w *walker) inByID(rt *ResolvedType) bool {
	if w.encode {
		return w.apiByID(rt)
	}
	return w.wireByID(rt)
}

func (w *walker) outByID(rt *ResolvedType) bool {
	if w.encode {
		return w.wireByID(rt)
	}
	return w.apiByID(rt)
}

func memberKey(f *ResolvedField, byID bool) string {
	if byID {
		return strconv.Itoa(f.ID)
	}
	return f.Name
}

func (rt *ResolvedType) memberByKey(k string, byID bool) (*ResolvedField, bool) {
	if !byID {
		return rt.FieldByName(k)
	}
	// Only the canonical decimal form names an id: "01" and "+1" are unknown.
	id, err := strconv.Atoi(k)
	if err != nil || strconv.Itoa(id) != k {
		return nil, false
	}
	return rt.FieldByID(id)
}

func (w *walker) enumerated(rt *ResolvedType, v any, p PathRef) (any, error) {
	// Enumerated ids are used on the wire with "=" or when VerboseStrings is off.
	wireID := rt.Opts.ID || !w.mode.VerboseStrings
	inID, outID := rt.Opts.ID, wireID
	if !w.encode {
		inID, outID = wireID, rt.Opts.ID
	}
	var item *ResolvedField
	if inID {
		if id, ok := format.ToInt64(v); ok {
			item, _ = rt.FieldByID(int(id))
		}
	} else if s, ok := v.(string); ok {
		item, _ = rt.FieldByName(s)
	}
	if item == nil {
		return nil, typeIssue(p, rt.Name, CodeInvalidEnum, fmt.Sprintf("%v is not an item of %s", v, rt.Name), v)
	}
	if outID {
		return int64(item.ID), nil
	}
	return item.Name, nil
}

func (w *walker) choice(rt *ResolvedType, v any, p PathRef) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, typeIssue(p, rt.Name, CodeInvalidType, fmt.Sprintf("expected object with one member, got %T", v), v)
	}
	switch len(m) {
	case 0:
		return nil, typeIssue(p, rt.Name, CodeChoiceNone, "", v)
	case 1:
	default:
		return nil, typeIssue(p, rt.Name, CodeChoiceMany, fmt.Sprintf("%d members selected", len(m)), v)
	}
	for k, val := range m {
		f, ok := rt.memberByKey(k, w.inByID(rt))
		if !ok {
			return nil, typeIssue(p.Field(k), rt.Name, CodeUnknownKey, fmt.Sprintf("%q is not a member of %s", k, rt.Name), k)
		}
		out, err := w.field(f, val, p.Field(k), f.Ref)
		if err != nil {
			return nil, err
		}
		return map[string]any{memberKey(f, w.outByID(rt)): out}, nil
	}
	return nil, nil
}

// field converts one member value, honoring cardinality: with maxc != 1 the
// value is a list of max(minc, 1) to maxc elements (maxc 0 = unbounded).
func (w *walker) field(f *ResolvedField, v any, p PathRef, ref *ResolvedType) (any, error) {
	if !f.Opts.Multiple() {
		return w.value(ref, v, p)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, typeIssue(p, ref.Name, CodeInvalidType, fmt.Sprintf("field %q holds a list of values, got %T", f.Name, v), v)
	}
	if lo := max(f.Opts.MinC, 1); len(list) < lo {
		return nil, typeIssue(p, ref.Name, CodeTooShort, fmt.Sprintf("field %q needs at least %d values, got %d", f.Name, lo, len(list)), v)
	}
	if f.Opts.MaxC > 0 && len(list) > f.Opts.MaxC {
		return nil, typeIssue(p, ref.Name, CodeTooLong, fmt.Sprintf("field %q allows at most %d values, got %d", f.Name, f.Opts.MaxC, len(list)), v)
	}
	out := make([]any, len(list))
	for i, el := range list {
		r, err := w.value(ref, el, p.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// tagged converts the bare payload of a Choice member whose branch is named
// by the API value sel of its tag field.
func (w *walker) tagged(f *ResolvedField, v, sel any, p PathRef) (any, error) {
	choice := f.Ref
	var br *ResolvedField
	if s, ok := sel.(string); ok {
		br, _ = choice.FieldByName(s)
	} else if id, ok := format.ToInt64(sel); ok {
		br, _ = choice.FieldByID(int(id))
	}
	if br == nil {
		return nil, typeIssue(p, choice.Name, CodeTagMismatch, fmt.Sprintf("tag value %v does not select a member of %s", sel, choice.Name), sel)
	}
	return w.field(br, v, p, br.Ref)
}

func (w *walker) array(rt *ResolvedType, v any, p PathRef) (any, error) {
	f, hasFmt := w.c.formats[rt]
	if hasFmt && !w.encode {
		api, err := f.Decode(v)
		if err != nil {
			return nil, formatIssue(p, rt, err, v)
		}
		if list, ok := api.([]any); ok {
			check := *w
			check.encode = true
			if _, err := check.arrayMembers(rt, list, p); err != nil {
				return nil, err
			}
		}
		return api, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, typeIssue(p, rt.Name, CodeInvalidType, fmt.Sprintf("expected array, got %T", v), v)
	}
	out, err := w.arrayMembers(rt, list, p)
	if err != nil {
		return nil, err
	}
	if hasFmt {
		s, err := f.Encode(list)
		if err != nil {
			return nil, formatIssue(p, rt, err, v)
		}
		return s, nil
	}
	return out, nil
}

func (w *walker) arrayMembers(rt *ResolvedType, list []any, p PathRef) ([]any, error) {
	if len(list) > len(rt.Fields) {
		return nil, typeIssue(p, rt.Name, CodeArity, fmt.Sprintf("%d elements, %s declares %d", len(list), rt.Name, len(rt.Fields)), list)
	}
	out := make([]any, len(rt.Fields))
	at := func(i int) any {
		if i < len(list) {
			return list[i]
		}
		return nil
	}
	for _, tagPass := range []bool{false, true} {
		for i, f := range rt.Fields {
			if (f.Tag != nil) != tagPass {
				continue
			}
			val := at(i)
			if val == nil {
				if !f.Opts.Optional() {
					return nil, typeIssue(p.Index(i), rt.Name, CodeRequired, fmt.Sprintf("field %q is required", f.Name), nil)
				}
				continue
			}
			var r any
			var err error
			if f.Tag != nil {
				sel := out[f.Tag.index]
				if w.encode {
					sel = at(f.Tag.index)
				}
				r, err = w.tagged(f, val, sel, p.Index(i))
			} else {
				r, err = w.field(f, val, p.Index(i), f.Ref)
			}
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
	}
	return trimTrailingNil(out), nil
}

func (w *walker) mapRecord(rt *ResolvedType, v any, p PathRef) (any, error) {
	positional := rt.Base() == BaseRecord && !w.mode.VerboseRecords
	inPositional, outPositional := positional && !w.encode, positional && w.encode
	in := make(map[*ResolvedField]any, len(rt.Fields))
	paths := make(map[*ResolvedField]PathRef, len(rt.Fields))
	if inPositional {
		list, ok := v.([]any)
		if !ok {
			return nil, typeIssue(p, rt.Name, CodeInvalidType, fmt.Sprintf("expected array, got %T", v), v)
		}
		if len(list) > len(rt.Fields) {
			return nil, typeIssue(p, rt.Name, CodeArity, fmt.Sprintf("%d elements, %s declares %d", len(list), rt.Name, len(rt.Fields)), v)
		}
		for i, val := range list {
			if val != nil {
				in[rt.Fields[i]] = val
				paths[rt.Fields[i]] = p.Index(i)
			}
		}
	} else {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, typeIssue(p, rt.Name, CodeInvalidType, fmt.Sprintf("expected object, got %T", v), v)
		}
		byID := w.inByID(rt)
		if rt.Base() == BaseRecord {
			byID = false
		}
		keys := make(map[*ResolvedField]string, len(m))
		for _, k := range sortedKeys(m) {
			f, ok := rt.memberByKey(k, byID)
			if !ok {
				return nil, typeIssue(p.Field(k), rt.Name, CodeUnknownKey, fmt.Sprintf("%q is not a member of %s", k, rt.Name), k)
			}
			if prev, dup := keys[f]; dup {
				return nil, typeIssue(p.Field(k), rt.Name, CodeDuplicateKey, fmt.Sprintf("%q and %q both name field %q", prev, k, f.Name), k)
			}
			keys[f] = k
			if m[k] != nil {
				in[f] = m[k]
				paths[f] = p.Field(k)
			}
		}
	}
	if err := w.sizeCheck(rt, int64(len(in)), w.c.table.config.MaxElements, p, v); err != nil {
		return nil, err
	}
	out := make(map[*ResolvedField]any, len(in))
	for _, tagPass := range []bool{false, true} {
		for _, f := range rt.Fields {
			if (f.Tag != nil) != tagPass {
				continue
			}
			val, ok := in[f]
			if !ok {
				if !f.Opts.Optional() {
					return nil, typeIssue(p, rt.Name, CodeRequired, fmt.Sprintf("field %q is required", f.Name), nil)
				}
				continue
			}
			var r any
			var err error
			if f.Tag != nil {
				sel := out[f.Tag]
				if w.encode {
					sel = in[f.Tag]
				}
				r, err = w.tagged(f, val, sel, paths[f])
			} else {
				r, err = w.field(f, val, paths[f], f.Ref)
			}
			if err != nil {
				return nil, err
			}
			out[f] = r
		}
	}
	if outPositional {
		list := make([]any, len(rt.Fields))
		for i, f := range rt.Fields {
			list[i] = out[f]
		}
		return trimTrailingNil(list), nil
	}
	byID := w.outByID(rt)
	if rt.Base() == BaseRecord {
		byID = false
	}
	res := make(map[string]any, len(out))
	for f, r := range out {
		res[memberKey(f, byID)] = r
	}
	return res, nil
}

func (w *walker) arrayOf(rt *ResolvedType, v any, p PathRef) (any, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, typeIssue(p, rt.Name, CodeInvalidType, fmt.Sprintf("expected array, got %T", v), v)
	}
	if err := w.sizeCheck(rt, int64(len(list)), w.c.table.config.MaxElements, p, v); err != nil {
		return nil, err
	}
	out := make([]any, len(list))
	var seen map[string]int
	if rt.Opts.Unique {
		seen = make(map[string]int, len(list))
	}
	for i, el := range list {
		r, err := w.value(rt.Value, el, p.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = r
		if seen != nil {
			wire := r
			if !w.encode {
				wire = el
			}
			k := canonicalKey(wire)
			if j, dup := seen[k]; dup {
				return nil, typeIssue(p.Index(i), rt.Name, CodeNotUnique, fmt.Sprintf("duplicates item %d", j), el)
			}
			seen[k] = i
		}
	}
	return out, nil
}

// mapOf handles MapOf types whose key is not an enumeration. A String key
// gives an object; any other key type an alternating [k1, v1, k2, v2, ...]
// array, on both the API and the wire side.
func (w *walker) mapOf(rt *ResolvedType, v any, p PathRef) (any, error) {
	if rt.Key.Base() == BaseString {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, typeIssue(p, rt.Name, CodeInvalidType, fmt.Sprintf("expected object, got %T", v), v)
		}
		if err := w.sizeCheck(rt, int64(len(m)), w.c.table.config.MaxElements, p, v); err != nil {
			return nil, err
		}
		out := make(map[string]any, len(m))
		for _, k := range sortedKeys(m) {
			kk, err := w.value(rt.Key, k, p.Field(k))
			if err != nil {
				return nil, err
			}
			vv, err := w.value(rt.Value, m[k], p.Field(k))
			if err != nil {
				return nil, err
			}
			ks, ok := kk.(string)
			if !ok {
				return nil, typeIssue(p.Field(k), rt.Key.Name, CodeInvalidFormat, fmt.Sprintf("key converted to %T, not a string", kk), k)
			}
			out[ks] = vv
		}
		return out, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, typeIssue(p, rt.Name, CodeInvalidType, fmt.Sprintf("expected key/value array, got %T", v), v)
	}
	if len(list)%2 != 0 {
		return nil, typeIssue(p, rt.Name, CodeArity, "key/value array has odd length", v)
	}
	if err := w.sizeCheck(rt, int64(len(list)/2), w.c.table.config.MaxElements, p, v); err != nil {
		return nil, err
	}
	out := make([]any, len(list))
	seen := make(map[string]struct{}, len(list)/2)
	for i := 0; i < len(list); i += 2 {
		kk, err := w.value(rt.Key, list[i], p.Index(i))
		if err != nil {
			return nil, err
		}
		wireKey := kk
		if !w.encode {
			wireKey = list[i]
		}
		ck := canonicalKey(wireKey)
		if _, dup := seen[ck]; dup {
			return nil, typeIssue(p.Index(i), rt.Name, CodeDuplicateKey, "duplicate key", list[i])
		}
		seen[ck] = struct{}{}
		vv, err := w.value(rt.Value, list[i+1], p.Index(i+1))
		if err != nil {
			return nil, err
		}
		out[i], out[i+1] = kk, vv
	}
	return out, nil
}

func trimTrailingNil(list []any) []any {
	n := len(list)
	for n > 0 && list[n-1] == nil {
		n--
	}
	return list[:n]
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// canonicalKey renders a wire value as JSON with sorted object keys.
func canonicalKey(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}
