package jadn

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// SimplifyOption configures Simplify.
type SimplifyOption func(*simplifyConfig)

type simplifyConfig struct {
	logger zerolog.Logger
}

// WithSimplifyLogger sets the logger that reports generated and rewritten
// types.
func WithSimplifyLogger(l zerolog.Logger) SimplifyOption {
	return func(c *simplifyConfig) { c.logger = l }
}

// Simplify rewrites s into an equivalent schema without derived
// enumerations or enumeration-keyed MapOf types:
//
//   - an Enumerated type with "#T" gets T's ids, names and comments as items;
//   - a field of type Enumerated with "#T", and "*#T" / "+#T" options, refer
//     to a named enumeration: the Enumerated type whose only option is "#T"
//     when one exists, otherwise a generated "T$Enum" appended to the type
//     list;
//   - a MapOf whose key is an enumeration becomes a Map with one required
//     field per key item.
//
// Generated types follow the original types, ordered by name. The result is
// a fixed point: simplifying it again returns it unchanged. s is not
// modified.
func Simplify(s Schema, opts ...SimplifyOption) (Schema, error) {
	cfg := simplifyConfig{logger: zerolog.Nop()}
	for _, o := range opts {
		o(&cfg)
	}
	out := s.Clone()
	for {
		next, changed, err := simplifyPass(out, cfg.logger)
		if err != nil {
			return Schema{}, err
		}
		if !changed {
			return next, nil
		}
		out = next
	}
}

type simplifier struct {
	schema    Schema
	table     *TypeTable
	logger    zerolog.Logger
	explicit  map[string]string // source type -> Enumerated type named "#source"
	generated map[string]TypeDef
	changed   bool
}

func simplifyPass(s Schema, logger zerolog.Logger) (Schema, bool, error) {
	t, err := NewTypeTable(s, WithTableLogger(logger))
	if err != nil {
		return s, false, err
	}
	p := &simplifier{
		schema:    s,
		table:     t,
		logger:    logger,
		explicit:  map[string]string{},
		generated: map[string]TypeDef{},
	}
	for _, td := range s.Types {
		if td.Base != BaseEnumerated || len(td.Options) != 1 {
			continue
		}
		if src, ok := strings.CutPrefix(td.Options[0], "#"); ok {
			if _, seen := p.explicit[src]; !seen {
				p.explicit[src] = td.Name
			}
		}
	}
	out := Schema{Info: s.Info, Types: make([]TypeDef, 0, len(s.Types))}
	for _, td := range s.Types {
		nt, err := p.typeDef(td.Clone())
		if err != nil {
			return s, false, err
		}
		out.Types = append(out.Types, nt)
	}
	names := make([]string, 0, len(p.generated))
	for name := range p.generated {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out.Types = append(out.Types, p.generated[name])
	}
	return out, p.changed, nil
}

func (p *simplifier) typeDef(td TypeDef) (TypeDef, error) {
	switch td.Base {
	case BaseBinary, BaseBoolean, BaseInteger, BaseNumber, BaseString:
		return td, nil
	case BaseEnumerated:
		src := optionArg(td.Options, '#')
		if src == "" {
			return td, nil
		}
		items, err := p.items(src)
		if err != nil {
			return td, err
		}
		td.Options = dropOptions(td.Options, "#")
		td.Fields = items
		p.changed = true
		p.logger.Debug().Str("type", td.Name).Str("source", src).Msg("derived enumeration materialized")
		return td, nil
	case BaseArrayOf:
		opts, err := p.refs(td.Options)
		td.Options = opts
		return td, err
	case BaseMapOf:
		opts, err := p.refs(td.Options)
		if err != nil {
			return td, err
		}
		td.Options = opts
		return p.enumKeyedMap(td)
	case BaseChoice, BaseArray, BaseMap, BaseRecord:
		for i := range td.Fields {
			f, err := p.field(td.Name, td.Fields[i])
			if err != nil {
				return td, err
			}
			td.Fields[i] = f
		}
		return td, nil
	default:
		return td, schemaIssue(td.Name, CodeSchema, fmt.Sprintf("unsupported base type %v", td.Base))
	}
}

func (p *simplifier) field(parent string, f Field) (Field, error) {
	if !IsBaseTypeName(f.Type) {
		return f, nil
	}
	if f.Type == BaseEnumerated.String() {
		fo, err := ParseFieldOptions(f.Options)
		if err != nil {
			return f, schemaIssue(parent, CodeBadOption, err.Error())
		}
		to, err := ParseTypeOptions(fo.Type)
		if err != nil {
			return f, schemaIssue(parent, CodeBadOption, err.Error())
		}
		if to.Enum == "" {
			return f, nil
		}
		name, err := p.derived(to.Enum, to.ID)
		if err != nil {
			return f, err
		}
		f.Type = name
		f.Options = fieldOnly(f.Options)
		p.changed = true
		return f, nil
	}
	opts, err := p.refs(f.Options)
	f.Options = opts
	return f, err
}

// refs rewrites "*#T" and "+#T" into references to named enumerations.
func (p *simplifier) refs(opts []string) ([]string, error) {
	for i, o := range opts {
		if len(o) < 3 || (o[0] != '*' && o[0] != '+') || o[1] != '#' {
			continue
		}
		name, err := p.derived(o[2:], false)
		if err != nil {
			return opts, err
		}
		opts[i] = o[:1] + name
		p.changed = true
	}
	return opts, nil
}

// derived names the enumeration derived from src, generating it when no
// explicit definition exists. Id-addressed derivations get their own
// generated type.
func (p *simplifier) derived(src string, id bool) (string, error) {
	name := GeneratedEnumName(src)
	opts := []string{}
	if id {
		name += "-Id"
		opts = append(opts, "=")
	} else if explicit, ok := p.explicit[src]; ok {
		return explicit, nil
	}
	if _, ok := p.generated[name]; ok {
		return name, nil
	}
	items, err := p.items(src)
	if err != nil {
		return "", err
	}
	gen := TypeDef{Name: name, Base: BaseEnumerated, Options: opts, Fields: items}
	if existing, ok := p.schema.Type(name); ok {
		if !sameEnumeration(existing, gen) {
			return "", schemaIssue(name, CodeNameCollision, fmt.Sprintf("generated enumeration for %q collides with an existing type", src))
		}
		return name, nil
	}
	p.generated[name] = gen
	p.logger.Debug().Str("type", name).Str("source", src).Msg("enumeration generated")
	return name, nil
}

// items copies the ids, names and comments of src's members.
func (p *simplifier) items(src string) ([]Field, error) {
	rt, ok := p.table.Lookup(src)
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeUnresolved, Message: fmt.Sprintf("type %q not defined", src), Value: src, Offset: -1}}
	}
	items := make([]Field, len(rt.Fields))
	for i, f := range rt.Fields {
		items[i] = Field{ID: f.ID, Name: f.Name, Comment: f.Comment}
	}
	return items, nil
}

// enumKeyedMap turns a MapOf keyed by an enumeration into a Map with one
// field per key item in id order. Size bounds carry over; the key's "="
// makes the Map id-addressed.
func (p *simplifier) enumKeyedMap(td TypeDef) (TypeDef, error) {
	to, err := ParseTypeOptions(td.Options)
	if err != nil {
		return td, schemaIssue(td.Name, CodeBadOption, err.Error())
	}
	items, keyID, ok := p.keyItems(to.KeyType)
	if !ok {
		return td, nil
	}
	opts := []string{}
	if keyID {
		opts = append(opts, "=")
	}
	for _, o := range td.Options {
		if o[0] == '{' || o[0] == '}' {
			opts = append(opts, o)
		}
	}
	items = append([]Field(nil), items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	fields := make([]Field, len(items))
	for i, it := range items {
		fields[i] = Field{ID: it.ID, Name: it.Name, Type: to.ValueType, Options: []string{}, Comment: it.Comment}
	}
	p.changed = true
	p.logger.Debug().Str("type", td.Name).Str("key", to.KeyType).Msg("MapOf rewritten as Map")
	return TypeDef{Name: td.Name, Base: BaseMap, Options: opts, Comment: td.Comment, Fields: fields}, nil
}

func (p *simplifier) keyItems(key string) ([]Field, bool, bool) {
	if gen, ok := p.generated[key]; ok {
		return gen.Fields, len(gen.Options) > 0, true
	}
	rt, ok := p.table.Lookup(key)
	if !ok || rt.Base() != BaseEnumerated {
		return nil, false, false
	}
	items := make([]Field, len(rt.Fields))
	for i, f := range rt.Fields {
		items[i] = Field{ID: f.ID, Name: f.Name, Comment: f.Comment}
	}
	return items, rt.Opts.ID, true
}

func sameEnumeration(a, b TypeDef) bool {
	if a.Base != b.Base || OptionString(a.Options) != OptionString(b.Options) || len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		x, y := a.Fields[i], b.Fields[i]
		if x.ID != y.ID || x.Name != y.Name || x.Comment != y.Comment {
			return false
		}
	}
	return true
}

// optionArg returns the argument of the first option starting with c.
func optionArg(opts []string, c byte) string {
	for _, o := range opts {
		if o != "" && o[0] == c {
			return o[1:]
		}
	}
	return ""
}

func dropOptions(opts []string, prefixes string) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		if o != "" && strings.IndexByte(prefixes, o[0]) >= 0 {
			continue
		}
		out = append(out, o)
	}
	return out
}

// fieldOnly keeps the field option tokens, dropping type options.
func fieldOnly(opts []string) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		if o != "" && strings.IndexByte("[]&<!", o[0]) >= 0 {
			out = append(out, o)
		}
	}
	return out
}
