package jadn

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/reoring/jadn/format"
)

// ResolvedType is a type definition with parsed options and every reference
// bound to its target. Anonymous types (field-level base types, "*#T"
// references) are resolved the same way but are not part of the schema's
// type list.
type ResolvedType struct {
	Name      string
	Def       TypeDef
	Opts      TypeOptions
	Fields    []*ResolvedField // members, or items of an Enumerated type
	Key       *ResolvedType    // MapOf key type
	Value     *ResolvedType    // ArrayOf item type, MapOf value type
	Anonymous bool

	byName  map[string]*ResolvedField
	byID    map[int]*ResolvedField
	pattern *regexp.Regexp
	asMap   *ResolvedType // enumeration-keyed MapOf viewed as a Map
	state   resolveState
}

type resolveState int

const (
	unresolved resolveState = iota
	resolving
	resolved
)

// Base returns the base type tag.
func (rt *ResolvedType) Base() BaseType { return rt.Def.Base }

// FieldByName looks up a member or item by name.
func (rt *ResolvedType) FieldByName(name string) (*ResolvedField, bool) {
	f, ok := rt.byName[name]
	return f, ok
}

// FieldByID looks up a member or item by id.
func (rt *ResolvedType) FieldByID(id int) (*ResolvedField, bool) {
	f, ok := rt.byID[id]
	return f, ok
}

// ResolvedField is a member of a compound type. Ref is nil for Enumerated
// items.
type ResolvedField struct {
	Field
	Opts  FieldOptions
	Ref   *ResolvedType
	Tag   *ResolvedField // sibling whose value selects this field's Choice branch
	index int
}

// Config holds the schema-wide defaults read from info.config.
type Config struct {
	MaxBinary   int64 // "$MaxBinary", 0 when unset
	MaxString   int64 // "$MaxString"
	MaxElements int64 // "$MaxElements"
}

// TypeTable is the resolved, immutable view of a schema.
type TypeTable struct {
	types  map[string]*ResolvedType
	order  []*ResolvedType
	all    []*ResolvedType
	anon   map[string]*ResolvedType
	config Config
	logger zerolog.Logger
}

// TableOption configures NewTypeTable.
type TableOption func(*TypeTable)

// WithTableLogger sets the logger used while resolving.
func WithTableLogger(l zerolog.Logger) TableOption {
	return func(t *TypeTable) { t.logger = l }
}

// NewTypeTable resolves every type of s. Duplicate names, unknown options and
// unresolved references fail with a schema error.
func NewTypeTable(s Schema, opts ...TableOption) (*TypeTable, error) {
	t := &TypeTable{
		types:  make(map[string]*ResolvedType, len(s.Types)),
		anon:   map[string]*ResolvedType{},
		logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(t)
	}
	cfg, err := parseConfig(s.Info)
	if err != nil {
		return nil, err
	}
	t.config = cfg
	for _, td := range s.Types {
		if td.Name == "" || IsBaseTypeName(td.Name) {
			return nil, schemaIssue(td.Name, CodeSchema, fmt.Sprintf("invalid type name %q", td.Name))
		}
		if _, dup := t.types[td.Name]; dup {
			return nil, schemaIssue(td.Name, CodeSchema, "duplicate type name")
		}
		if td.Base == BaseInvalid {
			return nil, schemaIssue(td.Name, CodeSchema, "missing base type")
		}
		to, err := ParseTypeOptions(td.Options)
		if err != nil {
			return nil, schemaIssue(td.Name, CodeBadOption, err.Error())
		}
		rt := &ResolvedType{Name: td.Name, Def: td.Clone(), Opts: to}
		t.types[td.Name] = rt
		t.order = append(t.order, rt)
		t.all = append(t.all, rt)
	}
	for _, rt := range t.order {
		if err := t.resolve(rt); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Lookup returns the named type.
func (t *TypeTable) Lookup(name string) (*ResolvedType, bool) {
	rt, ok := t.types[name]
	return rt, ok
}

// Types returns the named types in schema order.
func (t *TypeTable) Types() []*ResolvedType { return append([]*ResolvedType(nil), t.order...) }

// Config returns the schema-wide defaults.
func (t *TypeTable) Config() Config { return t.config }

func (t *TypeTable) resolve(rt *ResolvedType) error {
	switch rt.state {
	case resolved:
		return nil
	case resolving:
		return schemaIssue(rt.Name, CodeSchema, "circular enumeration derivation")
	}
	rt.state = resolving
	if err := t.resolveBody(rt); err != nil {
		return err
	}
	rt.state = resolved
	return nil
}

func (t *TypeTable) resolveBody(rt *ResolvedType) error {
	if rt.Opts.Pattern != "" {
		re, err := regexp.Compile(rt.Opts.Pattern)
		if err != nil {
			return schemaIssue(rt.Name, CodeBadOption, fmt.Sprintf("pattern: %v", err))
		}
		rt.pattern = re
	}
	switch rt.Base() {
	case BaseBinary, BaseBoolean, BaseInteger, BaseNumber, BaseString:
		return nil
	case BaseEnumerated:
		items := rt.Def.Fields
		if rt.Opts.Enum != "" {
			derived, err := t.deriveItems(rt)
			if err != nil {
				return err
			}
			items = derived
		}
		rt.Fields = make([]*ResolvedField, len(items))
		for i, it := range items {
			rt.Fields[i] = &ResolvedField{Field: Field{ID: it.ID, Name: it.Name, Comment: it.Comment}, Opts: FieldOptions{MinC: 1, MaxC: 1}, index: i}
		}
		return rt.index()
	case BaseArrayOf:
		if rt.Opts.ValueType == "" {
			return schemaIssue(rt.Name, CodeSchema, "ArrayOf requires an item type option (*T)")
		}
		v, err := t.ref(rt.Opts.ValueType, rt.Name)
		if err != nil {
			return err
		}
		rt.Value = v
		return nil
	case BaseMapOf:
		if rt.Opts.KeyType == "" || rt.Opts.ValueType == "" {
			return schemaIssue(rt.Name, CodeSchema, "MapOf requires key (+T) and value (*T) type options")
		}
		k, err := t.ref(rt.Opts.KeyType, rt.Name)
		if err != nil {
			return err
		}
		v, err := t.ref(rt.Opts.ValueType, rt.Name)
		if err != nil {
			return err
		}
		rt.Key, rt.Value = k, v
		if k.Base() == BaseEnumerated {
			if err := t.resolve(k); err != nil {
				return err
			}
			rt.asMap = enumMapView(rt)
		}
		return nil
	case BaseChoice, BaseArray, BaseMap, BaseRecord:
		rt.Fields = make([]*ResolvedField, len(rt.Def.Fields))
		for i, f := range rt.Def.Fields {
			fo, err := ParseFieldOptions(f.Options)
			if err != nil {
				return schemaIssue(rt.Name, CodeBadOption, fmt.Sprintf("field %q: %v", f.Name, err))
			}
			ref, err := t.fieldRef(rt, f, fo)
			if err != nil {
				return err
			}
			rt.Fields[i] = &ResolvedField{Field: f, Opts: fo, Ref: ref, index: i}
		}
		if err := rt.index(); err != nil {
			return err
		}
		return t.bindTags(rt)
	default:
		return schemaIssue(rt.Name, CodeSchema, fmt.Sprintf("unsupported base type %v", rt.Base()))
	}
}

func (rt *ResolvedType) index() error {
	rt.byName = make(map[string]*ResolvedField, len(rt.Fields))
	rt.byID = make(map[int]*ResolvedField, len(rt.Fields))
	for _, f := range rt.Fields {
		if _, dup := rt.byName[f.Name]; dup {
			return schemaIssue(rt.Name, CodeSchema, fmt.Sprintf("duplicate field name %q", f.Name))
		}
		if _, dup := rt.byID[f.ID]; dup {
			return schemaIssue(rt.Name, CodeSchema, fmt.Sprintf("duplicate field id %d", f.ID))
		}
		rt.byName[f.Name] = f
		rt.byID[f.ID] = f
	}
	return nil
}

func (t *TypeTable) bindTags(rt *ResolvedType) error {
	for _, f := range rt.Fields {
		if !f.Opts.HasTag {
			continue
		}
		sib, ok := rt.byID[f.Opts.TagID]
		if !ok || sib == f {
			return schemaIssue(rt.Name, CodeSchema, fmt.Sprintf("field %q: tag field %d not found", f.Name, f.Opts.TagID))
		}
		if f.Ref.Base() != BaseChoice {
			return schemaIssue(rt.Name, CodeSchema, fmt.Sprintf("field %q: tagged field must be a Choice", f.Name))
		}
		f.Tag = sib
	}
	return nil
}

// fieldRef resolves a field's type. A base type name makes the field's type
// anonymous, shaped by the type options found among the field options.
func (t *TypeTable) fieldRef(parent *ResolvedType, f Field, fo FieldOptions) (*ResolvedType, error) {
	bt, isBase := ParseBaseType(f.Type)
	if !isBase {
		if len(fo.Type) > 0 {
			return nil, schemaIssue(parent.Name, CodeBadOption, fmt.Sprintf("field %q: type options %s on defined type %q", f.Name, OptionString(fo.Type), f.Type))
		}
		return t.named(f.Type, parent.Name)
	}
	to, err := ParseTypeOptions(fo.Type)
	if err != nil {
		return nil, schemaIssue(parent.Name, CodeBadOption, fmt.Sprintf("field %q: %v", f.Name, err))
	}
	if bt == BaseEnumerated && to.Enum != "" {
		return t.derivedAnon(to.Enum, fo.Type)
	}
	if bt.HasFields() {
		return nil, schemaIssue(parent.Name, CodeSchema, fmt.Sprintf("field %q: anonymous %v has no fields", f.Name, bt))
	}
	return t.anonymous(TypeDef{Name: parent.Name + "." + f.Name, Base: bt, Options: cloneStrings(fo.Type)})
}

// ref resolves an option reference: "#T" (anonymous derived enumeration), a
// base type name, or a defined type.
func (t *TypeTable) ref(name, from string) (*ResolvedType, error) {
	if src, ok := strings.CutPrefix(name, "#"); ok {
		return t.derivedAnon(src, nil)
	}
	if bt, ok := ParseBaseType(name); ok {
		if bt.HasFields() {
			return nil, schemaIssue(from, CodeSchema, fmt.Sprintf("anonymous %v has no fields", bt))
		}
		if rt, ok := t.anon[name]; ok {
			return rt, nil
		}
		rt, err := t.anonymous(TypeDef{Name: name, Base: bt})
		if err == nil {
			t.anon[name] = rt
		}
		return rt, err
	}
	return t.named(name, from)
}

func (t *TypeTable) named(name, from string) (*ResolvedType, error) {
	rt, ok := t.types[name]
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeUnresolved, Message: fmt.Sprintf("type %q not defined", name), Type: from, Value: name, Offset: -1}}
	}
	return rt, nil
}

func (t *TypeTable) derivedAnon(src string, opts []string) (*ResolvedType, error) {
	key := "#" + src + OptionString(opts)
	if rt, ok := t.anon[key]; ok {
		return rt, nil
	}
	if opts == nil {
		opts = []string{enumOpt(src)}
	}
	rt, err := t.anonymous(TypeDef{Name: GeneratedEnumName(src), Base: BaseEnumerated, Options: opts})
	if err != nil {
		return nil, err
	}
	t.anon[key] = rt
	return rt, nil
}

func (t *TypeTable) anonymous(td TypeDef) (*ResolvedType, error) {
	to, err := ParseTypeOptions(td.Options)
	if err != nil {
		return nil, schemaIssue(td.Name, CodeBadOption, err.Error())
	}
	rt := &ResolvedType{Name: td.Name, Def: td, Opts: to, Anonymous: true}
	t.all = append(t.all, rt)
	t.logger.Debug().Str("type", td.Name).Str("base", td.Base.String()).Str("options", OptionString(td.Options)).Msg("anonymous type")
	if err := t.resolve(rt); err != nil {
		return nil, err
	}
	return rt, nil
}

// deriveItems copies the ids, names and comments of the source type's fields.
func (t *TypeTable) deriveItems(rt *ResolvedType) ([]Field, error) {
	src, err := t.named(rt.Opts.Enum, rt.Name)
	if err != nil {
		return nil, err
	}
	if !src.Base().HasFields() {
		return nil, schemaIssue(rt.Name, CodeSchema, fmt.Sprintf("cannot derive an enumeration from %v type %q", src.Base(), src.Name))
	}
	if src.Base() == BaseEnumerated {
		if err := t.resolve(src); err != nil {
			return nil, err
		}
		items := make([]Field, len(src.Fields))
		for i, f := range src.Fields {
			items[i] = Field{ID: f.ID, Name: f.Name, Comment: f.Comment}
		}
		return items, nil
	}
	items := make([]Field, len(src.Def.Fields))
	for i, f := range src.Def.Fields {
		items[i] = Field{ID: f.ID, Name: f.Name, Comment: f.Comment}
	}
	return items, nil
}

// enumMapView builds the Map equivalent of an enumeration-keyed MapOf: one
// required member per key item, in item id order, each of the value type.
func enumMapView(rt *ResolvedType) *ResolvedType {
	opts := make([]string, 0, 3)
	if rt.Key.Opts.ID {
		opts = append(opts, "=")
	}
	for _, o := range rt.Def.Options {
		if o[0] == '{' || o[0] == '}' {
			opts = append(opts, o)
		}
	}
	to, _ := ParseTypeOptions(opts)
	m := &ResolvedType{Name: rt.Name, Def: TypeDef{Name: rt.Name, Base: BaseMap, Options: opts}, Opts: to, Anonymous: true, state: resolved}
	items := append([]*ResolvedField(nil), rt.Key.Fields...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	m.Fields = make([]*ResolvedField, len(items))
	for i, it := range items {
		m.Fields[i] = &ResolvedField{
			Field: Field{ID: it.ID, Name: it.Name, Type: rt.Value.Name, Comment: it.Comment},
			Opts:  FieldOptions{MinC: 1, MaxC: 1},
			Ref:   rt.Value,
			index: i,
		}
	}
	_ = m.index()
	return m
}

// GeneratedEnumName is the name given to an anonymous enumeration derived
// from src.
func GeneratedEnumName(src string) string { return src + "$Enum" }

func parseConfig(info map[string]any) (Config, error) {
	var cfg Config
	raw, ok := info["config"].(map[string]any)
	if !ok {
		return cfg, nil
	}
	for key, dst := range map[string]*int64{"$MaxBinary": &cfg.MaxBinary, "$MaxString": &cfg.MaxString, "$MaxElements": &cfg.MaxElements} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		n, ok := format.ToInt64(v)
		if !ok || n < 0 {
			return cfg, schemaIssue("", CodeBadOption, fmt.Sprintf("config %s: not a non-negative integer", key))
		}
		*dst = n
	}
	return cfg, nil
}
