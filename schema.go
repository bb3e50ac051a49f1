package jadn

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Field is a member of a compound type, or an item of an Enumerated type.
// Items only use ID, Name and Comment.
type Field struct {
	ID      int
	Name    string
	Type    string
	Options []string
	Comment string
}

// TypeDef is one entry of a schema's type list.
type TypeDef struct {
	Name    string
	Base    BaseType
	Options []string
	Comment string
	Fields  []Field
}

// Schema is an in-memory JADN schema: the info block and the ordered type
// list. The JSON form is {"info": {...}, "types": [[name, base, options,
// comment, fields], ...]}.
type Schema struct {
	Info  map[string]any
	Types []TypeDef
}

// Type looks up a definition by name.
func (s Schema) Type(name string) (TypeDef, bool) {
	for _, td := range s.Types {
		if td.Name == name {
			return td, true
		}
	}
	return TypeDef{}, false
}

// Clone returns a deep copy of the type list. Info is copied one level deep.
func (s Schema) Clone() Schema {
	out := Schema{}
	if s.Info != nil {
		out.Info = make(map[string]any, len(s.Info))
		for k, v := range s.Info {
			out.Info[k] = v
		}
	}
	if s.Types != nil {
		out.Types = make([]TypeDef, len(s.Types))
		for i, td := range s.Types {
			out.Types[i] = td.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the definition.
func (t TypeDef) Clone() TypeDef {
	out := t
	out.Options = cloneStrings(t.Options)
	if t.Fields != nil {
		out.Fields = make([]Field, len(t.Fields))
		for i, f := range t.Fields {
			f.Options = cloneStrings(f.Options)
			out.Fields[i] = f
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

type schemaJSON struct {
	Info  map[string]any `json:"info,omitempty"`
	Types []TypeDef      `json:"types"`
}

func (s Schema) MarshalJSON() ([]byte, error) {
	types := s.Types
	if types == nil {
		types = []TypeDef{}
	}
	return json.Marshal(schemaJSON{Info: s.Info, Types: types})
}

func (s *Schema) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var sj schemaJSON
	if err := dec.Decode(&sj); err != nil {
		return err
	}
	s.Info = sj.Info
	s.Types = sj.Types
	return nil
}

func (t TypeDef) MarshalJSON() ([]byte, error) {
	row := []any{t.Name, t.Base.String(), nonNil(t.Options), t.Comment}
	if t.Base.HasFields() || len(t.Fields) > 0 {
		fields := make([]any, 0, len(t.Fields))
		for _, f := range t.Fields {
			if t.Base == BaseEnumerated {
				fields = append(fields, []any{f.ID, f.Name, f.Comment})
				continue
			}
			fields = append(fields, []any{f.ID, f.Name, f.Type, nonNil(f.Options), f.Comment})
		}
		row = append(row, fields)
	}
	return json.Marshal(row)
}

func (t *TypeDef) UnmarshalJSON(b []byte) error {
	var row []json.RawMessage
	if err := json.Unmarshal(b, &row); err != nil {
		return err
	}
	if len(row) != 4 && len(row) != 5 {
		return schemaIssue("", CodeSchema, fmt.Sprintf("type definition has %d elements, want 4 or 5", len(row)))
	}
	var base string
	if err := unmarshalAll(row[:4], &t.Name, &base, &t.Options, &t.Comment); err != nil {
		return schemaIssue(t.Name, CodeSchema, err.Error())
	}
	bt, ok := ParseBaseType(base)
	if !ok {
		return schemaIssue(t.Name, CodeSchema, fmt.Sprintf("unknown base type %q", base))
	}
	t.Base = bt
	t.Fields = nil
	if len(row) == 4 {
		return nil
	}
	var rawFields [][]json.RawMessage
	if err := json.Unmarshal(row[4], &rawFields); err != nil {
		return schemaIssue(t.Name, CodeSchema, err.Error())
	}
	t.Fields = make([]Field, 0, len(rawFields))
	for _, fr := range rawFields {
		var f Field
		var err error
		switch want := fieldLen(bt); {
		case len(fr) != want:
			err = fmt.Errorf("field has %d elements, want %d", len(fr), want)
		case want == 3:
			err = unmarshalAll(fr, &f.ID, &f.Name, &f.Comment)
		default:
			err = unmarshalAll(fr, &f.ID, &f.Name, &f.Type, &f.Options, &f.Comment)
		}
		if err != nil {
			return schemaIssue(t.Name, CodeSchema, err.Error())
		}
		t.Fields = append(t.Fields, f)
	}
	return nil
}

// fieldLen is the element count of a field entry: items of an Enumerated
// type are [id, name, comment].
func fieldLen(bt BaseType) int {
	if bt == BaseEnumerated {
		return 3
	}
	return 5
}

func unmarshalAll(raw []json.RawMessage, dst ...any) error {
	for i := range dst {
		if err := json.Unmarshal(raw[i], dst[i]); err != nil {
			return err
		}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// SchemaFromValue converts a generic value tree (for example the API value
// produced by decoding a schema document against the meta-schema) into a
// Schema.
func SchemaFromValue(v any) (Schema, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Schema{}, err
	}
	var s Schema
	if err := json.Unmarshal(b, &s); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// Value returns the schema as a generic value tree in its JSON shape.
func (s Schema) Value() (any, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return decodeJSONValue(b)
}

func decodeJSONValue(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
