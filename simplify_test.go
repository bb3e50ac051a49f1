package jadn_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/reoring/jadn"
)

const enumOptimized = `{"types": [
	["Pixel", "Record", [], "", [
		[1, "red", "Integer", [], "rojo"],
		[2, "green", "Integer", [], "verde"],
		[3, "blue", "Integer", [], ""]
	]],
	["Channel", "Enumerated", ["#Pixel"], ""],
	["ChannelMask", "ArrayOf", ["*#Pixel"], ""],
	["Pixel2", "Record", [], "", [
		[1, "red", "Integer", [], "rojo"],
		[2, "green", "Integer", [], "verde"],
		[3, "blue", "Integer", [], ""]
	]],
	["ChannelMask2", "ArrayOf", ["*#Pixel2"], ""],
	["Foo", "Array", [], "", [
		[1, "type", "Enumerated", ["#Menu"], ""],
		[2, "value", "String", [], ""]
	]],
	["Menu", "Choice", [], "", [
		[1, "open", "String", [], ""],
		[2, "close", "String", [], ""]
	]]
]}`

const enumSimplified = `{"types": [
	["Pixel", "Record", [], "", [
		[1, "red", "Integer", [], "rojo"],
		[2, "green", "Integer", [], "verde"],
		[3, "blue", "Integer", [], ""]
	]],
	["Channel", "Enumerated", [], "", [
		[1, "red", "rojo"],
		[2, "green", "verde"],
		[3, "blue", ""]
	]],
	["ChannelMask", "ArrayOf", ["*Channel"], ""],
	["Pixel2", "Record", [], "", [
		[1, "red", "Integer", [], "rojo"],
		[2, "green", "Integer", [], "verde"],
		[3, "blue", "Integer", [], ""]
	]],
	["ChannelMask2", "ArrayOf", ["*Pixel2$Enum"], ""],
	["Foo", "Array", [], "", [
		[1, "type", "Menu$Enum", [], ""],
		[2, "value", "String", [], ""]
	]],
	["Menu", "Choice", [], "", [
		[1, "open", "String", [], ""],
		[2, "close", "String", [], ""]
	]],
	["Menu$Enum", "Enumerated", [], "", [
		[1, "open", ""],
		[2, "close", ""]
	]],
	["Pixel2$Enum", "Enumerated", [], "", [
		[1, "red", "rojo"],
		[2, "green", "verde"],
		[3, "blue", ""]
	]]
]}`

const mapOfOptimized = `{"types": [
	["Colors-Enum", "Enumerated", [], "", [
		[1, "red", "rojo"],
		[2, "green", "verde"],
		[3, "blue", ""]
	]],
	["Colors-Map", "MapOf", ["+Colors-Enum", "*Number"], ""]
]}`

const mapOfSimplified = `{"types": [
	["Colors-Enum", "Enumerated", [], "", [
		[1, "red", "rojo"],
		[2, "green", "verde"],
		[3, "blue", ""]
	]],
	["Colors-Map", "Map", [], "", [
		[1, "red", "Number", [], "rojo"],
		[2, "green", "Number", [], "verde"],
		[3, "blue", "Number", [], ""]
	]]
]}`

func loadSchema(t *testing.T, doc string) jadn.Schema {
	t.Helper()
	s, err := jadn.LoadSchemaJSON([]byte(doc))
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return s
}

func schemaJSON(t *testing.T, s jadn.Schema) string {
	t.Helper()
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	return string(b)
}

func TestSimplifyDerivedEnumerations(t *testing.T) {
	got, err := jadn.Simplify(loadSchema(t, enumOptimized))
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if g, w := schemaJSON(t, got), schemaJSON(t, loadSchema(t, enumSimplified)); g != w {
		t.Fatalf("simplified schema mismatch:\n got %s\nwant %s", g, w)
	}
}

func TestSimplifyEnumKeyedMapOf(t *testing.T) {
	got, err := jadn.Simplify(loadSchema(t, mapOfOptimized))
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if g, w := schemaJSON(t, got), schemaJSON(t, loadSchema(t, mapOfSimplified)); g != w {
		t.Fatalf("simplified schema mismatch:\n got %s\nwant %s", g, w)
	}
}

func TestSimplifyDerivedKeyMapOf(t *testing.T) {
	doc := `{"types": [
		["Pixel", "Record", [], "", [
			[1, "red", "Integer", [], ""],
			[2, "blue", "Integer", [], ""]
		]],
		["Levels", "MapOf", ["+#Pixel", "*String", "}5"], "per channel"]
	]}`
	got, err := jadn.Simplify(loadSchema(t, doc))
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if len(got.Types) != 3 {
		t.Fatalf("expected a generated key type, got %s", schemaJSON(t, got))
	}
	levels, _ := got.Type("Levels")
	if levels.Base != jadn.BaseMap || !reflect.DeepEqual(levels.Options, []string{"}5"}) || levels.Comment != "per channel" {
		t.Fatalf("Levels: got %+v", levels)
	}
	if len(levels.Fields) != 2 || levels.Fields[1].Name != "blue" || levels.Fields[1].Type != "String" {
		t.Fatalf("Levels fields: got %+v", levels.Fields)
	}
	if gen := got.Types[2]; gen.Name != "Pixel$Enum" || gen.Base != jadn.BaseEnumerated {
		t.Fatalf("generated type: got %+v", gen)
	}
}

func TestSimplifyMapFieldsInKeyIDOrder(t *testing.T) {
	doc := `{"types": [
		["Colors", "Enumerated", [], "", [
			[3, "blue", ""],
			[1, "red", ""],
			[2, "green", ""]
		]],
		["Levels", "MapOf", ["+Colors", "*Number"], ""]
	]}`
	got, err := jadn.Simplify(loadSchema(t, doc))
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	levels, _ := got.Type("Levels")
	var ids []int
	for _, f := range levels.Fields {
		ids = append(ids, f.ID)
	}
	if !reflect.DeepEqual(ids, []int{1, 2, 3}) || levels.Fields[0].Name != "red" {
		t.Fatalf("Levels fields: got %+v", levels.Fields)
	}
	colors, _ := got.Type("Colors")
	if colors.Fields[0].Name != "blue" {
		t.Fatalf("key enumeration reordered: %+v", colors.Fields)
	}

	c, err := jadn.NewCodec(loadSchema(t, doc))
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	_, err = c.Encode("Levels", map[string]any{})
	iss, ok := jadn.AsIssues(err)
	if !ok || iss[0].Code != jadn.CodeRequired || !strings.Contains(iss[0].Message, `"red"`) {
		t.Fatalf("empty Levels: want red reported first, got %v", err)
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	for _, doc := range []string{enumOptimized, mapOfOptimized, enumSimplified} {
		once, err := jadn.Simplify(loadSchema(t, doc))
		if err != nil {
			t.Fatalf("Simplify: %v", err)
		}
		twice, err := jadn.Simplify(once)
		if err != nil {
			t.Fatalf("second Simplify: %v", err)
		}
		d1, err := once.Digest()
		if err != nil {
			t.Fatalf("digest: %v", err)
		}
		d2, _ := twice.Digest()
		if d1 != d2 {
			t.Fatalf("not idempotent:\n%s\n%s", schemaJSON(t, once), schemaJSON(t, twice))
		}
	}
}

func TestSimplifyDoesNotMutateInput(t *testing.T) {
	in := loadSchema(t, enumOptimized)
	before := schemaJSON(t, in)
	if _, err := jadn.Simplify(in); err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if after := schemaJSON(t, in); after != before {
		t.Fatalf("input modified:\n%s\n%s", before, after)
	}
}

func TestSimplifyNameCollision(t *testing.T) {
	doc := `{"types": [
		["Pixel", "Record", [], "", [[1, "red", "Integer", [], ""]]],
		["Mask", "ArrayOf", ["*#Pixel"], ""],
		["Pixel$Enum", "String", [], ""]
	]}`
	_, err := jadn.Simplify(loadSchema(t, doc))
	if err == nil {
		t.Fatalf("expected collision error")
	}
	if !errors.Is(err, jadn.ErrSchema) || firstCode(t, err) != jadn.CodeNameCollision {
		t.Fatalf("want name_collision schema error, got %v", err)
	}

	same := `{"types": [
		["Pixel", "Record", [], "", [[1, "red", "Integer", [], ""]]],
		["Mask", "ArrayOf", ["*#Pixel"], ""],
		["Pixel$Enum", "Enumerated", [], "", [[1, "red", ""]]]
	]}`
	got, err := jadn.Simplify(loadSchema(t, same))
	if err != nil {
		t.Fatalf("identical generated definition: %v", err)
	}
	if len(got.Types) != 3 {
		t.Fatalf("existing definition duplicated: %s", schemaJSON(t, got))
	}
}

func TestSimplifyRejectsUnresolved(t *testing.T) {
	_, err := jadn.Simplify(loadSchema(t, `{"types": [["Mask", "ArrayOf", ["*#Nope"], ""]]}`))
	if !errors.Is(err, jadn.ErrSchema) {
		t.Fatalf("want schema error, got %v", err)
	}
}

// Simplified schemas encode and decode exactly like the originals.
func TestSimplifyPreservesCodec(t *testing.T) {
	values := map[string]any{
		"Channel":      "green",
		"ChannelMask":  []any{"red", "blue"},
		"ChannelMask2": []any{"blue"},
		"Foo":          []any{"close", "x"},
	}
	orig := loadSchema(t, enumOptimized)
	simple, err := jadn.Simplify(orig)
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	for _, m := range []jadn.Mode{jadn.ModeVerbose, jadn.ModeConcise} {
		c1, err := jadn.NewCodec(orig, jadn.WithMode(m))
		if err != nil {
			t.Fatalf("codec: %v", err)
		}
		c2, err := jadn.NewCodec(simple, jadn.WithMode(m))
		if err != nil {
			t.Fatalf("simplified codec: %v", err)
		}
		for typ, v := range values {
			w1, err1 := c1.Encode(typ, v)
			w2, err2 := c2.Encode(typ, v)
			if err1 != nil || err2 != nil || !reflect.DeepEqual(w1, w2) {
				t.Fatalf("%v %s: %#v (%v) vs %#v (%v)", m, typ, w1, err1, w2, err2)
			}
		}
	}

	mapOrig, err := jadn.NewCodec(loadSchema(t, mapOfOptimized), jadn.WithMode(jadn.ModeConcise))
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	mapSimple, err := jadn.NewCodec(loadSchema(t, mapOfSimplified), jadn.WithMode(jadn.ModeConcise))
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	v := map[string]any{"red": 1.0, "green": 0.5, "blue": 0.0}
	w1, err1 := mapOrig.Encode("Colors-Map", v)
	w2, err2 := mapSimple.Encode("Colors-Map", v)
	if err1 != nil || err2 != nil || !reflect.DeepEqual(w1, w2) {
		t.Fatalf("Colors-Map: %#v (%v) vs %#v (%v)", w1, err1, w2, err2)
	}
}
