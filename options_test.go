package jadn_test

import (
	"testing"

	"github.com/reoring/jadn"
)

func TestParseTypeOptions(t *testing.T) {
	to, err := jadn.ParseTypeOptions([]string{"=", "#Pixel", "*Item", "+Key", "/ipv4-addr", "{1", "}10", "y0.5", "z2", "%^a+$", "q"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !to.ID || to.Enum != "Pixel" || to.ValueType != "Item" || to.KeyType != "Key" || to.Format != "ipv4-addr" {
		t.Fatalf("references: %+v", to)
	}
	if *to.Min != 1 || *to.Max != 10 || *to.MinF != 0.5 || *to.MaxF != 2 || to.Pattern != "^a+$" || !to.Unique {
		t.Fatalf("constraints: %+v", to)
	}
	for _, bad := range [][]string{{"~"}, {""}, {"{x"}, {"*"}, {"/"}, {"yabc"}} {
		if _, err := jadn.ParseTypeOptions(bad); err == nil {
			t.Fatalf("accepted %q", bad)
		}
	}
}

func TestParseFieldOptions(t *testing.T) {
	fo, err := jadn.ParseFieldOptions([]string{"[0", "]0", "&2", "<", "!x", "/i8", "{1"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !fo.Optional() || !fo.Multiple() || fo.MaxC != 0 || !fo.HasTag || fo.TagID != 2 || !fo.Dir || fo.Default != "x" {
		t.Fatalf("field options: %+v", fo)
	}
	if len(fo.Type) != 2 || fo.Type[0] != "/i8" || fo.Type[1] != "{1" {
		t.Fatalf("type options: %v", fo.Type)
	}
	def, _ := jadn.ParseFieldOptions(nil)
	if def.Optional() || def.Multiple() {
		t.Fatalf("defaults: %+v", def)
	}
	for _, bad := range [][]string{{"[x"}, {"]-1"}, {"[3", "]2"}} {
		if _, err := jadn.ParseFieldOptions(bad); err == nil {
			t.Fatalf("accepted %q", bad)
		}
	}
}

func TestBaseTypeNames(t *testing.T) {
	for _, name := range []string{"Binary", "Boolean", "Integer", "Number", "String", "Enumerated", "Choice", "Array", "ArrayOf", "Map", "MapOf", "Record"} {
		bt, ok := jadn.ParseBaseType(name)
		if !ok || bt.String() != name {
			t.Fatalf("%s: got %v, %v", name, bt, ok)
		}
	}
	if _, ok := jadn.ParseBaseType("record"); ok {
		t.Fatalf("base type names are case sensitive")
	}
	if !jadn.BaseString.IsPrimitive() || jadn.BaseArrayOf.IsPrimitive() || !jadn.BaseEnumerated.HasFields() || jadn.BaseMapOf.HasFields() {
		t.Fatalf("classification")
	}
}
