package jadn_test

import (
	"testing"

	"github.com/reoring/jadn"
)

func TestTypeTableResolvesReferences(t *testing.T) {
	s := loadSchema(t, `{"info": {"config": {"$MaxBinary": 64, "$MaxElements": 10}}, "types": [
		["Pixel", "Record", [], "", [
			[1, "red", "Integer", ["/u8"], ""],
			[2, "kind", "Enumerated", ["#Menu", "[0"], ""]
		]],
		["Menu", "Choice", [], "", [[1, "open", "String", [], ""], [2, "close", "Pixel", [], ""]]],
		["Mask", "ArrayOf", ["*#Pixel"], ""],
		["Mask2", "ArrayOf", ["*#Pixel"], ""]
	]}`)
	tt, err := jadn.NewTypeTable(s)
	if err != nil {
		t.Fatalf("NewTypeTable: %v", err)
	}
	if cfg := tt.Config(); cfg.MaxBinary != 64 || cfg.MaxElements != 10 || cfg.MaxString != 0 {
		t.Fatalf("config: %+v", cfg)
	}
	if n := len(tt.Types()); n != 4 {
		t.Fatalf("named types: %d", n)
	}
	pixel, _ := tt.Lookup("Pixel")
	red, ok := pixel.FieldByName("red")
	if !ok || !red.Ref.Anonymous || red.Ref.Name != "Pixel.red" || red.Ref.Opts.Format != "u8" {
		t.Fatalf("red: %+v", red)
	}
	kind, _ := pixel.FieldByID(2)
	if kind.Ref.Base() != jadn.BaseEnumerated || len(kind.Ref.Fields) != 2 || kind.Ref.Fields[1].Name != "close" || !kind.Opts.Optional() {
		t.Fatalf("kind: %+v", kind.Ref)
	}
	menu, _ := tt.Lookup("Menu")
	if cl, _ := menu.FieldByName("close"); cl.Ref != pixel {
		t.Fatalf("recursive reference not bound to Pixel")
	}
	m1, _ := tt.Lookup("Mask")
	m2, _ := tt.Lookup("Mask2")
	if m1.Value != m2.Value || m1.Value.Name != jadn.GeneratedEnumName("Pixel") {
		t.Fatalf("anonymous derivations are not shared: %p %p", m1.Value, m2.Value)
	}
}

func TestTypeTableRejectsCircularDerivation(t *testing.T) {
	s := loadSchema(t, `{"types": [
		["A", "Enumerated", ["#B"], ""],
		["B", "Enumerated", ["#A"], ""]
	]}`)
	if _, err := jadn.NewTypeTable(s); err == nil {
		t.Fatalf("expected circular derivation to fail")
	}
}

func TestTypeTableRejectsBadNames(t *testing.T) {
	for _, doc := range []string{
		`{"types": [["String", "String", [], ""]]}`,
		`{"types": [["", "String", [], ""]]}`,
		`{"types": [["A", "Record", [], "", [[1, "x", "Inner", ["{1"], ""]]], ["Inner", "String", [], ""]]}`,
		`{"types": [["A", "MapOf", ["*String"], ""]]}`,
		`{"types": [["A", "String", ["%("], ""]]}`,
		`{"info": {"config": {"$MaxString": -1}}, "types": []}`,
	} {
		if _, err := jadn.NewTypeTable(loadSchema(t, doc)); err == nil {
			t.Fatalf("accepted %s", doc)
		}
	}
}
