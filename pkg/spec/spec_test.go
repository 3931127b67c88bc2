package spec

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// minimalDoc is the smallest document that passes validation: one
// parameter, one color, one component with a single box add.
const minimalDoc = `{
	"name": "test-model",
	"params": {"w": 10},
	"colors": {"gray": {"hex": "#5D6D7E"}},
	"components": [
		{
			"id": "block",
			"role": "mount",
			"color": "gray",
			"steps": [
				{"op": "add", "shape": {"kind": "box", "size": ["w", "w", "w"], "at": [0, 0, 0]}}
			]
		}
	]
}`

func mustParse(t *testing.T, doc string) *Spec {
	t.Helper()
	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func TestParseMinimal(t *testing.T) {
	s := mustParse(t, minimalDoc)
	if s.Name != "test-model" {
		t.Fatalf("name = %q", s.Name)
	}
	c, ok := s.Component("block")
	if !ok {
		t.Fatal("component block not found")
	}
	if c.STLName() != "block.stl" {
		t.Fatalf("STLName = %q, want block.stl", c.STLName())
	}
	if _, ok := s.Component("nope"); ok {
		t.Fatal("lookup of unknown component succeeded")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.json")
	if err := os.WriteFile(path, []byte(minimalDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "test-model" {
		t.Fatalf("name = %q", s.Name)
	}
}

func TestLoadMalformedCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"name":`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	var me *MalformedSpecError
	if !errors.As(err, &me) {
		t.Fatalf("expected MalformedSpecError, got %v", err)
	}
	if me.Path != path {
		t.Fatalf("error path = %q, want %q", me.Path, path)
	}
}

func TestValidateMissingKeys(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"name", `{"params": {"w": 1}, "components": [{}]}`},
		{"params", `{"name": "x", "components": [{}]}`},
		{"components", `{"name": "x", "params": {"w": 1}}`},
	}
	for _, c := range cases {
		_, err := Parse([]byte(c.doc))
		var me *MalformedSpecError
		if !errors.As(err, &me) {
			t.Fatalf("%s: expected MalformedSpecError, got %v", c.name, err)
		}
	}
}

func TestValidateDimensions(t *testing.T) {
	doc := strings.Replace(minimalDoc, `"w": 10`, `"w": 0`, 1)
	_, err := Parse([]byte(doc))
	var de *InvalidDimensionError
	if !errors.As(err, &de) {
		t.Fatalf("expected InvalidDimensionError, got %v", err)
	}
	if de.Subject != "w" {
		t.Fatalf("subject = %q, want w", de.Subject)
	}

	doc = strings.Replace(minimalDoc, `"w": 10`, `"w": 10, "taper": 1.5`, 1)
	if _, err := Parse([]byte(doc)); !errors.As(err, &de) {
		t.Fatalf("taper > 1: expected InvalidDimensionError, got %v", err)
	}
}

func TestValidateColors(t *testing.T) {
	doc := strings.Replace(minimalDoc, `"#5D6D7E"`, `"5D6D7E"`, 1)
	var me *MalformedSpecError
	if _, err := Parse([]byte(doc)); !errors.As(err, &me) {
		t.Fatalf("bad hex: expected MalformedSpecError, got %v", err)
	}

	doc = strings.Replace(minimalDoc, `"color": "gray"`, `"color": "mauve"`, 1)
	var de *InvalidDimensionError
	if _, err := Parse([]byte(doc)); !errors.As(err, &de) {
		t.Fatalf("dangling color: expected InvalidDimensionError, got %v", err)
	}
}

func TestValidateComponents(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
	}{
		{"unknown role", `"role": "mount"`, `"role": "gadget"`},
		{"undefined param", `["w", "w", "w"]`, `["w", "w", "depth"]`},
		{"first step cut", `"op": "add"`, `"op": "cut"`},
		{"unknown op", `"op": "add"`, `"op": "merge"`},
		{"unknown kind", `"kind": "box"`, `"kind": "sphere"`},
		{"short size", `"size": ["w", "w", "w"]`, `"size": ["w", "w"]`},
		{"short at", `"at": [0, 0, 0]`, `"at": [0, 0]`},
	}
	for _, c := range cases {
		doc := strings.Replace(minimalDoc, c.from, c.to, 1)
		if doc == minimalDoc {
			t.Fatalf("%s: replacement %q not found", c.name, c.from)
		}
		var me *MalformedSpecError
		if _, err := Parse([]byte(doc)); !errors.As(err, &me) {
			t.Fatalf("%s: expected MalformedSpecError, got %v", c.name, err)
		}
	}
}

func TestValidateDuplicateID(t *testing.T) {
	comp := `{
		"id": "block",
		"role": "mount",
		"color": "gray",
		"steps": [{"op": "add", "shape": {"kind": "box", "size": ["w", "w", "w"], "at": [0, 0, 0]}}]
	}`
	doc := `{
		"name": "x",
		"params": {"w": 10},
		"colors": {"gray": {"hex": "#5D6D7E"}},
		"components": [` + comp + "," + comp + `]
	}`
	var me *MalformedSpecError
	if _, err := Parse([]byte(doc)); !errors.As(err, &me) {
		t.Fatalf("expected MalformedSpecError, got %v", err)
	}
	if !strings.Contains(me.Reason, "duplicate") {
		t.Fatalf("reason = %q, want duplicate id", me.Reason)
	}
}

func TestValidateSideShapes(t *testing.T) {
	doc := func(shape string) string {
		return `{
			"name": "x",
			"params": {
				"base_x": 140, "base_y": 100, "height": 160, "taper": 0.85,
				"wall": 2.8, "floor": 3.0, "tolerance": 0.3,
				"panel_thick": 2.5, "panel_margin": 15,
				"panel_bottom": 15, "panel_top_margin": 25,
				"magnet_d": 6, "magnet_recess": 1.5
			},
			"colors": {"gray": {"hex": "#5D6D7E"}},
			"components": [{
				"id": "p", "role": "panel", "color": "gray",
				"steps": [{"op": "add", "shape": ` + shape + `}]
			}]
		}`
	}

	good := []string{
		`{"kind": "panel-plate", "side": "front"}`,
		`{"kind": "panel-opening", "side": "rear"}`,
		`{"kind": "magnet-recesses", "side": "left", "into": "panel"}`,
		`{"kind": "pattern", "side": "right", "pattern": "crystal-burst"}`,
	}
	for _, shape := range good {
		if _, err := Parse([]byte(doc(shape))); err != nil {
			t.Fatalf("%s: %v", shape, err)
		}
	}

	bad := []string{
		`{"kind": "panel-plate", "side": "top"}`,
		`{"kind": "panel-plate"}`,
		`{"kind": "magnet-recesses", "side": "left", "into": "lid"}`,
		`{"kind": "pattern", "side": "front", "pattern": "plaid"}`,
		`{"kind": "diamond", "s": 10, "depth": 3, "axis": "w", "at": [0, 0, 0]}`,
	}
	for _, shape := range bad {
		var me *MalformedSpecError
		if _, err := Parse([]byte(doc(shape))); !errors.As(err, &me) {
			t.Fatalf("%s: expected MalformedSpecError, got %v", shape, err)
		}
	}
}

func TestValidatePrism(t *testing.T) {
	doc := func(shape string) string {
		return `{
			"name": "x",
			"params": {"w": 10, "d": 4},
			"colors": {"gray": {"hex": "#5D6D7E"}},
			"components": [{
				"id": "p", "role": "accessory", "color": "gray",
				"steps": [{"op": "add", "shape": ` + shape + `}]
			}]
		}`
	}

	good := []string{
		`{"kind": "prism", "depth": "d", "at": [0, 0, 0],
			"outline": [[0, 0], ["w", 0], [0, "w"]]}`,
		`{"kind": "prism", "depth": "d", "axis": "x", "at": [0, 0, 0],
			"outline": [[["-", ["/", "w", 2]], 0], [["/", "w", 2], 0], ["w", "w"], [0, "w"]]}`,
	}
	for _, shape := range good {
		if _, err := Parse([]byte(doc(shape))); err != nil {
			t.Fatalf("%s: %v", shape, err)
		}
	}

	bad := []string{
		`{"kind": "prism", "depth": "d", "at": [0, 0, 0],
			"outline": [[0, 0], ["w", 0]]}`,
		`{"kind": "prism", "depth": "d", "at": [0, 0, 0],
			"outline": [[0, 0], ["w", 0], [0, "w", 1]]}`,
		`{"kind": "prism", "at": [0, 0, 0],
			"outline": [[0, 0], ["w", 0], [0, "w"]]}`,
		`{"kind": "prism", "depth": "d", "at": [0, 0],
			"outline": [[0, 0], ["w", 0], [0, "w"]]}`,
		`{"kind": "prism", "depth": "d", "axis": "q", "at": [0, 0, 0],
			"outline": [[0, 0], ["w", 0], [0, "w"]]}`,
		`{"kind": "prism", "depth": "d", "at": [0, 0, 0],
			"outline": [[0, 0], ["w", 0], [0, "tall"]]}`,
	}
	for _, shape := range bad {
		var me *MalformedSpecError
		if _, err := Parse([]byte(doc(shape))); !errors.As(err, &me) {
			t.Fatalf("%s: expected MalformedSpecError, got %v", shape, err)
		}
	}
}

func TestSideShapesRequireProfileParams(t *testing.T) {
	doc := `{
		"name": "x",
		"params": {"w": 10},
		"colors": {"gray": {"hex": "#5D6D7E"}},
		"components": [{
			"id": "p", "role": "panel", "color": "gray",
			"steps": [{"op": "add", "shape": {"kind": "panel-plate", "side": "front"}}]
		}]
	}`
	var me *MalformedSpecError
	if _, err := Parse([]byte(doc)); !errors.As(err, &me) {
		t.Fatalf("expected MalformedSpecError, got %v", err)
	}
	if !strings.Contains(me.Reason, "requires parameter") {
		t.Fatalf("reason = %q, want missing parameter", me.Reason)
	}
}

func TestColorRGB(t *testing.T) {
	r, g, b, err := Color{Hex: "#2E86C1"}.RGB()
	if err != nil {
		t.Fatalf("RGB: %v", err)
	}
	if r != 0x2E || g != 0x86 || b != 0xC1 {
		t.Fatalf("RGB = %02X%02X%02X, want 2E86C1", r, g, b)
	}

	for _, hex := range []string{"", "2E86C1", "#2E86", "#2E86C1FF", "#GGGGGG"} {
		if _, _, _, err := (Color{Hex: hex}).RGB(); err == nil {
			t.Fatalf("RGB(%q): expected error", hex)
		}
	}
}

func TestLint(t *testing.T) {
	s := mustParse(t, minimalDoc)
	warnings := s.Lint()
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one literal warning", warnings)
	}
	if !strings.Contains(warnings[0], "block") {
		t.Fatalf("warning %q does not name the component", warnings[0])
	}
	// The literals live in the box step's at vector, so the warning
	// points at that step rather than the component as a whole.
	if !strings.Contains(warnings[0], `step "box"`) {
		t.Fatalf("warning %q does not name the offending step", warnings[0])
	}

	clean := strings.Replace(minimalDoc, `"at": [0, 0, 0]`, `"at": ["w", "w", "w"]`, 1)
	if warnings := mustParse(t, clean).Lint(); len(warnings) != 0 {
		t.Fatalf("literal-free spec warned: %v", warnings)
	}
}

func TestStepLabel(t *testing.T) {
	st := Step{Shape: Shape{Kind: KindBox}}
	if st.Label() != "box" {
		t.Fatalf("Label = %q, want box", st.Label())
	}
	st.ID = "rj45-port"
	if st.Label() != "rj45-port" {
		t.Fatalf("Label = %q, want rj45-port", st.Label())
	}
}

func TestShippedSpec(t *testing.T) {
	data, err := os.ReadFile("../../spec.json")
	if err != nil {
		t.Skipf("spec.json not present: %v", err)
	}
	s, err := Parse(data)
	if err != nil {
		t.Fatalf("shipped spec does not validate: %v", err)
	}
	if s.Name != "krypton-spire" {
		t.Fatalf("name = %q", s.Name)
	}
	if len(s.Components) != 8 {
		t.Fatalf("components = %d, want 8", len(s.Components))
	}
	for _, id := range []string{
		"main_shell", "front_panel", "rear_panel", "left_panel",
		"right_panel", "ssd_mount", "eth_mount", "pi5_mount",
	} {
		if _, ok := s.Component(id); !ok {
			t.Fatalf("component %q missing", id)
		}
	}
	if len(s.Hardware) == 0 {
		t.Fatal("shipped spec has no hardware items")
	}
}

func TestShippedAccessorySpec(t *testing.T) {
	data, err := os.ReadFile("../../headband_spacer.json")
	if err != nil {
		t.Skipf("headband_spacer.json not present: %v", err)
	}
	s, err := Parse(data)
	if err != nil {
		t.Fatalf("accessory spec does not validate: %v", err)
	}
	if s.Name != "headband-spacer" {
		t.Fatalf("name = %q", s.Name)
	}
	c, ok := s.Component("headband_spacer")
	if !ok {
		t.Fatal("component headband_spacer missing")
	}
	if c.Role != RoleAccessory {
		t.Fatalf("role = %q, want accessory", c.Role)
	}
	if c.Steps[0].Shape.Kind != KindPrism {
		t.Fatalf("first step kind = %q, want prism", c.Steps[0].Shape.Kind)
	}
}
