package build

import (
	"errors"
	"math"
	"os"
	"testing"

	"github.com/chazu/spire/pkg/kernel/sdfx"
	"github.com/chazu/spire/pkg/spec"
)

const bbTol = 0.6

func bbNear(a, b float64) bool { return math.Abs(a-b) <= bbTol }

func session(t *testing.T, doc string) *Session {
	t.Helper()
	sp, err := spec.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return NewSession(sdfx.NewWithCells(16), sp, nil)
}

const blockDoc = `{
	"name": "blocks",
	"params": {"w": 20, "hole": 4},
	"colors": {"gray": {"hex": "#5D6D7E"}},
	"components": [
		{
			"id": "plain",
			"role": "mount",
			"color": "gray",
			"steps": [
				{"op": "add", "shape": {"kind": "box", "size": ["w", "w", "w"], "at": [0, 0, 0]}}
			]
		},
		{
			"id": "drilled",
			"role": "mount",
			"color": "gray",
			"steps": [
				{"op": "add", "shape": {"kind": "box", "size": ["w", "w", "w"], "at": [0, 0, 0]}},
				{"op": "cut", "id": "bore", "shape": {"kind": "cylinder", "dia": "hole", "h": 30, "at": [10, 10, -5]}}
			]
		},
		{
			"id": "placed",
			"role": "mount",
			"color": "gray",
			"at": [100, 0, 50],
			"steps": [
				{"op": "add", "shape": {"kind": "box", "size": ["w", "w", "w"], "at": [0, 0, 0]}}
			]
		},
		{
			"id": "missed-cut",
			"role": "mount",
			"color": "gray",
			"steps": [
				{"op": "add", "shape": {"kind": "box", "size": ["w", "w", "w"], "at": [0, 0, 0]}},
				{"op": "cut", "id": "stray-bore", "shape": {"kind": "cylinder", "dia": "hole", "h": 10, "at": [200, 200, 0]}}
			]
		},
		{
			"id": "hollowed-out",
			"role": "mount",
			"color": "gray",
			"steps": [
				{"op": "add", "shape": {"kind": "box", "size": ["w", "w", "w"], "at": [0, 0, 0]}},
				{"op": "cut", "id": "everything", "shape": {"kind": "box", "size": [40, 40, 40], "at": [-10, -10, -10]}}
			]
		}
	]
}`

func TestBuildUnknownComponent(t *testing.T) {
	s := session(t, blockDoc)
	_, err := s.Build("turret")
	var ue *UnknownComponentError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnknownComponentError, got %v", err)
	}
	if ue.ID != "turret" {
		t.Fatalf("error id = %q, want turret", ue.ID)
	}
}

func TestBuildBox(t *testing.T) {
	s := session(t, blockDoc)
	solid, err := s.Build("plain")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	min, max := solid.BoundingBox()
	for i := 0; i < 3; i++ {
		if !bbNear(min[i], 0) || !bbNear(max[i], 20) {
			t.Fatalf("axis %d span [%.3f, %.3f], want [0, 20]", i, min[i], max[i])
		}
	}
}

func TestBuildCut(t *testing.T) {
	s := session(t, blockDoc)
	solid, err := s.Build("drilled")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.Kernel().IsEmpty(solid) {
		t.Fatal("drilled block is empty")
	}
	// The bore removes material along the center line. Probe by
	// intersecting with a thin rod through the hole.
	k := s.Kernel()
	probe := k.Translate(k.Cylinder(30, 1, 16), 10, 10, 10)
	if !k.IsEmpty(k.Intersection(solid, probe)) {
		t.Fatal("bore did not remove material at the block center")
	}
}

func TestBuildPlacement(t *testing.T) {
	s := session(t, blockDoc)
	solid, err := s.Build("placed")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	min, _ := solid.BoundingBox()
	if !bbNear(min[0], 100) || !bbNear(min[1], 0) || !bbNear(min[2], 50) {
		t.Fatalf("placed min (%.3f, %.3f, %.3f), want (100, 0, 50)", min[0], min[1], min[2])
	}
}

func TestBuildCutGuards(t *testing.T) {
	s := session(t, blockDoc)

	_, err := s.Build("missed-cut")
	var ge *GeometryCutError
	if !errors.As(err, &ge) {
		t.Fatalf("disjoint cut: expected GeometryCutError, got %v", err)
	}
	if ge.Cutout != "stray-bore" {
		t.Fatalf("cutout = %q, want stray-bore", ge.Cutout)
	}

	_, err = s.Build("hollowed-out")
	if !errors.As(err, &ge) {
		t.Fatalf("total cut: expected GeometryCutError, got %v", err)
	}
	if ge.Cutout != "everything" {
		t.Fatalf("cutout = %q, want everything", ge.Cutout)
	}
}

func TestBuildTaperedBox(t *testing.T) {
	doc := `{
		"name": "taper",
		"params": {"bx": 40, "by": 30, "bh": 50, "tp": 0.5},
		"colors": {"gray": {"hex": "#5D6D7E"}},
		"components": [{
			"id": "stub",
			"role": "shell",
			"color": "gray",
			"steps": [
				{"op": "add", "shape": {"kind": "tapered-box", "x": "bx", "y": "by", "h": "bh", "taper": "tp"}}
			]
		}]
	}`
	s := session(t, doc)
	solid, err := s.Build("stub")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	min, max := solid.BoundingBox()
	if !bbNear(min[2], 0) || !bbNear(max[2], 50) {
		t.Fatalf("z span [%.3f, %.3f], want [0, 50]", min[2], max[2])
	}

	k := s.Kernel()
	// Material at a base corner, none above it at the top: the side
	// walls follow the taper inward.
	baseCorner := k.Translate(k.Box(2, 2, 2), 1, 1, 1)
	if k.IsEmpty(k.Intersection(solid, baseCorner)) {
		t.Fatal("no material at base corner")
	}
	topCorner := k.Translate(k.Box(2, 2, 2), 1, 1, 46)
	if !k.IsEmpty(k.Intersection(solid, topCorner)) {
		t.Fatal("material above base corner near the top; taper not applied")
	}
	// Top footprint is the base scaled by 0.5 and centered.
	topCenter := k.Translate(k.Box(2, 2, 2), 19, 14, 46)
	if k.IsEmpty(k.Intersection(solid, topCenter)) {
		t.Fatal("no material at top center")
	}
}

func TestSessionProfile(t *testing.T) {
	s := session(t, blockDoc)
	if _, ok := s.Profile(); ok {
		t.Fatal("block spec should not derive a taper profile")
	}

	data, err := os.ReadFile("../../spec.json")
	if err != nil {
		t.Skipf("spec.json not present: %v", err)
	}
	sp, err := spec.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	full := NewSession(sdfx.NewWithCells(16), sp, nil)
	p, ok := full.Profile()
	if !ok {
		t.Fatal("shipped spec should derive a taper profile")
	}
	if p.BaseX != 140 || p.BaseY != 100 || p.Height != 160 || p.Taper != 0.85 {
		t.Fatalf("profile = %+v", p)
	}
}

func shippedSession(t *testing.T) *Session {
	t.Helper()
	data, err := os.ReadFile("../../spec.json")
	if err != nil {
		t.Skipf("spec.json not present: %v", err)
	}
	sp, err := spec.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return NewSession(sdfx.NewWithCells(16), sp, nil)
}

func TestBuildMainShell(t *testing.T) {
	s := shippedSession(t)
	solid, err := s.Build("main_shell")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	min, max := solid.BoundingBox()
	want := [3]float64{140, 100, 160}
	for i := 0; i < 3; i++ {
		if !bbNear(min[i], 0) || !bbNear(max[i], want[i]) {
			t.Fatalf("axis %d span [%.3f, %.3f], want [0, %g]", i, min[i], max[i], want[i])
		}
	}

	// The shell is hollow: the panel openings and interior cut leave no
	// material at the center of the cavity.
	k := s.Kernel()
	cavity := k.Translate(k.Box(4, 4, 4), 68, 48, 78)
	if !k.IsEmpty(k.Intersection(solid, cavity)) {
		t.Fatal("material at the cavity center; interior not hollowed")
	}
}

func TestBuildHeadbandSpacer(t *testing.T) {
	data, err := os.ReadFile("../../headband_spacer.json")
	if err != nil {
		t.Skipf("headband_spacer.json not present: %v", err)
	}
	sp, err := spec.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := NewSession(sdfx.NewWithCells(16), sp, nil)

	solid, err := s.Build("headband_spacer")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.Kernel().IsEmpty(solid) {
		t.Fatal("spacer is empty")
	}
	min, max := solid.BoundingBox()
	// Wedge footprint: width_wide across x, length along y, thickness up.
	if !bbNear(min[0], -23.5) || !bbNear(max[0], 23.5) {
		t.Fatalf("x span [%.3f, %.3f], want [-23.5, 23.5]", min[0], max[0])
	}
	if !bbNear(min[1], 0) || !bbNear(max[1], 80) {
		t.Fatalf("y span [%.3f, %.3f], want [0, 80]", min[1], max[1])
	}
	if !bbNear(min[2], 0) || !bbNear(max[2], 8) {
		t.Fatalf("z span [%.3f, %.3f], want [0, 8]", min[2], max[2])
	}

	k := s.Kernel()
	// The first adjustment notch crosses the top face at y = 16.
	notch := k.Translate(k.Box(1, 0.2, 0.15), -0.5, 15.9, 7.8)
	if !k.IsEmpty(k.Intersection(solid, notch)) {
		t.Fatal("adjustment notch did not cut the top face")
	}
	// The right strap groove runs the full length near the edge.
	groove := k.Translate(k.Box(1, 2, 0.9), 18, 39, 7)
	if !k.IsEmpty(k.Intersection(solid, groove)) {
		t.Fatal("strap groove did not cut the top face")
	}
}

func TestBuildSSDMount(t *testing.T) {
	s := shippedSession(t)
	solid, err := s.Build("ssd_mount")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	min, max := solid.BoundingBox()
	// Placed on the floor; rails and clips stay inside the cavity.
	if !bbNear(min[2], 3) {
		t.Fatalf("min z = %.3f, want 3 (floor)", min[2])
	}
	if !bbNear(max[2], 25) {
		t.Fatalf("max z = %.3f, want 25 (rail + drive + grip above floor)", max[2])
	}
	if min[0] < 2 || max[0] > 138 {
		t.Fatalf("x span [%.3f, %.3f] leaves the shell footprint", min[0], max[0])
	}
}

func TestBuildPi5Mount(t *testing.T) {
	s := shippedSession(t)
	solid, err := s.Build("pi5_mount")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	min, max := solid.BoundingBox()
	// The platform sits on top of the ethernet tier.
	if !bbNear(min[2], 65) {
		t.Fatalf("min z = %.3f, want 65", min[2])
	}
	if !bbNear(max[2], 73) {
		t.Fatalf("max z = %.3f, want 73 (standoff tops)", max[2])
	}

	// Screw bores pass through the standoffs.
	k := s.Kernel()
	probe := k.Translate(k.Cylinder(12, 0.8, 16), 2.8+8+(85-58)/2.0, 2.8+(100-5.6-56)/2.0+(56-49)/2.0, 69)
	if !k.IsEmpty(k.Intersection(solid, probe)) {
		t.Fatal("screw bore did not clear the standoff center")
	}
}

func TestBuildFrontPanel(t *testing.T) {
	s := shippedSession(t)
	solid, err := s.Build("front_panel")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.Kernel().IsEmpty(solid) {
		t.Fatal("front panel is empty")
	}
	min, max := solid.BoundingBox()
	// Plate spans the opening minus the fit tolerance.
	if !bbNear(min[2], 15.3) || !bbNear(max[2], 134.7) {
		t.Fatalf("panel z span [%.3f, %.3f], want [15.3, 134.7]", min[2], max[2])
	}
	if max[1] > 12 {
		t.Fatalf("panel max y = %.3f; the front plate should hug the front wall", max[1])
	}
}
