package build

import "fmt"

// UnknownComponentError reports a build request for an id that is not in
// the spec's component list.
type UnknownComponentError struct {
	ID string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("unknown component %q", e.ID)
}

// NonManifoldGeometryError reports a shape that cannot form a closed,
// watertight solid, typically a loft between mismatched or open
// profiles.
type NonManifoldGeometryError struct {
	Component string
	Step      string
	Reason    string
}

func (e *NonManifoldGeometryError) Error() string {
	return fmt.Sprintf("component %q step %q: non-manifold geometry: %s", e.Component, e.Step, e.Reason)
}

// GeometryCutError reports a degenerate boolean cut: a cutout with no
// volume, a cutout that misses the solid entirely, or a cut sequence
// that removes all remaining material. The offending cutout is named so
// a misplaced feature fails loudly instead of silently not rendering.
type GeometryCutError struct {
	Component string
	Cutout    string
	Reason    string
}

func (e *GeometryCutError) Error() string {
	return fmt.Sprintf("component %q cutout %q: %s", e.Component, e.Cutout, e.Reason)
}
