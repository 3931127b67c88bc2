// Package export turns built components into mesh files: one STL per
// component plus a combined multi-color 3MF archive. Export is
// best-effort; a failing component is recorded and skipped so one bad
// recipe never blocks the rest of the model.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/chazu/spire/pkg/build"
	"github.com/chazu/spire/pkg/kernel"
)

// ComponentStatus records the outcome for one component.
type ComponentStatus struct {
	ID        string
	File      string // STL file name, empty on failure
	Triangles int
	Err       error
}

// Report aggregates the outcome of an export run.
type Report struct {
	Components []ComponentStatus
	Archive    string // 3MF file name, empty if not written
	ArchiveErr error
}

// OK reports whether every component and the archive succeeded.
func (r *Report) OK() bool {
	if r.ArchiveErr != nil {
		return false
	}
	for _, c := range r.Components {
		if c.Err != nil {
			return false
		}
	}
	return true
}

// Failed returns the statuses of components that did not export.
func (r *Report) Failed() []ComponentStatus {
	var out []ComponentStatus
	for _, c := range r.Components {
		if c.Err != nil {
			out = append(out, c)
		}
	}
	return out
}

// Exporter runs builds and writes mesh files for a whole spec.
type Exporter struct {
	session *build.Session
	outDir  string
	log     *zap.Logger
}

// New creates an exporter writing into outDir. A nil logger disables
// logging.
func New(session *build.Session, outDir string, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{session: session, outDir: outDir, log: log}
}

// Run builds and exports every component in spec order, then writes
// the combined archive from the components that succeeded.
func (e *Exporter) Run() *Report { return e.RunOnly(nil) }

// RunOnly exports the named components, or all of them when ids is
// empty. Unknown ids are reported as failed components.
func (e *Exporter) RunOnly(ids []string) *Report {
	sp := e.session.Spec()
	report := &Report{}

	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		report.ArchiveErr = fmt.Errorf("output dir: %w", err)
		return report
	}

	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
		if _, ok := sp.Component(id); !ok {
			report.Components = append(report.Components,
				ComponentStatus{ID: id, Err: &build.UnknownComponentError{ID: id}})
		}
	}

	var parts []Part
	for i := range sp.Components {
		c := &sp.Components[i]
		if len(ids) > 0 && !selected[c.ID] {
			continue
		}
		status := ComponentStatus{ID: c.ID}

		mesh, err := e.exportComponent(c.ID)
		if err != nil {
			status.Err = err
			e.log.Error("component export failed",
				zap.String("component", c.ID), zap.Error(err))
			report.Components = append(report.Components, status)
			continue
		}

		status.File = c.STLName()
		status.Triangles = mesh.TriangleCount()
		report.Components = append(report.Components, status)
		e.log.Info("component exported",
			zap.String("component", c.ID),
			zap.String("file", status.File),
			zap.Int("triangles", status.Triangles))

		r, g, b, _ := sp.Colors[c.Color].RGB()
		parts = append(parts, Part{Name: c.ID, Mesh: mesh, RGB: [3]uint8{r, g, b}})
	}

	if len(parts) == 0 {
		report.ArchiveErr = fmt.Errorf("no components exported, skipping archive")
		return report
	}

	report.Archive = sp.Name + ".3mf"
	if err := WriteArchive(filepath.Join(e.outDir, report.Archive), parts); err != nil {
		report.Archive = ""
		report.ArchiveErr = err
		e.log.Error("archive export failed", zap.Error(err))
		return report
	}
	e.log.Info("archive exported",
		zap.String("file", report.Archive), zap.Int("parts", len(parts)))
	return report
}

// exportComponent builds one component, meshes it, and writes its STL.
func (e *Exporter) exportComponent(id string) (*kernel.Mesh, error) {
	solid, err := e.session.Build(id)
	if err != nil {
		return nil, err
	}

	mesh, err := e.session.Kernel().ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", id, err)
	}
	if mesh.IsEmpty() {
		return nil, fmt.Errorf("mesh %q has no triangles", id)
	}

	c, _ := e.session.Spec().Component(id)
	mesh.Name = id
	if err := WriteSTL(filepath.Join(e.outDir, c.STLName()), mesh); err != nil {
		return nil, err
	}
	return mesh, nil
}
