// Package build evaluates component recipes from a validated spec into
// kernel solids. A Session holds the kernel, the spec, and the derived
// shell taper profile; Build folds a component's recipe steps into a
// single solid with every boolean cut guarded against degenerate
// results.
package build

import (
	"go.uber.org/zap"

	"github.com/chazu/spire/pkg/kernel"
	"github.com/chazu/spire/pkg/spec"
)

// Session binds a validated spec to a geometry kernel. One session
// builds any number of components; sessions hold no mutable state
// beyond the logger.
type Session struct {
	k          kernel.Kernel
	spec       *spec.Spec
	profile    Profile
	hasProfile bool
	log        *zap.Logger
}

// NewSession creates a build session. A nil logger disables logging.
func NewSession(k kernel.Kernel, sp *spec.Spec, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{k: k, spec: sp, log: log}
	if p, err := profileFromParams(sp.Params); err == nil {
		s.profile = p
		s.hasProfile = true
	}
	return s
}

// Spec returns the spec the session was created with.
func (s *Session) Spec() *spec.Spec { return s.spec }

// Kernel returns the geometry kernel the session builds with.
func (s *Session) Kernel() kernel.Kernel { return s.k }

// Profile returns the shell taper profile, if the spec defines the
// profile parameters.
func (s *Session) Profile() (Profile, bool) { return s.profile, s.hasProfile }

func (s *Session) param(name string) float64 { return s.spec.Params[name] }
